package shogun

// defaultBufferCapacity is the number of parsed examples a file-backed
// reader may buffer ahead of the consumer.
const defaultBufferCapacity = 1024

// Option is a functional option for configuring a HashedStream.
type Option func(*config)

type config struct {
	useQuadratic    bool
	keepLinearTerms bool
	hasLabels       bool
	bufferCapacity  int
	hashFunction    HashFunction
}

func defaultConfig() *config {
	return &config{
		keepLinearTerms: true,
		bufferCapacity:  defaultBufferCapacity,
		hashFunction:    HashMurmur3,
	}
}

// WithQuadraticFeatures enables second-order feature expansion: every
// unordered pair of raw entries (self-pairs included) contributes the
// product of its values to a pairwise hash slot. Expansion is O(k^2) in
// the number of raw non-zero entries per example.
func WithQuadraticFeatures() Option {
	return func(c *config) {
		c.useQuadratic = true
	}
}

// WithKeepLinearTerms controls whether the first-order terms are retained
// once quadratic expansion is enabled. The default is true. With keep set
// to false the quadratic terms replace the linear signal instead of
// augmenting it. The flag has no effect without WithQuadraticFeatures.
func WithKeepLinearTerms(keep bool) Option {
	return func(c *config) {
		c.keepLinearTerms = keep
	}
}

// WithLabels declares that every example carries a label. The reader must
// be able to supply one per example; Label() returns absent otherwise.
func WithLabels() Option {
	return func(c *config) {
		c.hasLabels = true
	}
}

// WithBufferCapacity sets how many parsed examples a file-backed reader may
// buffer ahead of the consumer. Default is 1024. In-memory readers ignore it.
func WithBufferCapacity(n int) Option {
	return func(c *config) {
		c.bufferCapacity = n
	}
}

// WithHashFunction selects the feature hash. Default is HashMurmur3.
func WithHashFunction(h HashFunction) Option {
	return func(c *config) {
		c.hashFunction = h
	}
}
