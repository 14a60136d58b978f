package shogun

import (
	"io"

	shogunerrors "github.com/NanuSai/shogun/errors"
)

// ReaderConfig is passed to StreamReader.Open by the owning HashedStream.
type ReaderConfig struct {
	// HasLabels declares that every record carries a label.
	HasLabels bool

	// BufferCapacity bounds how many parsed examples the reader may hold
	// ahead of the consumer. Readers without internal buffering ignore it.
	BufferCapacity int
}

// StreamReader yields raw sparse vectors one example at a time. It is the
// boundary between the hashing core and the byte-level input source.
//
// Next returns the next raw vector and its label (zero when unlabelled).
// End of stream is io.EOF; any other error is a fatal read fault. The
// returned vector may reference a buffer owned by the reader — the caller
// must call Release once done with it and before the following Next, so
// the reader can recycle the buffer. Readers that do not own their buffers
// implement Release as a no-op.
type StreamReader[T Number] interface {
	Open(cfg ReaderConfig) error
	Next() (SparseVector[T], float64, error)
	Release()
	Close() error
}

// SliceReader replays an in-memory collection of sparse vectors as a
// stream, with an optional parallel label array. Buffers are owned by the
// caller for their whole lifetime, so Release is a no-op.
type SliceReader[T Number] struct {
	vectors []SparseVector[T]
	labels  []float64
	pos     int
	closed  bool
}

// NewSliceReader creates a replay reader over vectors. labels may be nil
// for unlabelled data; otherwise it must be parallel to vectors.
func NewSliceReader[T Number](vectors []SparseVector[T], labels []float64) *SliceReader[T] {
	return &SliceReader[T]{vectors: vectors, labels: labels}
}

// Open validates the label array against the requested configuration.
func (r *SliceReader[T]) Open(cfg ReaderConfig) error {
	if cfg.HasLabels && r.labels == nil {
		return shogunerrors.ErrMissingLabels
	}
	if r.labels != nil && len(r.labels) != len(r.vectors) {
		return shogunerrors.ErrLabelCountMismatch
	}
	r.pos = 0
	return nil
}

// Next returns the next vector in collection order, or io.EOF.
func (r *SliceReader[T]) Next() (SparseVector[T], float64, error) {
	if r.closed {
		return nil, 0, shogunerrors.ErrClosed
	}
	if r.pos >= len(r.vectors) {
		return nil, 0, io.EOF
	}
	vec := r.vectors[r.pos]
	var label float64
	if r.labels != nil {
		label = r.labels[r.pos]
	}
	r.pos++
	return vec, label, nil
}

// Release is a no-op: the caller owns the replayed buffers.
func (r *SliceReader[T]) Release() {}

// Close marks the reader closed. Subsequent Next calls fail.
func (r *SliceReader[T]) Close() error {
	r.closed = true
	return nil
}
