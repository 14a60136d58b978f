package shogun

import (
	"errors"
	"fmt"
	"io"
	"math"

	shogunerrors "github.com/NanuSai/shogun/errors"
)

// streamState tracks the cursor lifecycle.
type streamState uint8

const (
	stateNotStarted streamState = iota
	stateRunning
	stateExhausted
	stateClosed
)

// HashedStream is a pull cursor over a stream of sparse examples. Each
// fetched raw vector is projected into the fixed target dimension via the
// hashing trick, optionally with quadratic feature expansion, and held as
// the current example until the next fetch.
//
// Usage:
//
//	stream, err := shogun.NewHashedStream[float64](reader, 1<<16,
//	    shogun.WithLabels())
//	if err != nil { return err }
//	defer stream.Close()
//
//	if err := stream.Start(); err != nil { return err }
//	for {
//	    ok, err := stream.NextExample()
//	    if err != nil { return err }
//	    if !ok { break } // end of stream
//	    vec, _ := stream.Vector()
//	    consume(vec)
//	    stream.ReleaseExample()
//	}
//
// A HashedStream is not safe for concurrent use: NextExample calls must be
// serialized by the caller, and Close must only be called once no
// NextExample is outstanding.
type HashedStream[T Number] struct {
	reader StreamReader[T]
	dim    uint32
	cfg    *config
	sum    sumFunc

	state        streamState
	current      SparseVector[T]
	currentLabel float64
	hasCurrent   bool
	released     bool
}

// NewHashedStream creates a cursor bound to reader, projecting every
// example into dim hash slots. Configuration is immutable afterwards.
func NewHashedStream[T Number](reader StreamReader[T], dim uint32, opts ...Option) (*HashedStream[T], error) {
	if reader == nil {
		return nil, shogunerrors.ErrNoReader
	}
	if dim == 0 {
		return nil, shogunerrors.ErrInvalidDimension
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.bufferCapacity <= 0 {
		return nil, shogunerrors.ErrInvalidBufferCapacity
	}
	sum := cfg.hashFunction.sum()
	if sum == nil {
		return nil, fmt.Errorf("%w: id %d", shogunerrors.ErrUnknownHashFunction, cfg.hashFunction)
	}

	return &HashedStream[T]{
		reader: reader,
		dim:    dim,
		cfg:    cfg,
		sum:    sum,
	}, nil
}

// NewHashedStreamFromVectors creates a cursor replaying an in-memory
// collection of sparse vectors. A non-nil labels array must be parallel to
// vectors and implies WithLabels.
func NewHashedStreamFromVectors[T Number](vectors []SparseVector[T], labels []float64, dim uint32, opts ...Option) (*HashedStream[T], error) {
	if labels != nil {
		opts = append(opts, WithLabels())
	}
	return NewHashedStream(NewSliceReader(vectors, labels), dim, opts...)
}

// Start opens the underlying reader. Idempotent while the stream is
// running or exhausted; fails with ErrClosed after Close.
func (h *HashedStream[T]) Start() error {
	switch h.state {
	case stateRunning, stateExhausted:
		return nil
	case stateClosed:
		return shogunerrors.ErrClosed
	}
	err := h.reader.Open(ReaderConfig{
		HasLabels:      h.cfg.hasLabels,
		BufferCapacity: h.cfg.bufferCapacity,
	})
	if err != nil {
		return fmt.Errorf("start stream: %w", err)
	}
	h.state = stateRunning
	return nil
}

// NextExample fetches and hashes the next raw vector, making it the
// current example. It returns false exactly when the reader reports end of
// stream; once exhausted, further calls keep returning false. Read faults
// are fatal and wrap ErrStreamRead; they are not retried.
//
// Calling NextExample before Start is a contract violation (ErrNotStarted),
// as is calling it after Close (ErrClosed).
func (h *HashedStream[T]) NextExample() (bool, error) {
	switch h.state {
	case stateNotStarted:
		return false, shogunerrors.ErrNotStarted
	case stateClosed:
		return false, shogunerrors.ErrClosed
	case stateExhausted:
		return false, nil
	}

	raw, label, err := h.reader.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			h.state = stateExhausted
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", shogunerrors.ErrStreamRead, err)
	}

	h.current = hashVector(raw, h.dim, h.cfg.useQuadratic, h.cfg.keepLinearTerms, h.sum)
	h.currentLabel = label
	h.hasCurrent = true
	h.released = false
	return true, nil
}

// Vector returns the hashed vector produced by the most recent successful
// NextExample. Every entry index is in [0, Dim()); entries are sorted by
// index and unique. The vector is freshly allocated per example and never
// aliases reader buffers, so it remains valid after ReleaseExample and
// across later fetches.
func (h *HashedStream[T]) Vector() (SparseVector[T], error) {
	if !h.hasCurrent {
		return nil, shogunerrors.ErrNoCurrentExample
	}
	return h.current, nil
}

// Label returns the current example's label. The second return is false
// when the stream was not configured with labels or there is no current
// example.
func (h *HashedStream[T]) Label() (float64, bool) {
	if !h.cfg.hasLabels || !h.hasCurrent {
		return 0, false
	}
	return h.currentLabel, true
}

// ReleaseExample returns the current raw buffer to the reader for reuse.
// In file-backed mode it must be called once per example, before the
// consumer falls a full buffer pool behind; replay readers ignore it.
// No-op without a current example, and idempotent per example.
func (h *HashedStream[T]) ReleaseExample() {
	if !h.hasCurrent || h.released {
		return
	}
	h.released = true
	h.reader.Release()
}

// Close tears down the reader. Terminal: subsequent NextExample and Start
// calls fail with ErrClosed. Must only be called once no NextExample is
// outstanding.
func (h *HashedStream[T]) Close() error {
	if h.state == stateClosed {
		return nil
	}
	started := h.state != stateNotStarted
	h.state = stateClosed
	if !started {
		return nil
	}
	return h.reader.Close()
}

// Dim returns the target dimension d.
func (h *HashedStream[T]) Dim() uint32 {
	return h.dim
}

// NumFeatures returns the post-hash feature count, which is always the
// fixed target dimension regardless of the raw input's cardinality.
func (h *HashedStream[T]) NumFeatures() uint32 {
	return h.dim
}

// Dot returns the sparse dot product of this stream's current vector with
// another stream's current vector. Both streams must share the same target
// dimension so slot indices are directly comparable.
func (h *HashedStream[T]) Dot(other *HashedStream[T]) (float64, error) {
	if other.dim != h.dim {
		return 0, shogunerrors.ErrDimensionMismatch
	}
	if !h.hasCurrent || !other.hasCurrent {
		return 0, shogunerrors.ErrNoCurrentExample
	}
	return h.current.SparseDot(other.current), nil
}

// DenseDot returns the dot product of the current vector with a dense
// vector of length Dim().
func (h *HashedStream[T]) DenseDot(dense []float64) (float64, error) {
	if uint32(len(dense)) != h.dim {
		return 0, shogunerrors.ErrDimensionMismatch
	}
	if !h.hasCurrent {
		return 0, shogunerrors.ErrNoCurrentExample
	}
	var sum float64
	for _, e := range h.current {
		sum += dense[e.Index] * float64(e.Value)
	}
	return sum, nil
}

// AddToDenseVec accumulates alpha times the current vector into dense,
// in place. With absVal the magnitude of alpha is used regardless of its
// sign. dense must have length Dim() and is owned by the caller.
func (h *HashedStream[T]) AddToDenseVec(alpha float64, dense []float64, absVal bool) error {
	if uint32(len(dense)) != h.dim {
		return shogunerrors.ErrDimensionMismatch
	}
	if !h.hasCurrent {
		return shogunerrors.ErrNoCurrentExample
	}
	if absVal {
		alpha = math.Abs(alpha)
	}
	for _, e := range h.current {
		dense[e.Index] += alpha * float64(e.Value)
	}
	return nil
}
