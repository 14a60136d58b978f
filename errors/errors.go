// Package errors defines all exported error sentinels for the shogun library.
//
// This is the single source of truth for error values. The top-level shogun
// package wraps these with fmt.Errorf("%w: ...") so callers can match with
// errors.Is regardless of the added context.
package errors

import "errors"

// Configuration errors (raised at construction or Start)
var (
	ErrInvalidDimension      = errors.New("shogun: target dimension must be greater than zero")
	ErrNoReader              = errors.New("shogun: no stream reader bound")
	ErrInvalidBufferCapacity = errors.New("shogun: buffer capacity must be greater than zero")
	ErrUnknownHashFunction   = errors.New("shogun: unknown hash function")
	ErrMissingLabels         = errors.New("shogun: labels requested but reader has no label data")
	ErrLabelCountMismatch    = errors.New("shogun: label count does not match vector count")
)

// Stream errors
var (
	ErrStreamRead     = errors.New("shogun: stream read fault")
	ErrMalformedInput = errors.New("shogun: malformed sparse vector record")
)

// Contract violations (programming errors, fail fast)
var (
	ErrNotStarted        = errors.New("shogun: stream not started")
	ErrClosed            = errors.New("shogun: stream is closed")
	ErrNoCurrentExample  = errors.New("shogun: no current example")
	ErrDimensionMismatch = errors.New("shogun: dense vector length does not match target dimension")
)
