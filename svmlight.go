package shogun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/sync/errgroup"

	shogunerrors "github.com/NanuSai/shogun/errors"
)

// parsedExample is one record handed from the parse goroutine to Next.
type parsedExample[T Number] struct {
	entries SparseVector[T]
	label   float64
}

// FileReader streams sparse vectors from an SVMLight-format text file.
//
// Record format, one example per line:
//
//	[label] index:value index:value ... [# comment]
//
// Indices are non-negative integers of arbitrary range, values are parsed
// as floating point and converted to the element type. Blank lines and
// comment-only lines are skipped. The label field is consumed only when
// the stream is opened with HasLabels.
//
// The file is memory-mapped read-only and parsed by a background goroutine
// that stays at most BufferCapacity examples ahead of the consumer. Entry
// buffers are recycled through a fixed pool of the same capacity: the
// consumer must Release each example before it has BufferCapacity
// unreleased examples outstanding, or the parser stalls waiting for a free
// buffer. Release never corrupts a vector that is still referenced.
//
// A FileReader is driven by a single HashedStream and is not safe for
// concurrent use.
type FileReader[T Number] struct {
	path string
	mm   mmap.MMap
	data []byte

	examples chan parsedExample[T]
	recycle  chan SparseVector[T]
	group    *errgroup.Group
	cancel   context.CancelFunc

	// pending is the buffer handed out by the last Next, returned to the
	// pool by Release.
	pending SparseVector[T]

	hasLabels bool
	opened    bool
	closed    bool
}

// NewFileReader creates a reader for the given path. No I/O happens until
// Open is called by the owning HashedStream.
func NewFileReader[T Number](path string) *FileReader[T] {
	return &FileReader[T]{path: path}
}

// Open maps the file and starts the background parser.
func (r *FileReader[T]) Open(cfg ReaderConfig) error {
	if r.closed {
		return shogunerrors.ErrClosed
	}
	if r.opened {
		return nil
	}
	if cfg.BufferCapacity <= 0 {
		return shogunerrors.ErrInvalidBufferCapacity
	}

	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("open stream file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat stream file: %w", err)
	}

	// Mapping a zero-length file fails on some platforms; an empty file is
	// simply an immediately exhausted stream.
	if size := stat.Size(); size > 0 {
		fadviseSequential(int(f.Fd()), 0, size)
		mm, err := mmap.Map(f, mmap.RDONLY, 0)
		if err != nil {
			return fmt.Errorf("mmap stream file: %w", err)
		}
		r.mm = mm
		r.data = []byte(mm)
	}

	r.hasLabels = cfg.HasLabels
	r.examples = make(chan parsedExample[T], cfg.BufferCapacity)
	r.recycle = make(chan SparseVector[T], cfg.BufferCapacity)
	for i := 0; i < cfg.BufferCapacity; i++ {
		r.recycle <- nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	group, gctx := errgroup.WithContext(ctx)
	r.group = group
	group.Go(func() error {
		return r.parseLoop(gctx)
	})

	r.opened = true
	return nil
}

// parseLoop scans the mapped file line by line, parsing each record into a
// buffer from the recycle pool and publishing it on the examples channel.
// Closing the channel is the end-of-stream signal to Next.
func (r *FileReader[T]) parseLoop(ctx context.Context) error {
	defer close(r.examples)

	data := r.data
	lineNo := 0
	for start := 0; start < len(data); {
		end := bytes.IndexByte(data[start:], '\n')
		var line []byte
		if end < 0 {
			line = data[start:]
			start = len(data)
		} else {
			line = data[start : start+end]
			start += end + 1
		}
		lineNo++

		if i := bytes.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var buf SparseVector[T]
		select {
		case buf = <-r.recycle:
		case <-ctx.Done():
			return ctx.Err()
		}

		entries, label, err := parseRecord(line, buf[:0], r.hasLabels)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		select {
		case r.examples <- parsedExample[T]{entries: entries, label: label}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Next returns the next parsed example, io.EOF at end of stream, or the
// parse fault that terminated the stream.
func (r *FileReader[T]) Next() (SparseVector[T], float64, error) {
	if r.closed {
		return nil, 0, shogunerrors.ErrClosed
	}
	if !r.opened {
		return nil, 0, shogunerrors.ErrNotStarted
	}

	ex, ok := <-r.examples
	if !ok {
		if err := r.group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return nil, 0, err
		}
		return nil, 0, io.EOF
	}
	r.pending = ex.entries
	return ex.entries, ex.label, nil
}

// Release returns the last example's buffer to the recycle pool. No-op
// without an outstanding example.
func (r *FileReader[T]) Release() {
	if r.pending == nil {
		return
	}
	// Every in-flight buffer originated from the pool, so the send below
	// can never block.
	r.recycle <- r.pending
	r.pending = nil
}

// Close cancels the background parser, joins it, and unmaps the file.
// Safe to call at any point once no Next call is outstanding.
func (r *FileReader[T]) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if !r.opened {
		return nil
	}

	r.cancel()
	var errs []error
	if err := r.group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		errs = append(errs, err)
	}
	if r.mm != nil {
		if err := r.mm.Unmap(); err != nil {
			errs = append(errs, fmt.Errorf("unmap stream file: %w", err))
		}
		r.mm = nil
		r.data = nil
	}
	return errors.Join(errs...)
}

// parseRecord parses one SVMLight record into dst (reused, length reset by
// the caller). The line has been stripped of comments and surrounding
// whitespace and is non-empty.
func parseRecord[T Number](line []byte, dst SparseVector[T], hasLabels bool) (SparseVector[T], float64, error) {
	fields := bytes.Fields(line)

	var label float64
	if hasLabels {
		v, err := strconv.ParseFloat(string(fields[0]), 64)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: bad label %q", shogunerrors.ErrMalformedInput, fields[0])
		}
		label = v
		fields = fields[1:]
	}

	for _, field := range fields {
		sep := bytes.IndexByte(field, ':')
		if sep < 0 {
			return nil, 0, fmt.Errorf("%w: entry %q missing ':'", shogunerrors.ErrMalformedInput, field)
		}
		index, err := strconv.ParseUint(string(field[:sep]), 10, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: bad index %q", shogunerrors.ErrMalformedInput, field[:sep])
		}
		value, err := strconv.ParseFloat(string(field[sep+1:]), 64)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: bad value %q", shogunerrors.ErrMalformedInput, field[sep+1:])
		}
		dst = append(dst, Entry[T]{Index: index, Value: T(value)})
	}
	return dst, label, nil
}
