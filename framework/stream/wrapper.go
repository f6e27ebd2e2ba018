// Package stream provides a forwarding decorator around a byte stream.
// Embed Wrapper to override a subset of operations on an existing stream.
package stream

import (
	"errors"
	"fmt"
	"io"
)

// ErrInvalidArgument is returned when a Wrapper is built without a base.
var ErrInvalidArgument = errors.New("stream: invalid argument")

// Wrapper forwards every operation to its base stream. Operations the base
// does not implement fail with errors.ErrUnsupported.
type Wrapper struct {
	base any
}

// NewWrapper wraps base, which must implement at least one of io.Reader,
// io.Writer, io.Seeker or io.Closer.
func NewWrapper(base any) (*Wrapper, error) {
	switch base.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil base stream", ErrInvalidArgument)
	case io.Reader, io.Writer, io.Seeker, io.Closer:
		return &Wrapper{base: base}, nil
	default:
		return nil, fmt.Errorf("%w: %T is not a stream", ErrInvalidArgument, base)
	}
}

// Base returns the wrapped stream.
func (w *Wrapper) Base() any { return w.base }

func (w *Wrapper) CanRead() bool  { _, ok := w.base.(io.Reader); return ok }
func (w *Wrapper) CanWrite() bool { _, ok := w.base.(io.Writer); return ok }
func (w *Wrapper) CanSeek() bool  { _, ok := w.base.(io.Seeker); return ok }

func (w *Wrapper) Read(p []byte) (int, error) {
	r, ok := w.base.(io.Reader)
	if !ok {
		return 0, errors.ErrUnsupported
	}
	return r.Read(p)
}

func (w *Wrapper) Write(p []byte) (int, error) {
	wr, ok := w.base.(io.Writer)
	if !ok {
		return 0, errors.ErrUnsupported
	}
	return wr.Write(p)
}

func (w *Wrapper) Seek(offset int64, whence int) (int64, error) {
	s, ok := w.base.(io.Seeker)
	if !ok {
		return 0, errors.ErrUnsupported
	}
	return s.Seek(offset, whence)
}

// Close closes the base if it is an io.Closer; otherwise it is a no-op.
func (w *Wrapper) Close() error {
	if c, ok := w.base.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
