package stream_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-facade/framework/stream"
)

type closeCounter struct {
	*bytes.Buffer
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestNewWrapper_InvalidArgument(t *testing.T) {
	_, err := stream.NewWrapper(nil)
	assert.ErrorIs(t, err, stream.ErrInvalidArgument)

	_, err = stream.NewWrapper(42)
	assert.ErrorIs(t, err, stream.ErrInvalidArgument)
}

func TestWrapper_ForwardsReadAndSeek(t *testing.T) {
	base := strings.NewReader("facade")
	w, err := stream.NewWrapper(base)
	require.NoError(t, err)

	assert.True(t, w.CanRead())
	assert.True(t, w.CanSeek())
	assert.False(t, w.CanWrite())
	assert.Same(t, base, w.Base())

	pos, err := w.Seek(2, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pos)

	rest, err := io.ReadAll(w)
	require.NoError(t, err)
	assert.Equal(t, "cade", string(rest))

	_, err = w.Write([]byte("x"))
	assert.ErrorIs(t, err, errors.ErrUnsupported)
	assert.NoError(t, w.Close(), "closing a non-closer is a no-op")
}

func TestWrapper_ForwardsWriteAndClose(t *testing.T) {
	base := &closeCounter{Buffer: &bytes.Buffer{}}
	w, err := stream.NewWrapper(base)
	require.NoError(t, err)

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", base.String())

	_, err = w.Seek(0, io.SeekStart)
	assert.ErrorIs(t, err, errors.ErrUnsupported)

	require.NoError(t, w.Close())
	assert.Equal(t, 1, base.closed)
}
