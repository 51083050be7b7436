package http1

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strand-web/strand/http"
)

func collect(t *testing.T, b *Body, data []byte) (payload []byte, extra []byte) {
	for {
		piece, rest, done, err := b.Parse(data)
		require.NoError(t, err)

		payload = append(payload, piece...)
		if done {
			return payload, rest
		}

		require.NotEmpty(t, rest, "the framer made no progress")
		data = rest
	}
}

func TestBodyLength(t *testing.T) {
	t.Run("no body at all", func(t *testing.T) {
		b := NewBody(1024)
		b.Reset(&http.Head{})
		require.True(t, b.Empty())

		payload, extra, done, err := b.Parse([]byte("leftover"))
		require.NoError(t, err)
		require.True(t, done)
		require.Empty(t, payload)
		require.Equal(t, "leftover", string(extra))
	})

	t.Run("single portion", func(t *testing.T) {
		b := NewBody(1024)
		b.Reset(&http.Head{ContentLength: 5})
		require.False(t, b.Empty())

		payload, extra, done, err := b.Parse([]byte("hello"))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, "hello", string(payload))
		require.Empty(t, extra)
	})

	t.Run("split portions", func(t *testing.T) {
		b := NewBody(1024)
		b.Reset(&http.Head{ContentLength: 10})

		payload, _, done, err := b.Parse([]byte("hello"))
		require.NoError(t, err)
		require.False(t, done)
		require.Equal(t, "hello", string(payload))

		payload, extra, done, err := b.Parse([]byte("world"))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, "world", string(payload))
		require.Empty(t, extra)
	})

	t.Run("pipelined leftover", func(t *testing.T) {
		b := NewBody(1024)
		b.Reset(&http.Head{ContentLength: 4})

		payload, extra, done, err := b.Parse([]byte("bodyGET / HTTP/1.1"))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, "body", string(payload))
		require.Equal(t, "GET / HTTP/1.1", string(extra))
	})

	t.Run("reusable across requests", func(t *testing.T) {
		b := NewBody(1024)

		b.Reset(&http.Head{ContentLength: 3})
		payload, _ := collect(t, b, []byte("one"))
		require.Equal(t, "one", string(payload))

		b.Reset(&http.Head{ContentLength: 5})
		payload, _ = collect(t, b, []byte("two##"))
		require.Equal(t, "two##", string(payload))
	})
}

func TestBodyChunked(t *testing.T) {
	t.Run("two chunks", func(t *testing.T) {
		b := NewBody(1024)
		b.Reset(&http.Head{Chunked: true})
		require.False(t, b.Empty())

		payload, extra := collect(t, b, []byte("5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n"))
		require.Equal(t, "hello world", string(payload))
		require.Empty(t, extra)
	})

	t.Run("pipelined leftover", func(t *testing.T) {
		b := NewBody(1024)
		b.Reset(&http.Head{Chunked: true})

		payload, extra := collect(t, b, []byte("3\r\nabc\r\n0\r\n\r\nGET"))
		require.Equal(t, "abc", string(payload))
		require.Equal(t, "GET", string(extra))
	})

	t.Run("malformed chunk size", func(t *testing.T) {
		b := NewBody(1024)
		b.Reset(&http.Head{Chunked: true})

		_, _, _, err := b.Parse([]byte("zz\r\nabc\r\n"))
		require.Error(t, err)
	})

	t.Run("body over the limit", func(t *testing.T) {
		b := NewBody(4)
		b.Reset(&http.Head{Chunked: true})

		_, _, _, err := b.Parse([]byte("5\r\nhello\r\n0\r\n\r\n"))
		require.Error(t, err)
	})
}
