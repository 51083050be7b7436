package kv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	t.Run("order and duplicates", func(t *testing.T) {
		s := New().
			Add("Accept", "text/html").
			Add("Cookie", "a=b").
			Add("Cookie", "c=d")

		require.Equal(t, 3, s.Len())
		require.Equal(t, []string{"a=b", "c=d"}, s.Values("Cookie"))
		require.Equal(t, "Accept", s.Pairs()[0].Key)
	})

	t.Run("case-insensitive lookup", func(t *testing.T) {
		s := New().Add("Content-Length", "13")
		value, found := s.Get("content-length")
		require.True(t, found)
		require.Equal(t, "13", value)
		require.True(t, s.Has("CONTENT-LENGTH"))
	})

	t.Run("missing key", func(t *testing.T) {
		s := New()
		require.False(t, s.Has("connection"))
		require.Equal(t, "keep-alive", s.ValueOr("connection", "keep-alive"))
		require.Nil(t, s.Values("connection"))
	})

	t.Run("clear", func(t *testing.T) {
		s := New().Add("a", "b")
		require.Equal(t, 0, s.Clear().Len())
	})
}
