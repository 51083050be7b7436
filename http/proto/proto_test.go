package proto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromBytes(t *testing.T) {
	require.Equal(t, HTTP10, FromBytes([]byte("HTTP/1.0")))
	require.Equal(t, HTTP11, FromBytes([]byte("HTTP/1.1")))
	require.Equal(t, Unknown, FromBytes([]byte("HTTP/2.0")))
	require.Equal(t, Unknown, FromBytes([]byte("HTTP/1.1 ")))
	require.Equal(t, Unknown, FromBytes([]byte("SMTP/1.1")))
	require.Equal(t, Unknown, FromBytes(nil))
}

func TestKeepAlive(t *testing.T) {
	require.True(t, KeepAlive(HTTP11, ""))
	require.False(t, KeepAlive(HTTP11, "close"))
	require.False(t, KeepAlive(HTTP11, "Close"))
	require.False(t, KeepAlive(HTTP10, ""))
	require.True(t, KeepAlive(HTTP10, "keep-alive"))
	require.True(t, KeepAlive(HTTP10, "Keep-Alive"))
	require.False(t, KeepAlive(Unknown, "keep-alive"))
}
