package router

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/strand-web/strand/http/method"
)

func endpoint(m method.Method, path string) *Endpoint {
	return &Endpoint{Method: m, Path: path}
}

func TestRegister(t *testing.T) {
	t.Run("duplicate", func(t *testing.T) {
		table := NewTable()
		require.NoError(t, table.Register(endpoint(method.GET, "/hello")))
		require.NoError(t, table.Register(endpoint(method.POST, "/hello")))

		err := table.Register(endpoint(method.GET, "/hello"))
		require.True(t, errors.Is(err, ErrDuplicateRoute))
	})

	t.Run("invalid pattern", func(t *testing.T) {
		table := NewTable()

		for _, path := range []string{"", "hello", "/he llo", "/he\tllo", "/he\x00llo"} {
			err := table.Register(endpoint(method.GET, path))
			require.True(t, errors.Is(err, ErrInvalidPattern), "path: %q", path)
		}

		err := table.Register(endpoint(method.Unknown, "/hello"))
		require.True(t, errors.Is(err, ErrInvalidPattern))
	})

	t.Run("frozen", func(t *testing.T) {
		table := NewTable()
		table.Freeze()
		err := table.Register(endpoint(method.GET, "/hello"))
		require.True(t, errors.Is(err, ErrFrozen))
	})
}

func TestResolve(t *testing.T) {
	table := NewTable()
	hello := endpoint(method.GET, "/hello")
	require.NoError(t, table.Register(hello))
	require.NoError(t, table.Register(endpoint(method.POST, "/hello")))
	table.Freeze()

	t.Run("matched", func(t *testing.T) {
		ep, resolution := table.Resolve(method.GET, "/hello")
		require.Equal(t, Matched, resolution)
		require.Same(t, hello, ep)
	})

	t.Run("no path match", func(t *testing.T) {
		ep, resolution := table.Resolve(method.GET, "/bye")
		require.Equal(t, NoPathMatch, resolution)
		require.Nil(t, ep)
	})

	t.Run("wrong method", func(t *testing.T) {
		ep, resolution := table.Resolve(method.DELETE, "/hello")
		require.Equal(t, PathMatchedWrongMethod, resolution)
		require.Nil(t, ep)
	})

	t.Run("exact match only", func(t *testing.T) {
		_, resolution := table.Resolve(method.GET, "/hello/")
		require.Equal(t, NoPathMatch, resolution)
	})
}

func TestAllow(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Register(endpoint(method.POST, "/hello")))
	require.NoError(t, table.Register(endpoint(method.GET, "/hello")))

	require.Equal(t, "GET, POST", table.Allow("/hello"))
	require.Equal(t, "", table.Allow("/bye"))
}
