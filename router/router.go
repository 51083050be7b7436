// Package router maps (method, path) pairs to registered endpoints. The table
// is populated at build time and frozen before the server starts serving, so
// resolution is lock-free.
package router

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/strand-web/strand/http"
	"github.com/strand-web/strand/http/method"
	"github.com/strand-web/strand/internal/response"
)

var (
	ErrDuplicateRoute = errors.New("route already registered")
	ErrInvalidPattern = errors.New("invalid path pattern")
	ErrFrozen         = errors.New("router is frozen")
)

// Pipeline is one request's type-erased decode-invoke-encode chain. It is
// created per request from the endpoint's factory, which closed over the
// concrete body types at registration time.
type Pipeline interface {
	// Feed passes transfer-decoded body bytes to the route's decoder. eos
	// marks the final portion of the body. Bytes left unconsumed (n < len(data))
	// are re-offered by the caller.
	Feed(data []byte, eos bool) (n int, done bool, err error)
	// Invoke runs the handler with the decoded body and encodes its response.
	// It never fails: handler and encoder errors are mapped to error
	// responses. The context is cancelled if the connection is aborted.
	Invoke(ctx context.Context, head *http.Head) *response.Fields
}

// Endpoint is a single registered route.
type Endpoint struct {
	Method method.Method
	Path   string
	// New creates the per-request pipeline instance.
	New func() Pipeline
}

type Resolution uint8

const (
	// Matched: the endpoint handles this exact (method, path) pair.
	Matched Resolution = iota + 1
	// NoPathMatch: no endpoint is registered under the path. Maps to 404.
	NoPathMatch
	// PathMatchedWrongMethod: the path is known, but not for this method.
	// Maps to 405.
	PathMatchedWrongMethod
)

// Table is the route table. Populate it via Register, then Freeze it; Resolve
// never mutates state and is safe for concurrent use once frozen.
type Table struct {
	routes map[string]map[method.Method]*Endpoint
	frozen bool
}

func NewTable() *Table {
	return &Table{
		routes: make(map[string]map[method.Method]*Endpoint),
	}
}

// Register adds an endpoint. Paths are matched by literal equality; a path
// must start with a slash and contain no whitespace or control characters.
func (t *Table) Register(ep *Endpoint) error {
	if t.frozen {
		return errors.Wrapf(ErrFrozen, "%s %s", ep.Method, ep.Path)
	}

	if err := validate(ep); err != nil {
		return err
	}

	methods := t.routes[ep.Path]
	if methods == nil {
		methods = make(map[method.Method]*Endpoint)
		t.routes[ep.Path] = methods
	}

	if _, occupied := methods[ep.Method]; occupied {
		return errors.Wrapf(ErrDuplicateRoute, "%s %s", ep.Method, ep.Path)
	}

	methods[ep.Method] = ep

	return nil
}

// Freeze forbids further registration. There is no way back.
func (t *Table) Freeze() {
	t.frozen = true
}

// Resolve finds the endpoint serving the (method, path) pair. The endpoint is
// non-nil only for Matched.
func (t *Table) Resolve(m method.Method, path string) (*Endpoint, Resolution) {
	methods, found := t.routes[path]
	if !found {
		return nil, NoPathMatch
	}

	ep, found := methods[m]
	if !found {
		return nil, PathMatchedWrongMethod
	}

	return ep, Matched
}

// Allow lists the methods registered under the path, comma-separated, for the
// Allow header of 405 responses.
func (t *Table) Allow(path string) string {
	methods := t.routes[path]
	allowed := make([]string, 0, len(methods))

	for _, m := range method.List {
		if _, found := methods[m]; found {
			allowed = append(allowed, m.String())
		}
	}

	return strings.Join(allowed, ", ")
}

func validate(ep *Endpoint) error {
	if ep.Method == method.Unknown {
		return errors.Wrapf(ErrInvalidPattern, "unknown method for %s", ep.Path)
	}

	if len(ep.Path) == 0 || ep.Path[0] != '/' {
		return errors.Wrapf(ErrInvalidPattern, "%q", ep.Path)
	}

	for i := 0; i < len(ep.Path); i++ {
		if ep.Path[i] <= ' ' || ep.Path[i] == 0x7f {
			return errors.Wrapf(ErrInvalidPattern, "%q", ep.Path)
		}
	}

	return nil
}
