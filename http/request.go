package http

import (
	"net"

	"github.com/strand-web/strand/http/method"
	"github.com/strand-web/strand/http/proto"
	"github.com/strand-web/strand/kv"
)

type Headers = *kv.Storage

// Head is the parsed head of a request: the request line and the headers.
// It is owned by exactly one in-flight request and is immutable once parsed.
type Head struct {
	// Method is an enum representing the request method.
	Method method.Method
	// Path is the raw request target. No percent-decoding is applied.
	Path string
	// Protocol the request was made with.
	Protocol proto.Proto
	// Headers holds non-normalized header pairs in their original order,
	// duplicates included. Lookup is case-insensitive.
	Headers Headers
	// ContentLength is the parsed Content-Length value, zero if absent.
	ContentLength int
	// Chunked is set if the body uses chunked transfer encoding.
	Chunked bool
	// HasTrailer is set if the request announces trailers after a chunked body.
	HasTrailer bool
	// Connection is the cached Connection header value, empty if absent.
	Connection string
	// Remote is the address of the peer. Note that proxies in the middle make
	// it a poor way to identify a user.
	Remote net.Addr
}

// KeepAlive reports whether the connection should survive this request,
// considering the protocol version and the Connection header.
func (h *Head) KeepAlive() bool {
	return proto.KeepAlive(h.Protocol, h.Connection)
}

// Request is a complete request: the head plus the body value produced by the
// route's decoder. Handlers must treat it as read-only.
type Request[B any] struct {
	*Head
	Body B
}
