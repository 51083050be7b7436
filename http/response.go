package http

import (
	"github.com/strand-web/strand/http/status"
	"github.com/strand-web/strand/kv"
)

// Response carries a status code, optional extra headers and a typed body
// value, to be encoded by the route's encoder.
type Response[B any] struct {
	code    status.Code
	headers []kv.Pair
	body    B
	close   bool
}

// Respond builds a response with the given status code and body.
func Respond[B any](code status.Code, body B) *Response[B] {
	return &Response[B]{
		code: code,
		body: body,
	}
}

// OK is a shorthand for Respond(status.OK, body).
func OK[B any](body B) *Response[B] {
	return Respond(status.OK, body)
}

// Header appends a header to the response. Content-Length and Connection are
// managed by the server and should not be set here.
func (r *Response[B]) Header(key, value string) *Response[B] {
	r.headers = append(r.headers, kv.Pair{Key: key, Value: value})
	return r
}

// Close requests the connection to be closed once the response is written.
func (r *Response[B]) Close() *Response[B] {
	r.close = true
	return r
}

func (r *Response[B]) Code() status.Code {
	return r.code
}

func (r *Response[B]) Headers() []kv.Pair {
	return r.headers
}

func (r *Response[B]) Body() B {
	return r.body
}

func (r *Response[B]) Closing() bool {
	return r.close
}
