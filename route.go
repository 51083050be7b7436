package strand

import (
	"context"

	"github.com/indigo-web/utils/strcomp"

	"github.com/strand-web/strand/codec"
	"github.com/strand-web/strand/http"
	"github.com/strand-web/strand/http/method"
	"github.com/strand-web/strand/http/status"
	"github.com/strand-web/strand/internal/response"
	"github.com/strand-web/strand/router"
)

// Handler is a request handler. It may suspend freely (I/O, timers,
// downstream calls); the context is cancelled if the connection is aborted
// before the handler finishes, in which case its result is discarded.
// Cleanup must be arranged via defer, which runs on every exit path.
//
// A returned error is rendered as an error response: a status.HTTPError
// chooses its own code, anything else maps to 500.
type Handler[In, Out any] func(ctx context.Context, req *http.Request[In]) (*http.Response[Out], error)

// Register adds a route. The decoder and encoder factories fix the route's
// body types once and for all: the server erases them behind a per-request
// pipeline, so no type parameters leak past registration.
//
// Registering a duplicate (method, path) pair or a malformed path fails
// immediately, never at request time.
func Register[In, Out any](
	a *App,
	m method.Method,
	path string,
	dec codec.DecoderFactory[In],
	enc codec.EncoderFactory[Out],
	handler Handler[In, Out],
) error {
	return a.table.Register(&router.Endpoint{
		Method: m,
		Path:   path,
		New: func() router.Pipeline {
			return &pipeline[In, Out]{
				decoder: dec(),
				encoder: enc(),
				handler: handler,
			}
		},
	})
}

// GET is a shorthand for Register(a, method.GET, ...).
func GET[In, Out any](
	a *App, path string,
	dec codec.DecoderFactory[In], enc codec.EncoderFactory[Out], handler Handler[In, Out],
) error {
	return Register(a, method.GET, path, dec, enc, handler)
}

// POST is a shorthand for Register(a, method.POST, ...).
func POST[In, Out any](
	a *App, path string,
	dec codec.DecoderFactory[In], enc codec.EncoderFactory[Out], handler Handler[In, Out],
) error {
	return Register(a, method.POST, path, dec, enc, handler)
}

// PUT is a shorthand for Register(a, method.PUT, ...).
func PUT[In, Out any](
	a *App, path string,
	dec codec.DecoderFactory[In], enc codec.EncoderFactory[Out], handler Handler[In, Out],
) error {
	return Register(a, method.PUT, path, dec, enc, handler)
}

// DELETE is a shorthand for Register(a, method.DELETE, ...).
func DELETE[In, Out any](
	a *App, path string,
	dec codec.DecoderFactory[In], enc codec.EncoderFactory[Out], handler Handler[In, Out],
) error {
	return Register(a, method.DELETE, path, dec, enc, handler)
}

// pipeline is the erased decode-invoke-encode chain of one request. It is
// constructed by the closure the endpoint captured at registration time, so
// the concrete body types are long gone by the time the session touches it.
type pipeline[In, Out any] struct {
	decoder codec.Decoder[In]
	encoder codec.Encoder[Out]
	handler Handler[In, Out]
	body    In
}

func (p *pipeline[In, Out]) Feed(data []byte, eos bool) (n int, done bool, err error) {
	n, v, done, err := p.decoder.Decode(data, eos)
	if err != nil {
		if _, coded := err.(status.HTTPError); !coded {
			err = status.ErrBadBody
		}

		return n, false, err
	}

	if done {
		p.body = v
	}

	return n, done, nil
}

func (p *pipeline[In, Out]) Invoke(ctx context.Context, head *http.Head) *response.Fields {
	resp, err := p.handler(ctx, &http.Request[In]{Head: head, Body: p.body})
	if err != nil {
		// a failed handler doesn't poison the connection: keep-alive applies
		fields := response.ErrorOf(err)
		fields.Close = false

		return fields
	}

	if resp == nil {
		// nil response with nil error is a handler bug, answered like one
		fields := response.Error(status.InternalServerError)
		fields.Close = false

		return fields
	}

	raw, err := p.encoder.Encode(resp.Body())
	if err != nil {
		fields := response.Error(status.InternalServerError)
		fields.Close = false

		return fields
	}

	fields := &response.Fields{
		Code:    resp.Code(),
		Headers: resp.Headers(),
		Body:    raw,
		Close:   resp.Closing(),
	}

	if typed, ok := p.encoder.(codec.ContentTyped); ok && !hasContentType(fields) {
		fields.ContentType = typed.ContentType()
	}

	return fields
}

func hasContentType(fields *response.Fields) bool {
	for _, pair := range fields.Headers {
		if strcomp.EqualFold(pair.Key, "content-type") {
			return true
		}
	}

	return false
}
