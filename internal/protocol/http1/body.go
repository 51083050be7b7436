package http1

import (
	"io"

	"github.com/indigo-web/chunkedbody"

	"github.com/strand-web/strand/http"
	"github.com/strand-web/strand/http/status"
)

type bodyMode uint8

const (
	modeNone bodyMode = iota
	modeLength
	modeChunked
)

// Body extracts request body payload from the raw byte stream, delimited
// either by Content-Length or by chunked transfer encoding. It only frames:
// interpretation of the payload belongs to the route's decoder.
type Body struct {
	chunked  *chunkedbody.Parser
	mode     bodyMode
	left     int
	received int
	maxSize  int
	trailer  bool
}

func NewBody(maxSize int) *Body {
	return &Body{
		chunked: chunkedbody.NewParser(chunkedbody.DefaultSettings()),
		maxSize: maxSize,
	}
}

// Reset prepares the framer for the body of the given request.
func (b *Body) Reset(head *http.Head) {
	b.received = 0
	b.trailer = head.HasTrailer

	switch {
	case head.Chunked:
		b.mode = modeChunked
	case head.ContentLength > 0:
		b.mode = modeLength
		b.left = head.ContentLength
	default:
		b.mode = modeNone
	}
}

// Empty reports that the current request carries no body at all.
func (b *Body) Empty() bool {
	return b.mode == modeNone
}

// Parse extracts the next piece of payload from data. done reports that the
// body ended; extra holds bytes past the body end, which belong to the next
// pipelined request. When neither done nor an error is returned and extra is
// non-empty, the caller must parse extra again.
func (b *Body) Parse(data []byte) (payload, extra []byte, done bool, err error) {
	switch b.mode {
	case modeNone:
		return nil, data, true, nil
	case modeLength:
		if len(data) >= b.left {
			payload, extra = data[:b.left], data[b.left:]
			b.left = 0

			return payload, extra, true, nil
		}

		b.left -= len(data)

		return data, nil, false, nil
	case modeChunked:
		chunk, rest, err := b.chunked.Parse(data, b.trailer)
		switch err {
		case nil, io.EOF:
		default:
			return nil, nil, false, status.ErrBadChunk
		}

		b.received += len(chunk)
		if b.received > b.maxSize {
			return nil, nil, false, status.ErrBodyTooLarge
		}

		return chunk, rest, err == io.EOF, nil
	default:
		panic("unreachable")
	}
}
