package http1

import (
	"bytes"
	"net"
	"strconv"

	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"

	"github.com/strand-web/strand/config"
	"github.com/strand-web/strand/http"
	"github.com/strand-web/strand/http/method"
	"github.com/strand-web/strand/http/proto"
	"github.com/strand-web/strand/http/status"
	"github.com/strand-web/strand/kv"
)

type parserState uint8

const (
	eRequestLine parserState = iota + 1
	eHeaders
)

// Parser is a streaming HTTP/1.x request head parser. Bytes are fed in
// whatever portions the socket produces; a fresh Head is allocated per
// request, so heads of pipelined requests never alias each other.
type Parser struct {
	cfg         *config.Config
	remote      net.Addr
	state       parserState
	scratch     []byte
	head        *http.Head
	headersSize int
	metLength   bool
}

func NewParser(cfg *config.Config, remote net.Addr) *Parser {
	return &Parser{
		cfg:    cfg,
		remote: remote,
		state:  eRequestLine,
	}
}

// Parse consumes data. Once the head is complete it is returned together with
// the unconsumed remainder (the request body and, possibly, further pipelined
// requests); until then the head is nil. An error renders the whole stream
// unparseable and must close the connection.
func (p *Parser) Parse(data []byte) (head *http.Head, extra []byte, err error) {
	for {
		lf := bytes.IndexByte(data, '\n')
		if lf == -1 {
			return nil, nil, p.pend(data)
		}

		line := data[:lf]
		data = data[lf+1:]

		if len(p.scratch) > 0 {
			line = append(p.scratch, line...)
			p.scratch = nil
		}

		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}

		switch p.state {
		case eRequestLine:
			if err = p.parseRequestLine(line); err != nil {
				return nil, nil, err
			}

			p.state = eHeaders
		case eHeaders:
			if len(line) == 0 {
				head = p.head
				p.reset()

				return head, data, nil
			}

			if err = p.parseHeaderLine(line); err != nil {
				return nil, nil, err
			}
		}
	}
}

// pend stashes an incomplete line until more bytes arrive, guarding the
// section limits so that a malicious peer can't grow the buffer unboundedly.
func (p *Parser) pend(data []byte) error {
	p.scratch = append(p.scratch, data...)

	switch p.state {
	case eRequestLine:
		if len(p.scratch) > p.cfg.HTTP.RequestLineSize {
			return status.ErrTooLongRequestLine
		}
	case eHeaders:
		if p.headersSize+len(p.scratch) > p.cfg.HTTP.HeadersSize {
			return status.ErrHeaderFieldsTooLarge
		}
	}

	return nil
}

func (p *Parser) parseRequestLine(line []byte) error {
	if len(line) > p.cfg.HTTP.RequestLineSize {
		return status.ErrTooLongRequestLine
	}

	methodEnd := bytes.IndexByte(line, ' ')
	protoBegin := bytes.LastIndexByte(line, ' ')
	if methodEnd <= 0 || protoBegin == methodEnd {
		return status.ErrBadRequest
	}

	m := method.Parse(uf.B2S(line[:methodEnd]))
	if m == method.Unknown {
		return status.ErrMethodNotImplemented
	}

	path := line[methodEnd+1 : protoBegin]
	if len(path) == 0 || path[0] != '/' {
		return status.ErrBadRequest
	}

	protocol := proto.FromBytes(line[protoBegin+1:])
	if protocol == proto.Unknown {
		return status.ErrUnsupportedProtocol
	}

	p.head = &http.Head{
		Method:   m,
		Path:     string(path),
		Protocol: protocol,
		Headers:  kv.NewPreAlloc(8),
		Remote:   p.remote,
	}

	return nil
}

func (p *Parser) parseHeaderLine(line []byte) error {
	p.headersSize += len(line)
	if p.headersSize > p.cfg.HTTP.HeadersSize {
		return status.ErrHeaderFieldsTooLarge
	}

	if p.head.Headers.Len() >= p.cfg.HTTP.HeadersNumber {
		return status.ErrTooManyHeaders
	}

	colon := bytes.IndexByte(line, ':')
	if colon <= 0 || bytes.IndexByte(line[:colon], ' ') != -1 {
		return status.ErrBadRequest
	}

	// the line slice may alias the scratch buffer, so the stored pair is copied
	key := string(line[:colon])
	value := string(trimOWS(line[colon+1:]))

	switch {
	case strcomp.EqualFold(key, "content-length"):
		if err := p.parseContentLength(value); err != nil {
			return err
		}
	case strcomp.EqualFold(key, "transfer-encoding"):
		if !strcomp.EqualFold(value, "chunked") {
			return status.ErrUnsupportedEncoding
		}

		p.head.Chunked = true
	case strcomp.EqualFold(key, "connection"):
		p.head.Connection = value
	case strcomp.EqualFold(key, "trailer"):
		p.head.HasTrailer = true
	}

	p.head.Headers.Add(key, value)

	return nil
}

func (p *Parser) parseContentLength(value string) error {
	if p.metLength {
		// conflicting framing information is an attack vector, not a typo
		return status.ErrBadContentLength
	}

	length, err := strconv.Atoi(value)
	if err != nil || length < 0 {
		return status.ErrBadContentLength
	}

	if length > p.cfg.HTTP.MaxBodySize {
		return status.ErrBodyTooLarge
	}

	p.metLength = true
	p.head.ContentLength = length

	return nil
}

func (p *Parser) reset() {
	p.head = nil
	p.state = eRequestLine
	p.scratch = nil
	p.headersSize = 0
	p.metLength = false
}

func trimOWS(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}

	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}

	return b
}
