package config

import (
	"time"
)

type (
	NET struct {
		// ReadBufferSize is the size of the buffer in bytes used to read from a socket.
		ReadBufferSize int
		// WriteBufferSize is the initial capacity of the buffer a response is
		// rendered into before being transmitted.
		WriteBufferSize int
		// ReadTimeout controls the maximal lifetime of idle connections. If no data
		// arrives within this period, the connection is closed and all of its
		// in-flight requests are cancelled.
		ReadTimeout time.Duration
	}

	HTTP struct {
		// RequestLineSize limits the length of the request line (method, path and
		// protocol) in bytes.
		RequestLineSize int
		// HeadersNumber limits how many header fields a single request may carry.
		HeadersNumber int
		// HeadersSize limits the total size of the headers section in bytes.
		HeadersSize int
		// MaxBodySize limits the size of a request body in bytes, after transfer
		// decoding.
		MaxBodySize int
		// PipelineDepth bounds the number of responses which were not yet delivered
		// to the client. Once the bound is reached, no further requests are read
		// from the connection until the oldest response is written.
		PipelineDepth int
	}
)

// Config holds restrictions and tunables used across the server. Always start
// from Default() and modify what's needed instead of constructing it manually.
type Config struct {
	NET  NET
	HTTP HTTP
}

func Default() *Config {
	return &Config{
		NET: NET{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			ReadTimeout:     90 * time.Second,
		},
		HTTP: HTTP{
			RequestLineSize: 8 * 1024,
			HeadersNumber:   64,
			HeadersSize:     16 * 1024,
			MaxBodySize:     4 * 1024 * 1024,
			PipelineDepth:   16,
		},
	}
}
