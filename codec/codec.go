// Package codec defines the streaming body codec contract. A route is
// registered together with a decoder factory for its request body type and an
// encoder factory for its response body type; the server instantiates them
// once per request and feeds body bytes through as they arrive off the socket.
package codec

// Decoder assembles a typed value from a stream of body payload bytes. The
// payload is already transfer-decoded: chunked framing and Content-Length
// accounting happen before the decoder sees the bytes.
type Decoder[T any] interface {
	// Decode consumes a portion of the body. eos marks data as the final
	// portion (possibly empty). It returns how many bytes were consumed and,
	// once the value is fully assembled, the value itself with done set.
	// A decoder may leave part of the portion unconsumed: the remainder is
	// re-offered immediately. It must, however, consume at least one byte of
	// a non-empty portion, buffering internally while the value is still
	// incomplete. Returning an error discards the request and closes the
	// connection, as body framing is unrecoverable mid-stream.
	Decode(data []byte, eos bool) (n int, v T, done bool, err error)
}

// Encoder turns a response body value into raw bytes. Encoding a well-formed
// value is expected to succeed; an error is treated as an internal one.
type Encoder[T any] interface {
	Encode(v T) ([]byte, error)
}

type (
	// DecoderFactory produces a fresh decoder per request.
	DecoderFactory[T any] func() Decoder[T]
	// EncoderFactory produces a fresh encoder per request.
	EncoderFactory[T any] func() Encoder[T]
)

// ContentTyped is optionally implemented by encoders which know the MIME type
// of their output. The server uses it for the Content-Type response header
// unless the handler sets one explicitly.
type ContentTyped interface {
	ContentType() string
}
