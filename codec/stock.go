package codec

import (
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"

	"github.com/strand-web/strand/http/status"
)

// None is the body type of routes which expect no meaningful body.
type None struct{}

// NoBody returns a decoder which silently discards whatever body arrives.
func NoBody() DecoderFactory[None] {
	return func() Decoder[None] {
		return noBodyDecoder{}
	}
}

type noBodyDecoder struct{}

func (noBodyDecoder) Decode(data []byte, eos bool) (n int, v None, done bool, err error) {
	return len(data), None{}, eos, nil
}

// TextDecoder accumulates the whole body into a string.
func TextDecoder() DecoderFactory[string] {
	return func() Decoder[string] {
		return new(textDecoder)
	}
}

type textDecoder struct {
	buf []byte
}

func (d *textDecoder) Decode(data []byte, eos bool) (n int, v string, done bool, err error) {
	d.buf = append(d.buf, data...)
	if !eos {
		return len(data), "", false, nil
	}

	// the buffer is owned by this request alone, so the unsafe view is sound
	return len(data), uf.B2S(d.buf), true, nil
}

// TextEncoder emits a string body as-is. No Content-Type is implied: text
// routes respond with nothing but the body and its length by default.
func TextEncoder() EncoderFactory[string] {
	return func() Encoder[string] {
		return textEncoder{}
	}
}

type textEncoder struct{}

func (textEncoder) Encode(v string) ([]byte, error) {
	return uf.S2B(v), nil
}

// BytesDecoder accumulates the whole body into a byte slice.
func BytesDecoder() DecoderFactory[[]byte] {
	return func() Decoder[[]byte] {
		return new(bytesDecoder)
	}
}

type bytesDecoder struct {
	buf []byte
}

func (d *bytesDecoder) Decode(data []byte, eos bool) (n int, v []byte, done bool, err error) {
	d.buf = append(d.buf, data...)
	return len(data), d.buf, eos, nil
}

// BytesEncoder emits a raw byte slice body.
func BytesEncoder() EncoderFactory[[]byte] {
	return func() Encoder[[]byte] {
		return bytesEncoder{}
	}
}

type bytesEncoder struct{}

func (bytesEncoder) Encode(v []byte) ([]byte, error) {
	return v, nil
}

func (bytesEncoder) ContentType() string {
	return "application/octet-stream"
}

// JSONDecoder buffers the body and unmarshals it into T once complete.
func JSONDecoder[T any]() DecoderFactory[T] {
	return func() Decoder[T] {
		return new(jsonDecoder[T])
	}
}

type jsonDecoder[T any] struct {
	buf []byte
}

func (d *jsonDecoder[T]) Decode(data []byte, eos bool) (n int, v T, done bool, err error) {
	d.buf = append(d.buf, data...)
	if !eos {
		return len(data), v, false, nil
	}

	if err = json.Unmarshal(d.buf, &v); err != nil {
		return len(data), v, false, status.ErrBadBody
	}

	return len(data), v, true, nil
}

// JSONEncoder marshals the body value as application/json.
func JSONEncoder[T any]() EncoderFactory[T] {
	return func() Encoder[T] {
		return jsonEncoder[T]{}
	}
}

type jsonEncoder[T any] struct{}

func (jsonEncoder[T]) Encode(v T) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonEncoder[T]) ContentType() string {
	return "application/json"
}
