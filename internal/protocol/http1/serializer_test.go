package http1

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strand-web/strand/http/proto"
	"github.com/strand-web/strand/http/status"
	"github.com/strand-web/strand/internal/response"
	"github.com/strand-web/strand/kv"
)

func TestSerialize(t *testing.T) {
	t.Run("minimal 200", func(t *testing.T) {
		fields := &response.Fields{
			Code: status.OK,
			Body: []byte("hello"),
		}
		wire := Serialize(proto.HTTP11, fields, nil)
		require.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello", string(wire))
	})

	t.Run("empty body still carries content-length", func(t *testing.T) {
		wire := Serialize(proto.HTTP11, &response.Fields{Code: status.NoContent}, nil)
		require.Equal(t, "HTTP/1.1 204 No Content\r\nContent-Length: 0\r\n\r\n", string(wire))
	})

	t.Run("content type and custom headers", func(t *testing.T) {
		fields := &response.Fields{
			Code:        status.OK,
			ContentType: "application/json",
			Headers:     []kv.Pair{{Key: "X-Request-Id", Value: "42"}},
			Body:        []byte(`{}`),
		}
		wire := Serialize(proto.HTTP11, fields, nil)
		require.Equal(t,
			"HTTP/1.1 200 OK\r\n"+
				"Content-Type: application/json\r\n"+
				"X-Request-Id: 42\r\n"+
				"Content-Length: 2\r\n\r\n{}",
			string(wire))
	})

	t.Run("closing response", func(t *testing.T) {
		fields := &response.Fields{Code: status.BadRequest, Close: true}
		wire := Serialize(proto.HTTP11, fields, nil)
		require.Contains(t, string(wire), "Connection: close\r\n")
	})

	t.Run("kept-alive HTTP/1.0 is explicit", func(t *testing.T) {
		wire := Serialize(proto.HTTP10, &response.Fields{Code: status.OK}, nil)
		require.Contains(t, string(wire), "HTTP/1.0 200 OK\r\n")
		require.Contains(t, string(wire), "Connection: keep-alive\r\n")
	})

	t.Run("kept-alive HTTP/1.1 carries no connection header", func(t *testing.T) {
		wire := Serialize(proto.HTTP11, &response.Fields{Code: status.OK}, nil)
		require.NotContains(t, string(wire), "Connection:")
	})

	t.Run("unknown status code", func(t *testing.T) {
		wire := Serialize(proto.HTTP11, &response.Fields{Code: status.Code(999)}, nil)
		require.Contains(t, string(wire), "HTTP/1.1 999 Unknown Status Code\r\n")
	})

	t.Run("buffer is reused", func(t *testing.T) {
		buff := make([]byte, 0, 512)
		first := Serialize(proto.HTTP11, &response.Fields{Code: status.OK, Body: []byte("a")}, buff)
		second := Serialize(proto.HTTP11, &response.Fields{Code: status.OK, Body: []byte("b")}, first[:0])
		require.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 1\r\n\r\nb", string(second))
	})
}
