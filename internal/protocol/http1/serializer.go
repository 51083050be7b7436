package http1

import (
	"strconv"

	"github.com/strand-web/strand/http/proto"
	"github.com/strand-web/strand/http/status"
	"github.com/strand-web/strand/internal/response"
)

// Serialize appends the wire form of the response to buff and returns it.
// Content-Length and, when needed, Connection are generated here; a response
// over HTTP/1.1 being kept alive carries no Connection header at all.
func Serialize(protocol proto.Proto, fields *response.Fields, buff []byte) []byte {
	buff = append(buff, protocol.String()...)
	buff = append(buff, ' ')
	buff = strconv.AppendUint(buff, uint64(fields.Code), 10)
	buff = append(buff, ' ')
	buff = append(buff, reason(fields.Code)...)
	buff = crlf(buff)

	if len(fields.ContentType) > 0 {
		buff = append(buff, "Content-Type: "...)
		buff = append(buff, fields.ContentType...)
		buff = crlf(buff)
	}

	for _, pair := range fields.Headers {
		buff = append(buff, pair.Key...)
		buff = append(buff, ": "...)
		buff = append(buff, pair.Value...)
		buff = crlf(buff)
	}

	if fields.Close {
		buff = append(buff, "Connection: close\r\n"...)
	} else if protocol == proto.HTTP10 {
		buff = append(buff, "Connection: keep-alive\r\n"...)
	}

	buff = append(buff, "Content-Length: "...)
	buff = strconv.AppendInt(buff, int64(len(fields.Body)), 10)
	buff = crlf(buff)
	buff = crlf(buff)

	return append(buff, fields.Body...)
}

func reason(code status.Code) string {
	if text := status.Text(code); len(text) > 0 {
		return text
	}

	return "Unknown Status Code"
}

func crlf(buff []byte) []byte {
	return append(buff, '\r', '\n')
}
