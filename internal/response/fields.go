package response

import (
	"github.com/strand-web/strand/http/status"
	"github.com/strand-web/strand/kv"
)

// Fields is the type-erased, wire-ready form of a response: the encoder has
// already been applied, so the body is raw bytes.
type Fields struct {
	Code        status.Code
	Headers     []kv.Pair
	ContentType string
	Body        []byte
	// Close requests the connection to be closed after the response is written.
	Close bool
}

// Error renders a default response for the code: the reason phrase as a
// plain-text body. Generated error responses close the connection unless the
// caller clears the flag.
func Error(code status.Code) *Fields {
	return &Fields{
		Code:        code,
		ContentType: "text/plain",
		Body:        []byte(status.Text(code)),
		Close:       true,
	}
}

// ErrorOf maps an error to its default response.
func ErrorOf(err error) *Fields {
	return Error(status.CodeOf(err))
}
