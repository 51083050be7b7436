package status

// HTTPError is an error carrying the status code it should be rendered with.
// Returning one from a handler overrides the default 500 mapping.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrShutdown         = NewError(ServiceUnavailable, "graceful shutdown")
	ErrCloseConnection  = NewError(ServiceUnavailable, "actively closing the connection")
	ErrConnectionIdle   = NewError(RequestTimeout, "idle connection")
	ErrPipelineOverflow = NewError(TooManyRequests, "too many pipelined requests")

	ErrBadRequest           = NewError(BadRequest, "bad request")
	ErrBadProtocol          = NewError(BadRequest, "malformed protocol version")
	ErrBadContentLength     = NewError(BadRequest, "malformed content-length")
	ErrBadChunk             = NewError(BadRequest, "malformed chunk-encoded data")
	ErrBadBody              = NewError(BadRequest, "malformed request body")
	ErrIncompleteBody       = NewError(BadRequest, "incomplete request body")
	ErrTooLongRequestLine   = NewError(RequestURITooLong, "request line is too long")
	ErrHeaderFieldsTooLarge = NewError(HeaderFieldsTooLarge, "too large headers section")
	ErrTooManyHeaders       = NewError(HeaderFieldsTooLarge, "too many headers")
	ErrBodyTooLarge         = NewError(RequestEntityTooLarge, "request body is too large")
	ErrMethodNotImplemented = NewError(NotImplemented, "request method is not supported")
	ErrUnsupportedEncoding  = NewError(NotImplemented, "transfer encoding is not supported")
	ErrUnsupportedProtocol  = NewError(HTTPVersionNotSupported, "protocol is not supported")

	ErrNotFound            = NewError(NotFound, "not found")
	ErrMethodNotAllowed    = NewError(MethodNotAllowed, "method not allowed")
	ErrInternalServerError = NewError(InternalServerError, "internal server error")
)

// CodeOf extracts the status code from an error, falling back to 500 for
// errors which don't carry one.
func CodeOf(err error) Code {
	if http, ok := err.(HTTPError); ok {
		return http.Code
	}

	return InternalServerError
}
