package proto

import "github.com/indigo-web/utils/uf"

type Proto uint8

const (
	Unknown Proto = iota
	HTTP10
	HTTP11
)

func (p Proto) String() string {
	switch p {
	case HTTP10:
		return "HTTP/1.0"
	case HTTP11:
		return "HTTP/1.1"
	}

	return ""
}

const (
	tokenLength = len("HTTP/x.x")
	httpScheme  = "HTTP/"
	majorOffset = len("HTTP/x") - 1
	minorOffset = len("HTTP/x.x") - 1
)

// FromBytes parses a protocol token (e.g. "HTTP/1.1") from the request line.
func FromBytes(raw []byte) Proto {
	if len(raw) != tokenLength ||
		uf.B2S(raw[:majorOffset]) != httpScheme ||
		raw[majorOffset+1] != '.' {
		return Unknown
	}

	return Parse(raw[majorOffset]-'0', raw[minorOffset]-'0')
}

func Parse(major, minor uint8) Proto {
	switch {
	case major == 1 && minor == 0:
		return HTTP10
	case major == 1 && minor == 1:
		return HTTP11
	}

	return Unknown
}

// KeepAlive reports whether a connection speaking the protocol should stay open
// after a response, given the Connection header value (may be empty). HTTP/1.1
// defaults to keep-alive, HTTP/1.0 defaults to close, an explicit token on
// either side overrides the default.
func KeepAlive(p Proto, connection string) bool {
	switch p {
	case HTTP11:
		return !tokenIs(connection, "close")
	case HTTP10:
		return tokenIs(connection, "keep-alive")
	}

	return false
}

// tokenIs compares the Connection header value against the token
// case-insensitively. Values are single tokens in practice, so no list
// splitting is performed.
func tokenIs(value, token string) bool {
	if len(value) != len(token) {
		return false
	}

	for i := 0; i < len(value); i++ {
		c := value[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}

		if c != token[i] {
			return false
		}
	}

	return true
}
