package http

import (
	"github.com/strand-web/strand/http"
	"github.com/strand-web/strand/http/proto"
	"github.com/strand-web/strand/internal/response"
)

// fallbackProto is used for responses to requests so malformed that their
// protocol version never got parsed.
const fallbackProto = proto.HTTP11

// exchange is one in-flight request on a connection: its position in the
// pipeline, the parsed head it exclusively owns, and the slot its response
// lands in once the computation completes.
type exchange struct {
	// seq is the arrival number of the request, strictly increasing within a
	// connection. The write queue delivers responses in exactly this order.
	seq       uint64
	head      *http.Head
	keepAlive bool

	// done is closed once fields holds the response.
	done   chan struct{}
	fields *response.Fields
}

func newExchange(seq uint64, head *http.Head) *exchange {
	return &exchange{
		seq:       seq,
		head:      head,
		keepAlive: head.KeepAlive(),
		done:      make(chan struct{}),
	}
}

// errorExchange is born completed: a protocol-level failure which never
// reached routing. Such responses always close the connection.
func errorExchange(seq uint64, err error) *exchange {
	ex := &exchange{
		seq:  seq,
		head: &http.Head{Protocol: fallbackProto},
		done: make(chan struct{}),
	}
	ex.complete(response.ErrorOf(err))

	return ex
}

func (ex *exchange) complete(fields *response.Fields) {
	ex.fields = fields
	close(ex.done)
}

func (ex *exchange) completed() bool {
	select {
	case <-ex.done:
		return true
	default:
		return false
	}
}
