package http

import (
	"context"
	"log"

	"github.com/strand-web/strand/config"
	"github.com/strand-web/strand/http"
	"github.com/strand-web/strand/http/status"
	"github.com/strand-web/strand/internal/protocol/http1"
	"github.com/strand-web/strand/internal/response"
	"github.com/strand-web/strand/internal/server/tcp"
	"github.com/strand-web/strand/kv"
	"github.com/strand-web/strand/router"
)

// Session owns one connection. One goroutine (the reader) parses the inbound
// stream into requests and launches their handlers, another (the writer)
// delivers completed responses back in strict arrival order. Handlers of
// pipelined requests run concurrently, yet request N+1's response never
// overtakes request N's.
type Session struct {
	cfg    *config.Config
	table  *router.Table
	client tcp.Client
	parser *http1.Parser
	body   *http1.Body

	// pending is the ordered queue of in-flight exchanges. Its capacity is the
	// pipelining depth: a full queue suspends the reader, which stops accepting
	// new requests until the client consumes some responses.
	pending chan *exchange
	ctx     context.Context
	cancel  context.CancelFunc
	seq     uint64
}

func NewSession(ctx context.Context, cfg *config.Config, table *router.Table, client tcp.Client) *Session {
	ctx, cancel := context.WithCancel(ctx)

	return &Session{
		cfg:     cfg,
		table:   table,
		client:  client,
		parser:  http1.NewParser(cfg, client.Remote()),
		body:    http1.NewBody(cfg.HTTP.MaxBodySize),
		pending: make(chan *exchange, cfg.HTTP.PipelineDepth),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Serve processes the connection until it is closed, whether by the peer, by
// keep-alive negotiation, by a fatal protocol error or by an idle timeout.
// Cancelling the session context aborts all the in-flight handlers.
func (s *Session) Serve() {
	writerDone := make(chan struct{})
	go s.writer(writerDone)

	s.reader()
	close(s.pending)
	<-writerDone

	s.cancel()
	_ = s.client.Close()
}

// reader drives the inbound half: parse a head, resolve it, frame and decode
// the body, hand the exchange over to its handler, repeat for the next
// pipelined request without waiting for the previous handler to finish.
func (s *Session) reader() {
	for {
		head, err := s.nextHead()
		if err != nil {
			if protocolError(err) {
				s.enqueue(errorExchange(s.nextSeq(), err))
			} else {
				// disconnect or idle timeout: abort whatever is in flight
				s.cancel()
			}

			return
		}

		current, pipeline := s.admit(head)
		if !s.enqueue(current) {
			return
		}

		if err = s.consumeBody(pipeline); err != nil {
			if protocolError(err) {
				s.abort(current, err)
			} else {
				s.cancel()
			}

			return
		}

		if pipeline != nil {
			s.drive(current, pipeline)
		}

		if !current.keepAlive {
			return
		}
	}
}

// nextHead reads from the connection until a full request head is assembled.
// Bytes past the head are pushed back, so the body framer picks them up.
func (s *Session) nextHead() (*http.Head, error) {
	for {
		data, err := s.client.Read()
		if err != nil {
			return nil, err
		}

		head, extra, err := s.parser.Parse(data)
		if err != nil {
			return nil, err
		}

		if head == nil {
			continue
		}

		if len(extra) > 0 {
			s.client.Unread(extra)
		}

		return head, nil
	}
}

// consumeBody frames the request body off the wire and streams it through the
// pipeline's decoder. Bytes past the body end are pushed back, as they belong
// to the next pipelined request. The body is consumed even without a pipeline:
// a request answered by a 404 still has to be read through to find the next
// one.
func (s *Session) consumeBody(pipeline router.Pipeline) error {
	decoded := false

	for {
		var (
			payload []byte
			done    bool
		)

		if s.body.Empty() {
			done = true
		} else {
			data, err := s.client.Read()
			if err != nil {
				return err
			}

			var extra []byte
			payload, extra, done, err = s.body.Parse(data)
			if err != nil {
				return err
			}

			if len(extra) > 0 {
				s.client.Unread(extra)
			}
		}

		if pipeline != nil && !decoded {
			var err error
			if decoded, err = s.feed(pipeline, payload, done); err != nil {
				return err
			}
		}

		if !done {
			continue
		}

		if pipeline != nil && !decoded {
			// the decoder wants more than the body framing can give
			return status.ErrIncompleteBody
		}

		return nil
	}
}

// feed offers the payload to the decoder, re-offering whatever it left
// unconsumed until everything is taken or the value completes. A decoder
// making no progress on a non-empty portion is broken and fails the request.
func (s *Session) feed(pipeline router.Pipeline, payload []byte, eos bool) (decoded bool, err error) {
	for {
		n, done, err := pipeline.Feed(payload, eos)
		if err != nil {
			return false, err
		}

		if done {
			return true, nil
		}

		payload = payload[n:]
		if len(payload) == 0 {
			return false, nil
		}

		if n == 0 {
			return false, status.ErrBadBody
		}
	}
}

// admit builds the exchange for a freshly parsed head. Requests which don't
// resolve to a handler are answered without one: 404 and 405 exchanges are
// born completed, though their body bytes still have to be consumed to find
// the next pipelined request.
func (s *Session) admit(head *http.Head) (*exchange, router.Pipeline) {
	ex := newExchange(s.nextSeq(), head)
	s.body.Reset(head)

	ep, resolution := s.table.Resolve(head.Method, head.Path)
	switch resolution {
	case router.Matched:
		return ex, ep.New()
	case router.NoPathMatch:
		ex.complete(s.dispatchError(ex, status.NotFound, ""))
	case router.PathMatchedWrongMethod:
		ex.complete(s.dispatchError(ex, status.MethodNotAllowed, s.table.Allow(head.Path)))
	}

	return ex, nil
}

// dispatchError renders a 404/405. Unlike protocol errors, failing to resolve
// a route is not the connection's fault, so keep-alive still applies.
func (s *Session) dispatchError(ex *exchange, code status.Code, allow string) *response.Fields {
	fields := response.Error(code)
	fields.Close = !ex.keepAlive

	if len(allow) > 0 {
		fields.Headers = append(fields.Headers, kv.Pair{Key: "Allow", Value: allow})
	}

	return fields
}

// abort completes the exchange with an error response if it still runs
// through the session's hands. The connection is doomed either way: the
// caller must stop reading, letting the writer flush what's queued.
func (s *Session) abort(ex *exchange, err error) {
	if !ex.completed() {
		ex.complete(response.ErrorOf(err))
	}
}

// drive launches the handler computation as its own task. The exchange is
// marked completed whatever way the computation ends: a response, a failure
// mapped to an error response, or a panic. Cancelling the session context
// makes the computation's result irrelevant; its cleanup runs via defers on
// that exit path just as on any other.
func (s *Session) drive(ex *exchange, pipeline router.Pipeline) {
	go func() {
		defer close(ex.done)
		defer func() {
			if r := recover(); r != nil {
				log.Printf("strand: panic in handler of %s %s: %v", ex.head.Method, ex.head.Path, r)
				ex.fields = response.Error(status.InternalServerError)
			}
		}()

		fields := pipeline.Invoke(s.ctx, ex.head)
		if !ex.keepAlive {
			fields.Close = true
		}

		ex.fields = fields
	}()
}

// writer delivers responses strictly in arrival order: the head of the queue
// is always the next response on the wire, even if later exchanges finished
// earlier.
func (s *Session) writer(done chan struct{}) {
	defer close(done)

	buff := make([]byte, 0, s.cfg.NET.WriteBufferSize)

	for ex := range s.pending {
		select {
		case <-s.ctx.Done():
			// the session is aborted: results of cancelled handlers are discarded
			return
		default:
		}

		select {
		case <-ex.done:
		case <-s.ctx.Done():
			return
		}

		buff = http1.Serialize(ex.head.Protocol, ex.fields, buff[:0])
		if err := s.client.Write(buff); err != nil {
			s.teardown()
			return
		}

		if ex.fields.Close {
			s.teardown()
			return
		}
	}
}

// teardown aborts the session from the writer's side. Closing the socket is
// what kicks the reader out of a blocking read.
func (s *Session) teardown() {
	s.cancel()
	_ = s.client.Close()
}

// enqueue appends the exchange to the write queue, suspending when the
// pipeline is at capacity. Reports false if the session is being torn down.
func (s *Session) enqueue(ex *exchange) bool {
	select {
	case s.pending <- ex:
		return true
	case <-s.ctx.Done():
		return false
	}
}

func (s *Session) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// protocolError tells an unparseable stream apart from a dead socket: the
// former deserves a best-effort error response, the latter cannot receive one.
func protocolError(err error) bool {
	_, ok := err.(status.HTTPError)
	return ok
}
