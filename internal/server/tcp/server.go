package tcp

import (
	"log"
	"net"
	"sync"

	"github.com/pkg/errors"

	"github.com/strand-web/strand/http/status"
)

type onConnection func(net.Conn)

// Server runs the accept loop, spawning one goroutine per connection. A
// failure to accept a single connection is not fatal: it is logged and the
// loop keeps going.
type Server struct {
	sock   net.Listener
	onConn onConnection

	mu       sync.Mutex
	conns    map[net.Conn]struct{}
	shutdown bool
}

func NewServer(sock net.Listener, onConn onConnection) *Server {
	return &Server{
		sock:   sock,
		onConn: onConn,
		conns:  make(map[net.Conn]struct{}),
	}
}

func (s *Server) Start() error {
	wg := new(sync.WaitGroup)

	for {
		conn, err := s.sock.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				wg.Wait()

				if s.isShutdown() {
					return status.ErrShutdown
				}

				return errors.Wrap(err, "listener closed")
			}

			log.Printf("tcp: accept: %v", err)
			continue
		}

		s.track(conn)
		wg.Add(1)
		go s.connHandler(wg, conn)
	}
}

// Stop shuts the listener and ALL the connections down.
func (s *Server) Stop() error {
	if err := s.stopListener(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.conns {
		_ = conn.Close()
	}

	return nil
}

// GracefulShutdown stops the listener, leaving the connections free to end
// their lives peacefully.
func (s *Server) GracefulShutdown() error {
	return s.stopListener()
}

func (s *Server) stopListener() error {
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()

	return s.sock.Close()
}

func (s *Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.shutdown
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) connHandler(wg *sync.WaitGroup, conn net.Conn) {
	s.onConn(conn)

	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	wg.Done()
}
