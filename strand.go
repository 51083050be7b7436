// Package strand is a tiny HTTP/1.1 server framework. It owns the connection
// lifecycle, incremental request parsing, routing and strictly ordered
// pipelined responses; request and response bodies are typed per route via
// pluggable streaming codecs.
package strand

import (
	"context"
	"net"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"github.com/strand-web/strand/config"
	server "github.com/strand-web/strand/internal/server/http"
	"github.com/strand-web/strand/internal/server/tcp"
	"github.com/strand-web/strand/router"
)

// App collects routes and settings before the server is built. All
// registration happens here, at build time: once Build is called the route
// table is frozen for the server's whole lifetime.
type App struct {
	addr  string
	cfg   *config.Config
	table *router.Table
}

func New(addr string) *App {
	return &App{
		addr:  addr,
		cfg:   config.Default(),
		table: router.NewTable(),
	}
}

// Tune replaces the default settings.
func (a *App) Tune(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

// Build freezes the route table and binds the listening socket. A bind
// failure is fatal and belongs to the caller; nothing is served yet.
func (a *App) Build() (*Server, error) {
	a.table.Freeze()

	sock, err := net.Listen("tcp", a.addr)
	if err != nil {
		return nil, errors.Wrapf(err, "strand: bind %s", a.addr)
	}

	srv := &Server{
		cfg:   a.cfg,
		table: a.table,
		clock: clock.New(),
		addr:  sock.Addr(),
	}
	srv.tcp = tcp.NewServer(sock, srv.onConn)

	return srv, nil
}

// Server is a runnable HTTP server, created via App.Build.
type Server struct {
	cfg   *config.Config
	table *router.Table
	tcp   *tcp.Server
	clock clock.Clock
	addr  net.Addr
}

// Addr returns the address the server is bound to.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Serve runs the accept loop. It returns only on a fatal listener failure or
// after Stop/GracefulStop; per-connection errors never escape their sessions.
func (s *Server) Serve() error {
	return s.tcp.Start()
}

// GracefulStop stops accepting new connections, but keeps serving the old
// ones. The call isn't blocking.
func (s *Server) GracefulStop() error {
	return s.tcp.GracefulShutdown()
}

// Stop shuts the server and all its connections down immediately.
func (s *Server) Stop() error {
	return s.tcp.Stop()
}

func (s *Server) onConn(conn net.Conn) {
	client := tcp.NewClient(conn, s.cfg.NET.ReadTimeout, s.clock, make([]byte, s.cfg.NET.ReadBufferSize))
	server.NewSession(context.Background(), s.cfg, s.table, client).Serve()
}
