package tcp

import (
	"net"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/indigo-web/utils/unreader"
)

// Client is a byte-oriented view of one connection. Read returns whatever the
// socket has, bounded by the read buffer; Unread pushes unconsumed bytes back
// so the next Read returns them first.
type Client interface {
	Read() ([]byte, error)
	Unread([]byte)
	Write([]byte) error
	Remote() net.Addr
	Close() error
}

type client struct {
	unreader *unreader.Unreader
	buff     []byte
	conn     net.Conn
	timeout  time.Duration
	clock    clock.Clock
}

// NewClient wraps a connection. Every Read arms a deadline of timeout from
// now, so an idle connection eventually surfaces a timeout error.
func NewClient(conn net.Conn, timeout time.Duration, clck clock.Clock, buff []byte) Client {
	return &client{
		unreader: new(unreader.Unreader),
		buff:     buff,
		conn:     conn,
		timeout:  timeout,
		clock:    clck,
	}
}

func (c *client) Read() ([]byte, error) {
	return c.unreader.PendingOr(func() ([]byte, error) {
		if err := c.conn.SetReadDeadline(c.clock.Now().Add(c.timeout)); err != nil {
			return nil, err
		}

		n, err := c.conn.Read(c.buff)
		if n == 0 {
			return nil, err
		}

		return c.buff[:n], nil
	})
}

func (c *client) Unread(b []byte) {
	c.unreader.Unread(b)
}

func (c *client) Write(b []byte) error {
	_, err := c.conn.Write(b)

	return err
}

func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *client) Close() error {
	return c.conn.Close()
}
