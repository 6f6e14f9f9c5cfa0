package lobby

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/wordrush/wordrush/game/message"
	"github.com/wordrush/wordrush/server/game/socket"
)

// mockUpgrader hands out pre-built connections instead of upgrading requests.
type mockUpgrader struct {
	conns chan socket.Conn
}

func newMockUpgrader(conns ...socket.Conn) *mockUpgrader {
	u := mockUpgrader{
		conns: make(chan socket.Conn, len(conns)),
	}
	for _, c := range conns {
		u.conns <- c
	}
	return &u
}

func (u *mockUpgrader) Upgrade(w http.ResponseWriter, r *http.Request) (socket.Conn, error) {
	select {
	case c := <-u.conns:
		return c, nil
	default:
		return nil, fmt.Errorf("no mock connection available")
	}
}

// funcUpgrader delegates Upgrade to a func field.
type funcUpgrader struct {
	upgradeFunc func(w http.ResponseWriter, r *http.Request) (socket.Conn, error)
}

func (u funcUpgrader) Upgrade(w http.ResponseWriter, r *http.Request) (socket.Conn, error) {
	return u.upgradeFunc(w, r)
}

type closeFrame struct {
	code   int
	reason string
}

// mockAddr implements net.Addr with a fixed address.
type mockAddr string

func (a mockAddr) Network() string { return "tcp" }
func (a mockAddr) String() string  { return string(a) }

// mockConn is a socket.Conn with channel-backed reads and writes.
type mockConn struct {
	reads     chan message.Message
	writes    chan message.Message
	closes    chan closeFrame
	done      chan struct{}
	closeOnce sync.Once
}

func newMockConn() *mockConn {
	return &mockConn{
		reads:  make(chan message.Message, 16),
		writes: make(chan message.Message, 64),
		closes: make(chan closeFrame, 4),
		done:   make(chan struct{}),
	}
}

func (c *mockConn) ReadJSON(v interface{}) error {
	select {
	case m := <-c.reads:
		*v.(*message.Message) = m
		return nil
	case <-c.done:
		return fmt.Errorf("connection closed")
	}
}

func (c *mockConn) WriteJSON(v interface{}) error {
	c.writes <- v.(message.Message)
	return nil
}

func (c *mockConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *mockConn) SetWriteDeadline(t time.Time) error { return nil }
func (c *mockConn) SetPongHandler(h func(appData string) error) {}

func (c *mockConn) WritePing() error { return nil }

func (c *mockConn) WriteClose(code int, reason string) error {
	c.closes <- closeFrame{code: code, reason: reason}
	return nil
}

func (c *mockConn) IsUnexpectedCloseError(err error) bool { return false }

func (c *mockConn) RemoteAddr() net.Addr { return mockAddr("127.0.0.1:46302") }

func (c *mockConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	return nil
}

// testDictionary is a Dictionary over a fixed word list.
type testDictionary map[string]struct{}

func (d testDictionary) Contains(word string) bool {
	_, ok := d[word]
	return ok
}

func (d testDictionary) IsPrefix(s string) bool {
	for w := range d {
		if len(s) <= len(w) && w[:len(s)] == s {
			return true
		}
	}
	return false
}
