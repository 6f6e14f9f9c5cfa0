package socket

import (
	"fmt"
	"net"
	"sync"
	"time"
)

// mockAddr implements net.Addr with a fixed address.
type mockAddr string

func (a mockAddr) Network() string { return "tcp" }
func (a mockAddr) String() string  { return string(a) }

// mockConn is a scriptable Conn.
// Unscripted reads block until the connection is closed.
type mockConn struct {
	readJSONFunc   func(v interface{}) error
	writeJSONFunc  func(v interface{}) error
	writePingFunc  func() error
	writeCloseFunc func(code int, reason string) error
	done           chan struct{}
	closeOnce      sync.Once
}

func newMockConn() *mockConn {
	return &mockConn{
		done: make(chan struct{}),
	}
}

func (c *mockConn) ReadJSON(v interface{}) error {
	if c.readJSONFunc != nil {
		return c.readJSONFunc(v)
	}
	<-c.done
	return fmt.Errorf("connection closed")
}

func (c *mockConn) WriteJSON(v interface{}) error {
	if c.writeJSONFunc != nil {
		return c.writeJSONFunc(v)
	}
	return nil
}

func (c *mockConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *mockConn) SetWriteDeadline(t time.Time) error { return nil }
func (c *mockConn) SetPongHandler(h func(appData string) error) {}

func (c *mockConn) WritePing() error {
	if c.writePingFunc != nil {
		return c.writePingFunc()
	}
	return nil
}

func (c *mockConn) WriteClose(code int, reason string) error {
	if c.writeCloseFunc != nil {
		return c.writeCloseFunc(code, reason)
	}
	return nil
}

func (c *mockConn) IsUnexpectedCloseError(err error) bool { return false }

func (c *mockConn) RemoteAddr() net.Addr { return mockAddr("127.0.0.1:46301") }

func (c *mockConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	return nil
}
