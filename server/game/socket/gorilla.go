package socket

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"
)

// Close codes written on the wire.
const (
	CloseNormal          = websocket.CloseNormalClosure
	ClosePolicyViolation = websocket.ClosePolicyViolation
)

type (
	// Upgrader turns a http request into a websocket connection.
	Upgrader interface {
		// Upgrade creates a Conn from the HTTP request.
		Upgrade(w http.ResponseWriter, r *http.Request) (Conn, error)
	}

	// gorillaUpgrader implements the Upgrader interface by wrapping a gorilla/websocket upgrader.
	gorillaUpgrader struct {
		*websocket.Upgrader
	}

	// gorillaConn implements the Conn interface by wrapping a gorilla/websocket connection.
	gorillaConn struct {
		*websocket.Conn
	}
)

// NewGorillaUpgrader returns an upgrader that creates gorilla websocket connections.
// Clients are served from many origins, so the origin check is disabled.
func NewGorillaUpgrader() Upgrader {
	u := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	return &gorillaUpgrader{&u}
}

// Upgrade creates a Conn from the http request.
func (u *gorillaUpgrader) Upgrade(w http.ResponseWriter, r *http.Request) (Conn, error) {
	c, err := u.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return &gorillaConn{c}, nil
}

// SetPongHandler registers the pong handler on the connection.
func (c *gorillaConn) SetPongHandler(h func(appData string) error) {
	c.Conn.SetPongHandler(h)
}

// WritePing writes a ping message on the connection.
func (c *gorillaConn) WritePing() error {
	return c.Conn.WriteMessage(websocket.PingMessage, nil)
}

// WriteClose writes a close message on the connection.  The connection is NOT closed.
func (c *gorillaConn) WriteClose(code int, reason string) error {
	data := websocket.FormatCloseMessage(code, reason)
	return c.Conn.WriteMessage(websocket.CloseMessage, data)
}

// IsUnexpectedCloseError determines if the error is an unexpected close error.
func (c *gorillaConn) IsUnexpectedCloseError(err error) bool {
	return websocket.IsUnexpectedCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived)
}

// RemoteAddr gets the remote network address of the connection.
func (c *gorillaConn) RemoteAddr() net.Addr {
	return c.Conn.RemoteAddr()
}
