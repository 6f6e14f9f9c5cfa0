// Package socket handles communication with a player using a websocket connection.
package socket

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/wordrush/wordrush/game"
	"github.com/wordrush/wordrush/game/message"
	"github.com/wordrush/wordrush/server/log"
)

type (
	// Socket reads client intents from a websocket connection and writes game events to it.
	// Inbound messages are stamped with the lobby and player ids before they reach the broker.
	Socket struct {
		lobbyID  game.LobbyID
		playerID game.PlayerID
		conn     Conn
		active   bool
		mu       sync.Mutex
		Config
	}

	// Config contains commonly shared Socket properties.
	Config struct {
		// Debug is a flag that causes the socket to log the types of non-ping/pong messages that are read and written.
		Debug bool
		// Log is used to log errors and other information.
		Log log.Logger
		// TimeFunc is a function which should supply the current time.
		// Used to set read and write deadlines.
		TimeFunc func() time.Time
		// ReadWait is the amount of time that can pass between receiving client messages before timing out.
		ReadWait time.Duration
		// WriteWait is the amount of time that the socket can take to write a message.
		WriteWait time.Duration
		// PingPeriod is how often ping messages should be sent.  Should be less than ReadWait.
		PingPeriod time.Duration
		// IdlePeriod is the amount of time that can pass between reads before the connection is considered idle and is disconnected.
		IdlePeriod time.Duration
	}

	// Conn is the connection that backs the socket.
	Conn interface {
		// ReadJSON reads the next json message from the connection.
		ReadJSON(v interface{}) error
		// WriteJSON writes the message as json to the connection.
		WriteJSON(v interface{}) error
		// SetReadDeadline sets how long a read can take before it errors.
		SetReadDeadline(t time.Time) error
		// SetWriteDeadline sets how long a write can take before it errors.
		SetWriteDeadline(t time.Time) error
		// SetPongHandler registers the handler called when the connection receives a pong.
		SetPongHandler(h func(appData string) error)
		// WritePing writes a ping message on the connection.
		WritePing() error
		// WriteClose writes a close message on the connection.  The connection is NOT closed.
		WriteClose(code int, reason string) error
		// IsUnexpectedCloseError determines if the error is an unexpected close error.
		IsUnexpectedCloseError(err error) bool
		// RemoteAddr gets the remote network address of the connection.
		RemoteAddr() net.Addr
		// Close closes the connection.
		Close() error
	}
)

var errSocketClosed = fmt.Errorf("socket closed")

// NewSocket creates a socket for the player in the lobby.
func (cfg Config) NewSocket(conn Conn, lobbyID game.LobbyID, playerID game.PlayerID) (*Socket, error) {
	if err := cfg.validate(conn, lobbyID, playerID); err != nil {
		return nil, fmt.Errorf("creating socket: validation: %w", err)
	}
	s := Socket{
		lobbyID:  lobbyID,
		playerID: playerID,
		conn:     conn,
		Config:   cfg,
	}
	return &s, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(conn Conn, lobbyID game.LobbyID, playerID game.PlayerID) error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case conn == nil:
		return fmt.Errorf("websocket connection required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	case len(lobbyID) == 0:
		return fmt.Errorf("lobby id required")
	case len(playerID) == 0:
		return fmt.Errorf("player id required")
	case cfg.ReadWait <= 0:
		return fmt.Errorf("positive read wait period required")
	case cfg.WriteWait <= 0:
		return fmt.Errorf("positive write wait period required")
	case cfg.PingPeriod <= 0:
		return fmt.Errorf("positive ping period required")
	case cfg.IdlePeriod <= 0:
		return fmt.Errorf("positive idle period required")
	case cfg.PingPeriod >= cfg.ReadWait:
		return fmt.Errorf("ping period must be less than read wait")
	}
	return nil
}

// Run reads and writes messages on separate goroutines until the connection
// fails, the context is cancelled, or the in channel is closed.
// Messages read from the connection are sent on the out channel.
// Messages received on the in channel are written to the connection.
// The remove function is called exactly once when the socket stops.
func (s *Socket) Run(ctx context.Context, remove func(), in <-chan message.Message, out chan<- message.Message) {
	ctx, cancel := context.WithCancel(ctx)
	var once sync.Once
	stop := func() {
		cancel()
		once.Do(remove)
	}
	go s.readMessages(ctx, stop, out)
	go s.writeMessages(ctx, stop, in)
}

// readMessages reads connection messages onto the out channel until the connection closes.
func (s *Socket) readMessages(ctx context.Context, stop func(), out chan<- message.Message) {
	defer stop()
	s.conn.SetPongHandler(func(string) error {
		return s.refreshReadDeadline()
	})
	if err := s.refreshReadDeadline(); err != nil {
		return
	}
	for { // BLOCKING
		m, err := s.readMessage()
		select {
		case <-ctx.Done():
			return
		default:
			if err != nil {
				if err != errSocketClosed {
					s.Log.Printf("reading socket messages stopped for player %v in lobby %v: %v", s.playerID, s.lobbyID, err)
				}
				return
			}
		}
		if m == nil {
			continue
		}
		out <- *m
		s.markActive()
	}
}

// writeMessages writes messages from the in channel to the connection, pinging
// periodically and dropping the connection when the reader goes idle.
func (s *Socket) writeMessages(ctx context.Context, stop func(), in <-chan message.Message) {
	pingTicker := time.NewTicker(s.PingPeriod)
	idleTicker := time.NewTicker(s.IdlePeriod)
	defer func() {
		pingTicker.Stop()
		idleTicker.Stop()
		stop()
		s.conn.Close()
	}()
	var err error
	for { // BLOCKING
		select {
		case <-ctx.Done():
			s.conn.WriteClose(CloseNormal, "server shutting down")
			return
		case m, ok := <-in:
			if !ok {
				s.conn.WriteClose(CloseNormal, "lobby closed")
				return
			}
			err = s.writeMessage(m)
		case <-pingTicker.C:
			err = s.writePing()
		case <-idleTicker.C:
			if !s.consumeActive() {
				s.conn.WriteClose(CloseNormal, "closing socket due to inactivity")
				return
			}
		}
		if err != nil {
			if err != errSocketClosed {
				s.Log.Printf("writing socket messages stopped for player %v in lobby %v: %v", s.playerID, s.lobbyID, err)
			}
			return
		}
	}
}

// readMessage reads the next message from the connection, stamping it with the socket's ids.
// Lifecycle message types are never accepted from the wire.
func (s *Socket) readMessage() (*message.Message, error) {
	var m message.Message
	if err := s.conn.ReadJSON(&m); err != nil { // BLOCKING
		if s.conn.IsUnexpectedCloseError(err) {
			return nil, fmt.Errorf("unexpected socket closure: %v", err)
		}
		return nil, errSocketClosed
	}
	if s.Debug {
		s.Log.Printf("socket reading message with type %v", m.Type)
	}
	if m.Type == message.Join || m.Type == message.Leave {
		s.Log.Printf("player %v sent a reserved message type %v, ignoring", s.playerID, m.Type)
		return nil, nil
	}
	m.LobbyID = s.lobbyID
	m.PlayerID = s.playerID
	return &m, nil
}

// writeMessage writes a message to the connection.
// Writing a leave message tells the client it was removed and closes the socket.
func (s *Socket) writeMessage(m message.Message) error {
	if s.Debug {
		s.Log.Printf("socket writing message with type %v", m.Type)
	}
	if err := s.refreshWriteDeadline(); err != nil {
		return err
	}
	if err := s.conn.WriteJSON(m); err != nil {
		return fmt.Errorf("writing socket message: %v", err)
	}
	if m.Type == message.Leave {
		s.conn.WriteClose(ClosePolicyViolation, "removed from lobby")
		return errSocketClosed
	}
	return nil
}

func (s *Socket) writePing() error {
	if err := s.refreshWriteDeadline(); err != nil {
		return err
	}
	return s.conn.WritePing()
}

func (s *Socket) refreshReadDeadline() error {
	return s.refreshDeadline(s.conn.SetReadDeadline, s.ReadWait)
}

func (s *Socket) refreshWriteDeadline() error {
	return s.refreshDeadline(s.conn.SetWriteDeadline, s.WriteWait)
}

func (s *Socket) refreshDeadline(refreshDeadlineFunc func(t time.Time) error, period time.Duration) error {
	if err := refreshDeadlineFunc(s.TimeFunc().Add(period)); err != nil {
		return fmt.Errorf("refreshing deadline: %w", err)
	}
	return nil
}

// markActive records that the connection read a message since the last idle check.
func (s *Socket) markActive() {
	s.mu.Lock()
	s.active = true
	s.mu.Unlock()
}

// consumeActive reports and clears the activity flag.
func (s *Socket) consumeActive() bool {
	s.mu.Lock()
	active := s.active
	s.active = false
	s.mu.Unlock()
	return active
}
