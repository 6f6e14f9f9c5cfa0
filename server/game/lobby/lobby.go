// Package lobby routes websocket connections to per-lobby games and fans game events back out to sockets.
package lobby

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"

	"github.com/wordrush/wordrush/game"
	"github.com/wordrush/wordrush/game/message"
	controller "github.com/wordrush/wordrush/server/game"
	"github.com/wordrush/wordrush/server/game/socket"
	"github.com/wordrush/wordrush/server/log"
)

type (
	// Lobby owns the table of running games and the sockets connected to them.
	// All map access happens on the Run goroutine.
	Lobby struct {
		upgrader       socket.Upgrader
		games          map[game.LobbyID]gameHandler
		sockets        map[game.LobbyID]map[game.PlayerID]socketHandler
		addSockets     chan addSocketRequest
		socketLeaves   chan socketLeave
		gameRemovals   chan game.LobbyID
		socketMessages chan message.Message
		gameMessages   chan message.Message
		Config
	}

	// Config contains the properties to create a lobby.
	Config struct {
		// Debug is a flag that causes the lobby to log the types of messages that are read.
		Debug bool
		// Log is used to log errors and other information.
		Log log.Logger
		// MaxLobbies is the maximum number of games the lobby supports.
		MaxLobbies int
		// Upgrader turns http requests into websocket connections.
		// A gorilla upgrader is used when nil.
		Upgrader socket.Upgrader
		// SocketCfg is used to create new sockets.
		SocketCfg socket.Config
		// GameCfg is used to create new games.
		GameCfg controller.Config
	}

	gameHandler struct {
		in     chan message.Message
		cancel context.CancelFunc
	}

	socketHandler struct {
		in     chan message.Message
		cancel context.CancelFunc
	}

	addSocketRequest struct {
		w        http.ResponseWriter
		r        *http.Request
		lobbyID  game.LobbyID
		playerID game.PlayerID
		join     message.JoinData
		create   bool
		result   chan<- error
	}

	// socketLeave identifies a stopped socket by its write channel so that a
	// stale leave cannot remove a replacement socket for the same player.
	socketLeave struct {
		lobbyID  game.LobbyID
		playerID game.PlayerID
		in       chan message.Message
	}
)

const (
	gameInBuffer      = 16
	socketWriteBuffer = 32
	messageBuffer     = 64
)

// NewLobby creates a new game lobby.
func (cfg Config) NewLobby() (*Lobby, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating lobby: validation: %w", err)
	}
	u := cfg.Upgrader
	if u == nil {
		u = socket.NewGorillaUpgrader()
	}
	l := Lobby{
		upgrader:       u,
		games:          make(map[game.LobbyID]gameHandler, cfg.MaxLobbies),
		sockets:        make(map[game.LobbyID]map[game.PlayerID]socketHandler),
		addSockets:     make(chan addSocketRequest),
		socketLeaves:   make(chan socketLeave, messageBuffer),
		gameRemovals:   make(chan game.LobbyID, messageBuffer),
		socketMessages: make(chan message.Message, messageBuffer),
		gameMessages:   make(chan message.Message, messageBuffer),
		Config:         cfg,
	}
	return &l, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate() error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.MaxLobbies <= 0:
		return fmt.Errorf("must allow at least one lobby")
	case cfg.GameCfg.MaxPlayers <= 0:
		return fmt.Errorf("games must allow at least one player")
	}
	return nil
}

// Run runs the lobby until the context is closed.
func (l *Lobby) Run(ctx context.Context) {
	for { // BLOCKING
		select {
		case <-ctx.Done():
			return
		case req := <-l.addSockets:
			l.addSocket(ctx, req)
		case sl := <-l.socketLeaves:
			l.handleSocketLeave(sl)
		case id := <-l.gameRemovals:
			l.removeGame(id)
		case m := <-l.socketMessages:
			l.handleSocketMessage(m)
		case m := <-l.gameMessages:
			l.handleGameMessage(m)
		}
	}
}

// AddPlayer upgrades the request to a websocket and joins the player to the lobby,
// creating the lobby's game first when create is set.
// It blocks until the connection is registered or rejected.
func (l *Lobby) AddPlayer(w http.ResponseWriter, r *http.Request, lobbyID game.LobbyID, playerID game.PlayerID, join message.JoinData, create bool) error {
	// Buffered so the Run goroutine never blocks on the result if the request context is cancelled first.
	result := make(chan error, 1)
	req := addSocketRequest{
		w:        w,
		r:        r,
		lobbyID:  lobbyID,
		playerID: playerID,
		join:     join,
		create:   create,
		result:   result,
	}
	select {
	case l.addSockets <- req:
	case <-r.Context().Done():
		return fmt.Errorf("adding player: %w", r.Context().Err())
	}
	select {
	case err := <-result:
		return err
	case <-r.Context().Done():
		return fmt.Errorf("adding player: %w", r.Context().Err())
	}
}

// addSocket upgrades the connection and registers it with the lobby's game.
// The connection is upgraded before any check so rejections arrive as websocket close frames.
func (l *Lobby) addSocket(ctx context.Context, req addSocketRequest) {
	conn, err := l.upgrader.Upgrade(req.w, req.r)
	if err != nil {
		req.result <- fmt.Errorf("upgrading to websocket connection: %w", err)
		return
	}
	gh, ok := l.games[req.lobbyID]
	switch {
	case !ok && !req.create:
		l.reject(conn, req, fmt.Sprintf("unknown lobby %v", req.lobbyID))
		return
	case !ok:
		if len(l.games) >= l.MaxLobbies {
			l.reject(conn, req, fmt.Sprintf("the maximum number of lobbies have already been created (%v)", l.MaxLobbies))
			return
		}
		gh, err = l.createGame(ctx, req.lobbyID)
		if err != nil {
			l.reject(conn, req, err.Error())
			return
		}
	}
	_, rejoining := l.sockets[req.lobbyID][req.playerID]
	if !rejoining && len(l.sockets[req.lobbyID]) >= l.GameCfg.MaxPlayers {
		l.reject(conn, req, "lobby is full")
		return
	}
	s, err := l.SocketCfg.NewSocket(conn, req.lobbyID, req.playerID)
	if err != nil {
		l.reject(conn, req, err.Error())
		return
	}
	joinM, err := message.New(message.Join, req.join)
	if err != nil {
		l.reject(conn, req, err.Error())
		return
	}
	joinM.LobbyID, joinM.PlayerID = req.lobbyID, req.playerID
	select {
	case gh.in <- joinM:
	default:
		l.reject(conn, req, "lobby is busy")
		return
	}
	if old, ok := l.sockets[req.lobbyID][req.playerID]; ok {
		l.Log.Printf("socket for player %v in lobby %v already exists, replacing", req.playerID, req.lobbyID)
		old.cancel()
	}
	socketCtx, cancel := context.WithCancel(ctx)
	in := make(chan message.Message, socketWriteBuffer)
	leave := socketLeave{
		lobbyID:  req.lobbyID,
		playerID: req.playerID,
		in:       in,
	}
	remove := func() {
		select {
		case l.socketLeaves <- leave:
		case <-ctx.Done():
		}
	}
	s.Run(socketCtx, remove, in, l.socketMessages)
	if l.sockets[req.lobbyID] == nil {
		l.sockets[req.lobbyID] = make(map[game.PlayerID]socketHandler, l.GameCfg.MaxPlayers)
	}
	l.sockets[req.lobbyID][req.playerID] = socketHandler{
		in:     in,
		cancel: cancel,
	}
	req.result <- nil
}

// reject closes the new connection with a policy-violation frame and reports the reason.
func (l *Lobby) reject(conn socket.Conn, req addSocketRequest, reason string) {
	conn.WriteClose(socket.ClosePolicyViolation, reason)
	conn.Close()
	req.result <- fmt.Errorf("%v", reason)
}

// createGame creates and runs a game for the lobby id.
// Each game gets its own randomness source because games run on separate goroutines.
func (l *Lobby) createGame(ctx context.Context, id game.LobbyID) (gameHandler, error) {
	cfg := l.GameCfg
	if cfg.Rand != nil {
		cfg.Rand = rand.New(rand.NewSource(cfg.Rand.Int63()))
	}
	g, err := cfg.NewGame(id)
	if err != nil {
		return gameHandler{}, err
	}
	gameCtx, cancel := context.WithCancel(ctx)
	in := make(chan message.Message, gameInBuffer)
	remove := func() {
		select {
		case l.gameRemovals <- id:
		case <-ctx.Done():
		}
	}
	g.Run(gameCtx, remove, in, l.gameMessages)
	gh := gameHandler{
		in:     in,
		cancel: cancel,
	}
	l.games[id] = gh
	return gh, nil
}

// removeGame forgets the game and closes any sockets still connected to it.
func (l *Lobby) removeGame(id game.LobbyID) {
	gh, ok := l.games[id]
	if !ok {
		return
	}
	delete(l.games, id)
	gh.cancel()
	for _, sh := range l.sockets[id] {
		sh.cancel()
	}
	delete(l.sockets, id)
}

// handleSocketLeave unregisters the stopped socket and tells its game the player left.
func (l *Lobby) handleSocketLeave(sl socketLeave) {
	sh, ok := l.sockets[sl.lobbyID][sl.playerID]
	if !ok || sh.in != sl.in {
		return
	}
	delete(l.sockets[sl.lobbyID], sl.playerID)
	if len(l.sockets[sl.lobbyID]) == 0 {
		delete(l.sockets, sl.lobbyID)
	}
	sh.cancel()
	gh, ok := l.games[sl.lobbyID]
	if !ok {
		return
	}
	m := message.Message{
		Type:     message.Leave,
		LobbyID:  sl.lobbyID,
		PlayerID: sl.playerID,
	}
	select {
	case gh.in <- m:
	default:
		l.Log.Printf("lobby %v game busy, dropping leave for player %v", sl.lobbyID, sl.playerID)
	}
}

// handleSocketMessage forwards a client intent to its game.
func (l *Lobby) handleSocketMessage(m message.Message) {
	if l.Debug {
		l.Log.Printf("lobby reading socket message with type %v", m.Type)
	}
	gh, ok := l.games[m.LobbyID]
	if !ok {
		l.Log.Printf("no game for lobby %v to send %v message to", m.LobbyID, m.Type)
		return
	}
	select {
	case gh.in <- m:
	default:
		l.Log.Printf("lobby %v game busy, dropping %v message from player %v", m.LobbyID, m.Type, m.PlayerID)
	}
}

// handleGameMessage fans a game event out to the lobby's sockets.
// Messages without a player id are broadcast to every socket in the lobby.
func (l *Lobby) handleGameMessage(m message.Message) {
	if l.Debug {
		l.Log.Printf("lobby reading game message with type %v", m.Type)
	}
	if len(m.PlayerID) == 0 {
		for playerID, sh := range l.sockets[m.LobbyID] {
			l.sendToSocket(m.LobbyID, playerID, sh, m)
		}
		return
	}
	sh, ok := l.sockets[m.LobbyID][m.PlayerID]
	if !ok {
		l.Log.Printf("no socket for player %v in lobby %v to send %v message to", m.PlayerID, m.LobbyID, m.Type)
		return
	}
	l.sendToSocket(m.LobbyID, m.PlayerID, sh, m)
}

// sendToSocket writes the message to the socket's buffered channel, dropping it when the socket cannot keep up.
func (l *Lobby) sendToSocket(lobbyID game.LobbyID, playerID game.PlayerID, sh socketHandler, m message.Message) {
	select {
	case sh.in <- m:
	default:
		l.Log.Printf("lobby %v dropping %v message for slow socket of player %v", lobbyID, m.Type, playerID)
	}
}
