// Package server runs the http server that exposes the game API and the websocket endpoint players connect to.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/wordrush/wordrush/game"
	"github.com/wordrush/wordrush/game/message"
	"github.com/wordrush/wordrush/scores"
	"github.com/wordrush/wordrush/server/log"
)

type (
	// Server runs the site.
	Server struct {
		log        log.Logger
		lobby      Lobby
		scores     ScoreReader
		HTTPServer *http.Server
		Config
	}

	// Config contains fields which describe the server.
	Config struct {
		// Port is the TCP port the server listens on.
		Port int
		// StopDur is the amount of time the server may take to shut down gracefully.
		StopDur time.Duration
		// AllowedOrigin is the origin allowed by CORS headers.  Defaults to "*".
		AllowedOrigin string
		// Monitor enables the runtime monitor endpoint.
		Monitor bool
	}

	// Parameters contains the interfaces needed to create a new server.
	Parameters struct {
		log.Logger
		Lobby  Lobby
		Scores ScoreReader
	}

	// Lobby runs games and joins websocket connections to them.
	Lobby interface {
		// Run runs the lobby until the context is closed.
		Run(ctx context.Context)
		// AddPlayer upgrades the request to a websocket and joins the player to the lobby.
		AddPlayer(w http.ResponseWriter, r *http.Request, lobbyID game.LobbyID, playerID game.PlayerID, join message.JoinData, create bool) error
	}

	// ScoreReader reads persisted high scores.
	ScoreReader interface {
		// Leaderboard returns the top records by best score.
		Leaderboard(ctx context.Context, n int) ([]scores.Record, error)
		// Stats returns the record for the remote address, or scores.ErrNotFound.
		Stats(ctx context.Context, addr string) (*scores.Stats, error)
	}
)

// NewServer creates a Server from the Config.
func (cfg Config) NewServer(p Parameters) (*Server, error) {
	if err := cfg.validate(p); err != nil {
		return nil, fmt.Errorf("creating server: validation: %w", err)
	}
	if len(cfg.AllowedOrigin) == 0 {
		cfg.AllowedOrigin = "*"
	}
	s := Server{
		log:    p.Logger,
		lobby:  p.Lobby,
		scores: p.Scores,
		Config: cfg,
	}
	s.HTTPServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.handler(),
		// Websocket connections are hijacked from the server, so the timeouts only bound plain http requests.
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return &s, nil
}

// validate ensures the configuration and parameters have no errors.
func (cfg Config) validate(p Parameters) error {
	switch {
	case p.Logger == nil:
		return fmt.Errorf("log required")
	case p.Lobby == nil:
		return fmt.Errorf("lobby required")
	case p.Scores == nil:
		return fmt.Errorf("scores dao required")
	case cfg.Port <= 0:
		return fmt.Errorf("positive port required")
	case cfg.StopDur <= 0:
		return fmt.Errorf("positive stop timeout duration required")
	}
	return nil
}

// Run runs the lobby and the http server asynchronously until the server is stopped.
// Errors from the http server are sent on the returned channel.
func (s *Server) Run(ctx context.Context) <-chan error {
	errC := make(chan error, 1)
	ctx, cancelFunc := context.WithCancel(ctx)
	s.HTTPServer.RegisterOnShutdown(cancelFunc)
	go s.lobby.Run(ctx)
	s.log.Printf("starting server at http://127.0.0.1%v", s.HTTPServer.Addr)
	go func() {
		errC <- s.HTTPServer.ListenAndServe()
	}()
	return errC
}

// Stop asks the server to shutdown and waits for the shutdown to complete.
// An error is returned if the shutdown does not finish before the stop duration passes.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancelFunc := context.WithTimeout(ctx, s.StopDur)
	defer cancelFunc()
	if err := s.HTTPServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("stopping server: %w", err)
	}
	return nil
}
