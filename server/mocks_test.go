package server

import (
	"context"
	"net/http"

	"github.com/wordrush/wordrush/game"
	"github.com/wordrush/wordrush/game/message"
	"github.com/wordrush/wordrush/scores"
)

// mockLobby implements the Lobby interface.
type mockLobby struct {
	runFunc       func(ctx context.Context)
	addPlayerFunc func(w http.ResponseWriter, r *http.Request, lobbyID game.LobbyID, playerID game.PlayerID, join message.JoinData, create bool) error
}

func (l mockLobby) Run(ctx context.Context) {
	if l.runFunc != nil {
		l.runFunc(ctx)
	}
}

func (l mockLobby) AddPlayer(w http.ResponseWriter, r *http.Request, lobbyID game.LobbyID, playerID game.PlayerID, join message.JoinData, create bool) error {
	return l.addPlayerFunc(w, r, lobbyID, playerID, join, create)
}

// mockScoreReader implements the ScoreReader interface.
type mockScoreReader struct {
	leaderboardFunc func(ctx context.Context, n int) ([]scores.Record, error)
	statsFunc       func(ctx context.Context, addr string) (*scores.Stats, error)
}

func (m mockScoreReader) Leaderboard(ctx context.Context, n int) ([]scores.Record, error) {
	return m.leaderboardFunc(ctx, n)
}

func (m mockScoreReader) Stats(ctx context.Context, addr string) (*scores.Stats, error) {
	return m.statsFunc(ctx, addr)
}
