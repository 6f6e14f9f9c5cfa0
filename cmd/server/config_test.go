package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordrush/wordrush/server/log/logtest"
)

// writeTempFile creates a file that is removed when the test ends.
func writeTempFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestWordValidator(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		m := mainFlags{wordsFile: filepath.Join(t.TempDir(), "missing.txt")}
		_, err := wordValidator(m)
		assert.Error(t, err)
	})
	t.Run("loads words", func(t *testing.T) {
		m := mainFlags{wordsFile: writeTempFile(t, "words.txt", "cat\ndog\nquins\n")}
		v, err := wordValidator(m)
		require.NoError(t, err)
		assert.True(t, v.Contains("CAT"))
		assert.False(t, v.Contains("BIRD"))
	})
}

func TestScoresBackend(t *testing.T) {
	ctx := context.Background()
	t.Run("file", func(t *testing.T) {
		m := mainFlags{
			scoresBackend: "file",
			scoresFile:    filepath.Join(t.TempDir(), "scores.json"),
		}
		b, err := scoresBackend(ctx, m)
		require.NoError(t, err)
		assert.NotNil(t, b)
	})
	t.Run("postgres without data source", func(t *testing.T) {
		m := mainFlags{scoresBackend: "postgres"}
		_, err := scoresBackend(ctx, m)
		assert.ErrorContains(t, err, "data-source")
	})
	t.Run("mongo without url", func(t *testing.T) {
		m := mainFlags{scoresBackend: "mongo"}
		_, err := scoresBackend(ctx, m)
		assert.ErrorContains(t, err, "mongo-url")
	})
	t.Run("firestore without project id", func(t *testing.T) {
		m := mainFlags{scoresBackend: "firestore"}
		_, err := scoresBackend(ctx, m)
		assert.ErrorContains(t, err, "firestore-project-id")
	})
	t.Run("unknown", func(t *testing.T) {
		m := mainFlags{scoresBackend: "carrier-pigeon"}
		_, err := scoresBackend(ctx, m)
		assert.ErrorContains(t, err, "unknown scores backend")
	})
}

func TestNewServer(t *testing.T) {
	ctx := context.Background()
	t.Run("missing words file", func(t *testing.T) {
		m := mainFlags{
			port:          8000,
			wordsFile:     filepath.Join(t.TempDir(), "missing.txt"),
			scoresBackend: "file",
			scoresFile:    filepath.Join(t.TempDir(), "scores.json"),
		}
		_, err := newServer(ctx, m, logtest.DiscardLogger)
		assert.ErrorContains(t, err, "word validator")
	})
	t.Run("file backend", func(t *testing.T) {
		m := mainFlags{
			port:          8000,
			wordsFile:     writeTempFile(t, "words.txt", "cat\ndog\n"),
			scoresBackend: "file",
			scoresFile:    filepath.Join(t.TempDir(), "scores.json"),
		}
		s, err := newServer(ctx, m, logtest.DiscardLogger)
		require.NoError(t, err)
		assert.Equal(t, ":8000", s.HTTPServer.Addr)
	})
}

func TestLobbyConfig(t *testing.T) {
	m := mainFlags{debugGame: true}
	cfg := lobbyConfig(m, logtest.DiscardLogger, nil, nil)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.GameCfg.Debug)
	assert.True(t, cfg.SocketCfg.Debug)
	assert.Equal(t, 10, cfg.GameCfg.MaxPlayers)
	assert.NotNil(t, cfg.GameCfg.Rand)
	assert.Less(t, cfg.SocketCfg.PingPeriod, cfg.SocketCfg.ReadWait, "pings must be sent before the read deadline passes")
}
