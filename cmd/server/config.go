package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"time"

	_ "github.com/lib/pq" // register "postgres" database driver from package init() function

	"github.com/wordrush/wordrush/game/word"
	"github.com/wordrush/wordrush/scores"
	scoresFile "github.com/wordrush/wordrush/scores/file"
	scoresFirestore "github.com/wordrush/wordrush/scores/firestore"
	scoresMongo "github.com/wordrush/wordrush/scores/mongo"
	scoresSQL "github.com/wordrush/wordrush/scores/sql"
	"github.com/wordrush/wordrush/server"
	gameController "github.com/wordrush/wordrush/server/game"
	"github.com/wordrush/wordrush/server/game/lobby"
	"github.com/wordrush/wordrush/server/game/socket"
	"github.com/wordrush/wordrush/server/log"
)

// newServer assembles the server from the main flags.
func newServer(ctx context.Context, m mainFlags, log log.Logger) (*server.Server, error) {
	v, err := wordValidator(m)
	if err != nil {
		return nil, fmt.Errorf("creating word validator: %w", err)
	}
	d, err := scoresDao(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("creating scores dao: %w", err)
	}
	lobbyCfg := lobbyConfig(m, log, v, d)
	l, err := lobbyCfg.NewLobby()
	if err != nil {
		return nil, fmt.Errorf("creating lobby: %w", err)
	}
	cfg := server.Config{
		Port:          m.port,
		StopDur:       5 * time.Second,
		AllowedOrigin: m.allowedOrigin,
		Monitor:       m.monitor,
	}
	p := server.Parameters{
		Logger: log,
		Lobby:  l,
		Scores: d,
	}
	return cfg.NewServer(p)
}

// wordValidator loads the dictionary from the words file.
func wordValidator(m mainFlags) (*word.Validator, error) {
	f, err := os.Open(m.wordsFile)
	if err != nil {
		return nil, fmt.Errorf("trying to open words file: %w", err)
	}
	defer f.Close()
	return word.NewValidator(f)
}

// scoresDao creates the high-score dao on the backend the flags select.
func scoresDao(ctx context.Context, m mainFlags) (*scores.Dao, error) {
	b, err := scoresBackend(ctx, m)
	if err != nil {
		return nil, err
	}
	cfg := scores.DaoConfig{
		Backend:     b,
		QueryPeriod: 5 * time.Second,
	}
	return cfg.NewDao()
}

// scoresBackend creates the store the flags select and runs any one-time setup it needs.
func scoresBackend(ctx context.Context, m mainFlags) (scores.Backend, error) {
	switch m.scoresBackend {
	case "file":
		return scoresFile.NewBackend(m.scoresFile)
	case "postgres":
		if len(m.databaseURL) == 0 {
			return nil, fmt.Errorf("missing data-source uri")
		}
		db, err := sql.Open("postgres", m.databaseURL)
		if err != nil {
			return nil, fmt.Errorf("opening postgres database: %w", err)
		}
		b, err := scoresSQL.NewBackend(db)
		if err != nil {
			return nil, err
		}
		if err := b.Setup(ctx); err != nil {
			return nil, fmt.Errorf("setting up postgres backend: %w", err)
		}
		return b, nil
	case "mongo":
		if len(m.mongoURL) == 0 {
			return nil, fmt.Errorf("missing mongo-url uri")
		}
		b, err := scoresMongo.NewBackend(ctx, m.mongoURL)
		if err != nil {
			return nil, err
		}
		if err := b.Setup(ctx); err != nil {
			return nil, fmt.Errorf("setting up mongo backend: %w", err)
		}
		return b, nil
	case "firestore":
		if len(m.firestoreProjectID) == 0 {
			return nil, fmt.Errorf("missing firestore-project-id")
		}
		return scoresFirestore.NewBackend(ctx, m.firestoreProjectID)
	}
	return nil, fmt.Errorf("unknown scores backend: %q", m.scoresBackend)
}

// lobbyConfig creates the configuration for running games and the sockets connected to them.
func lobbyConfig(m mainFlags, log log.Logger, v *word.Validator, d *scores.Dao) lobby.Config {
	timeFunc := time.Now
	socketCfg := socket.Config{
		Debug:      m.debugGame,
		Log:        log,
		TimeFunc:   timeFunc,
		ReadWait:   60 * time.Second,
		WriteWait:  10 * time.Second,
		PingPeriod: 54 * time.Second, // readWait * 0.9
		IdlePeriod: 15 * time.Minute,
	}
	gameCfg := gameController.Config{
		Debug:      m.debugGame,
		Log:        log,
		TimeFunc:   timeFunc,
		MaxPlayers: 10,
		Words:      v,
		Scores:     d,
		Rand:       rand.New(rand.NewSource(timeFunc().UnixNano())),
	}
	cfg := lobby.Config{
		Debug:      m.debugGame,
		Log:        log,
		MaxLobbies: 32,
		SocketCfg:  socketCfg,
		GameCfg:    gameCfg,
	}
	return cfg
}
