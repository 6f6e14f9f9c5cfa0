// Package game runs the lobby state machine: readying up, the countdown, the
// timed round with word submissions and powerups, the bonus-time waiting phase,
// and the summary.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/wordrush/wordrush/game"
	"github.com/wordrush/wordrush/game/board"
	"github.com/wordrush/wordrush/game/challenge"
	"github.com/wordrush/wordrush/game/message"
	"github.com/wordrush/wordrush/game/powerup"
	"github.com/wordrush/wordrush/game/scoring"
	"github.com/wordrush/wordrush/scores"
	"github.com/wordrush/wordrush/server/log"
)

type (
	// Game is one lobby and its game state.  All mutations happen on the Run goroutine.
	Game struct {
		id         game.LobbyID
		status     game.Status
		players    []*playerState
		hostID     game.PlayerID
		boardSize  int
		board      *board.Board
		timer      int
		challenges []challenge.Definition
		powerups   *powerup.State
		wordLog    []wordEntry
		handlers   map[message.Type]messageHandler
		Config
	}

	// Config contains the properties to create similar games.
	Config struct {
		// Debug is a flag that causes the game to log the types of messages that are read.
		Debug bool
		// Log is used to log errors and other information.
		Log log.Logger
		// TimeFunc is a function which should supply the current time.
		// Used for powerup expirations and high-score dates.
		TimeFunc func() time.Time
		// MaxPlayers is the maximum number of players that can be part of the game.
		MaxPlayers int
		// CountdownSeconds is the length of the pre-game countdown.
		CountdownSeconds int
		// TickPeriod is the length of one timer tick.  Tests shorten it.
		TickPeriod time.Duration
		// Words is the dictionary words are validated against.
		Words board.Dictionary
		// Scores records game results when a game ends.  May be nil.
		Scores Recorder
		// Rand is the source of randomness for boards and powerups.
		Rand *rand.Rand
		// GenerateBoardFunc creates a board of the size.  Tests inject fixed boards.
		GenerateBoardFunc func(size int) (*board.Board, error)
	}

	// Recorder persists game results.
	Recorder interface {
		UpdateResults(ctx context.Context, results []scores.GameResult) error
	}

	// playerState is the game's view of one player.
	playerState struct {
		id             game.PlayerID
		username       string
		character      string
		addr           string
		isReady        bool
		score          int
		powerups       []powerup.Kind
		foundWords     []string
		bonusTime      int
		isTimeUp       bool
		wantsPlayAgain bool
	}

	// wordEntry is one accepted word in submission order across all players.
	wordEntry struct {
		playerID game.PlayerID
		word     string
	}

	// messageHandler is a function which handles message.Messages, returning responses to the output channel.
	messageHandler func(ctx context.Context, m message.Message, send messageSender) error

	// messageSender is a function that sends a message somewhere.
	messageSender func(m message.Message)
)

const (
	defaultBoardSize       = 6
	mainTimerSmallBoard    = 120
	mainTimerLargeBoard    = 180
	powerupWordLength      = 5
	defaultCountdownLength = 3
)

// NewGame creates a new game for the lobby.
func (cfg Config) NewGame(id game.LobbyID) (*Game, error) {
	if err := cfg.validate(id); err != nil {
		return nil, fmt.Errorf("creating game: validation: %w", err)
	}
	if cfg.CountdownSeconds == 0 {
		cfg.CountdownSeconds = defaultCountdownLength
	}
	if cfg.TickPeriod == 0 {
		cfg.TickPeriod = time.Second
	}
	g := Game{
		id:        id,
		status:    game.Lobby,
		boardSize: defaultBoardSize,
		powerups:  powerup.NewState(cfg.TimeFunc),
		Config:    cfg,
	}
	if g.GenerateBoardFunc == nil {
		gen := board.NewGenerator(cfg.Rand)
		g.GenerateBoardFunc = gen.Generate
	}
	g.handlers = map[message.Type]messageHandler{
		message.Join:          g.handleJoin,
		message.Leave:         g.handleLeave,
		message.ToggleReady:   g.handleToggleReady,
		message.SetBoardSize:  g.handleSetBoardSize,
		message.SubmitWord:    g.handleSubmitWord,
		message.UsePowerup:    g.handleUsePowerup,
		message.WantPlayAgain: g.handleWantPlayAgain,
		message.ResetGame:     g.handleResetGame,
	}
	return &g, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(id game.LobbyID) error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case len(id) == 0:
		return fmt.Errorf("lobby id required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	case cfg.MaxPlayers <= 0:
		return fmt.Errorf("positive max player count required")
	case cfg.Words == nil:
		return fmt.Errorf("dictionary required")
	case cfg.Rand == nil:
		return fmt.Errorf("randomness source required")
	}
	return nil
}

// Run runs the game asynchronously until the context is closed or the last player leaves.
// The remove function is called exactly once when the game stops.
func (g *Game) Run(ctx context.Context, remove func(), in <-chan message.Message, out chan<- message.Message) {
	ticker := time.NewTicker(g.TickPeriod)
	send := g.sendMessage(out)
	go func() {
		defer ticker.Stop()
		defer remove()
		for { // BLOCKING
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				g.handleMessage(ctx, m, send)
				if len(g.players) == 0 && m.Type == message.Leave {
					return
				}
			case <-ticker.C:
				g.handleTick(ctx, send)
			}
		}
	}()
}

// sendMessage creates a messageSender that addresses messages to the lobby before sending them on the out channel.
func (g *Game) sendMessage(out chan<- message.Message) messageSender {
	return func(m message.Message) {
		m.LobbyID = g.id
		out <- m
	}
}

// handleMessage handles the message with the appropriate message handler.
// Warnings from word submissions are sent back to the submitter; other warnings are dropped.
func (g *Game) handleMessage(ctx context.Context, m message.Message, send messageSender) {
	if g.Debug {
		g.Log.Printf("lobby %v reading message with type %v", g.id, m.Type)
	}
	var err error
	if mh, ok := g.handlers[m.Type]; !ok {
		err = fmt.Errorf("lobby does not know how to handle MessageType %v", m.Type)
	} else if g.player(m.PlayerID) == nil && m.Type != message.Join {
		if m.Type == message.SubmitWord {
			err = gameWarning("player not found")
		} else {
			err = fmt.Errorf("lobby %v does not have player %v", g.id, m.PlayerID)
		}
	} else {
		err = mh(ctx, m, send)
	}
	if err != nil {
		var w gameWarning
		switch {
		case errors.As(err, &w):
			if m.Type == message.SubmitWord {
				g.sendWordResult(send, m.PlayerID, message.WordResultData{
					Valid:  false,
					Reason: string(w),
				})
			} else if g.Debug {
				g.Log.Printf("lobby %v warning for player %v: %v", g.id, m.PlayerID, w)
			}
		default:
			g.Log.Printf("lobby %v error: %v", g.id, err)
		}
	}
}

// player returns the player with the id, or nil.
func (g *Game) player(id game.PlayerID) *playerState {
	for _, p := range g.players {
		if p.id == id {
			return p
		}
	}
	return nil
}

// handleJoin adds the player to the game and announces the new roster.
// A join for a player id already in the game only refreshes that player's snapshot.
func (g *Game) handleJoin(ctx context.Context, m message.Message, send messageSender) error {
	if p := g.player(m.PlayerID); p != nil {
		g.sendSnapshot(send, message.LobbyUpdate, m.PlayerID)
		return nil
	}
	if len(g.players) >= g.MaxPlayers {
		// the broker enforces capacity before routing joins; kick stragglers
		send(message.Message{Type: message.Leave, PlayerID: m.PlayerID})
		return fmt.Errorf("no room for another player in lobby %v", g.id)
	}
	var data message.JoinData
	if err := m.Decode(&data); err != nil {
		return err
	}
	p := playerState{
		id:        m.PlayerID,
		username:  data.Username,
		character: data.Character,
		addr:      data.Addr,
	}
	g.players = append(g.players, &p)
	if len(g.players) == 1 {
		g.hostID = p.id
	}
	g.sendSnapshot(send, message.LobbyUpdate, m.PlayerID)
	g.sendSnapshot(send, message.LobbyUpdate, "")
	return nil
}

// handleLeave removes the player, reassigning the host if needed.
func (g *Game) handleLeave(ctx context.Context, m message.Message, send messageSender) error {
	for i, p := range g.players {
		if p.id == m.PlayerID {
			g.players = append(g.players[:i], g.players[i+1:]...)
			break
		}
	}
	g.powerups.RemovePlayer(m.PlayerID)
	if len(g.players) == 0 {
		return nil
	}
	if g.hostID == m.PlayerID {
		g.hostID = g.players[0].id
	}
	g.sendSnapshot(send, message.LobbyUpdate, "")
	return nil
}

// handleToggleReady flips the player's ready flag and starts the countdown when everyone is ready.
func (g *Game) handleToggleReady(ctx context.Context, m message.Message, send messageSender) error {
	if g.status != game.Lobby {
		return gameWarning("game already started")
	}
	p := g.player(m.PlayerID)
	p.isReady = !p.isReady
	g.sendSnapshot(send, message.LobbyUpdate, "")
	if g.allReady() {
		return g.startCountdown(send)
	}
	return nil
}

func (g *Game) allReady() bool {
	if len(g.players) == 0 {
		return false
	}
	for _, p := range g.players {
		if !p.isReady {
			return false
		}
	}
	return true
}

// startCountdown generates the board, attaches the challenge catalog, and begins the 3-2-1 countdown.
func (g *Game) startCountdown(send messageSender) error {
	b, err := g.GenerateBoardFunc(g.boardSize)
	if err != nil {
		return fmt.Errorf("generating board: %w", err)
	}
	g.board = b
	g.challenges = challenge.Catalog()
	g.status = game.Countdown
	g.timer = g.CountdownSeconds
	g.sendSnapshot(send, message.GameState, "")
	return nil
}

// handleSetBoardSize changes the board size.  Host only, lobby phase only.
func (g *Game) handleSetBoardSize(ctx context.Context, m message.Message, send messageSender) error {
	if g.status != game.Lobby {
		return gameWarning("board size can only change in the lobby")
	}
	if m.PlayerID != g.hostID {
		return gameWarning("only the host can change the board size")
	}
	var data message.SetBoardSizeData
	if err := m.Decode(&data); err != nil {
		return err
	}
	switch data.Size {
	case 4, 5, 6:
		g.boardSize = data.Size
	default:
		return gameWarning("board size must be 4, 5, or 6")
	}
	g.sendSnapshot(send, message.LobbyUpdate, "")
	return nil
}

// canPlay determines if the player may submit words and use powerups right now.
// Players burning bonus time in the waiting phase continue to play.
func (g *Game) canPlay(p *playerState) bool {
	switch g.status {
	case game.Playing:
		return true
	case game.Waiting:
		return p.bonusTime > 0 && !p.isTimeUp
	}
	return false
}

// handleSubmitWord validates the submission against the player's effective board and the dictionary.
func (g *Game) handleSubmitWord(ctx context.Context, m message.Message, send messageSender) error {
	p := g.player(m.PlayerID)
	if !g.canPlay(p) {
		return gameWarning("not in progress")
	}
	var data message.SubmitWordData
	if err := m.Decode(&data); err != nil {
		return err
	}
	word := strings.ToUpper(data.Word)
	for _, w := range p.foundWords {
		if w == word {
			return gameWarning("already found")
		}
	}
	playerBoard := g.powerups.PlayerBoard(p.id, *g.board)
	if !playerBoard.WordOnBoard(word, data.Path) {
		return gameWarning("not on board")
	}
	if !g.Words.Contains(word) {
		return gameWarning("not a word")
	}
	points := scoring.Score(word, false)
	p.score += points
	p.foundWords = append(p.foundWords, word)
	g.wordLog = append(g.wordLog, wordEntry{playerID: p.id, word: word})
	result := message.WordResultData{
		Valid:      true,
		Points:     points,
		TotalScore: p.score,
	}
	if len(word) >= powerupWordLength {
		earned := powerup.Award(g.Rand)
		p.powerups = append(p.powerups, earned)
		result.Powerup = earned
	}
	g.sendWordResult(send, p.id, result)
	scoreUpdate, err := message.New(message.ScoreUpdate, message.ScoreUpdateData{
		PlayerID: p.id,
		Score:    p.score,
		Powerup:  result.Powerup,
	})
	if err != nil {
		return err
	}
	send(scoreUpdate)
	return nil
}

// sendWordResult sends a personal word_result to the player.
func (g *Game) sendWordResult(send messageSender, id game.PlayerID, data message.WordResultData) {
	m, err := message.New(message.WordResult, data)
	if err != nil {
		g.Log.Printf("lobby %v marshalling word result: %v", g.id, err)
		return
	}
	m.PlayerID = id
	send(m)
}
