package game

import (
	"context"

	"github.com/wordrush/wordrush/game"
	"github.com/wordrush/wordrush/game/message"
)

// handleTick advances the countdown, the main timer, or the waiting-phase bonus timers.
func (g *Game) handleTick(ctx context.Context, send messageSender) {
	switch g.status {
	case game.Countdown:
		g.tickCountdown(send)
	case game.Playing:
		g.tickPlaying(ctx, send)
	case game.Waiting:
		g.tickWaiting(ctx, send)
	}
}

// tickCountdown counts 3-2-1, broadcasting the full state each second, then starts play.
func (g *Game) tickCountdown(send messageSender) {
	g.timer--
	if g.timer > 0 {
		g.sendSnapshot(send, message.GameState, "")
		return
	}
	g.status = game.Playing
	g.timer = mainTimer(g.boardSize)
	g.sendSnapshot(send, message.GameState, "")
}

// mainTimer returns the round length for the board size.
func mainTimer(size int) int {
	if size == 4 {
		return mainTimerSmallBoard
	}
	return mainTimerLargeBoard
}

// tickPlaying decrements the main timer.  At zero, players with banked bonus
// time enter the waiting phase; otherwise the game ends immediately.
func (g *Game) tickPlaying(ctx context.Context, send messageSender) {
	g.timer--
	m, err := message.New(message.TimerUpdate, message.TimerUpdateData{Timer: g.timer})
	if err != nil {
		g.Log.Printf("lobby %v marshalling timer update: %v", g.id, err)
	} else {
		send(m)
	}
	if g.timer > 0 {
		return
	}
	var finished []game.PlayerID
	var withBonus []message.PlayerBonus
	for _, p := range g.players {
		if p.bonusTime > 0 {
			withBonus = append(withBonus, message.PlayerBonus{
				PlayerID:  p.id,
				BonusTime: p.bonusTime,
			})
			continue
		}
		p.isTimeUp = true
		finished = append(finished, p.id)
	}
	if len(withBonus) == 0 {
		g.finalizeSummary(ctx, send)
		return
	}
	g.status = game.Waiting
	m, err = message.New(message.WaitingPhase, message.WaitingPhaseData{
		PlayersFinished:  finished,
		PlayersWithBonus: withBonus,
	})
	if err != nil {
		g.Log.Printf("lobby %v marshalling waiting phase: %v", g.id, err)
		return
	}
	send(m)
}

// tickWaiting burns one second of every active player's bonus time.
// Players reaching zero flip to time-up; when nobody is left the game ends.
func (g *Game) tickWaiting(ctx context.Context, send messageSender) {
	var remaining []message.PlayerBonus
	for _, p := range g.players {
		if p.isTimeUp || p.bonusTime == 0 {
			continue
		}
		p.bonusTime--
		if p.bonusTime == 0 {
			p.isTimeUp = true
			m, err := message.New(message.PlayerTimeUp, message.PlayerTimeUpData{PlayerID: p.id})
			if err != nil {
				g.Log.Printf("lobby %v marshalling player time up: %v", g.id, err)
				continue
			}
			send(m)
			continue
		}
		remaining = append(remaining, message.PlayerBonus{
			PlayerID:  p.id,
			BonusTime: p.bonusTime,
		})
	}
	if len(remaining) == 0 {
		g.finalizeSummary(ctx, send)
		return
	}
	m, err := message.New(message.BonusTimerUpdate, remaining)
	if err != nil {
		g.Log.Printf("lobby %v marshalling bonus timer update: %v", g.id, err)
		return
	}
	send(m)
}

// handleWantPlayAgain records a rematch vote and resets the lobby when everyone has voted.
func (g *Game) handleWantPlayAgain(ctx context.Context, m message.Message, send messageSender) error {
	if g.status != game.Summary {
		return gameWarning("game is not over")
	}
	p := g.player(m.PlayerID)
	p.wantsPlayAgain = true
	ready := make([]game.PlayerID, 0, len(g.players))
	allReady := true
	for _, p2 := range g.players {
		if p2.wantsPlayAgain {
			ready = append(ready, p2.id)
			continue
		}
		allReady = false
	}
	update, err := message.New(message.PlayAgainUpdate, message.PlayAgainUpdateData{
		PlayerID:     p.id,
		PlayersReady: ready,
		AllReady:     allReady,
	})
	if err != nil {
		return err
	}
	send(update)
	if allReady {
		g.resetLobby(send)
	}
	return nil
}

// handleResetGame lets the host force the lobby back from the summary.
func (g *Game) handleResetGame(ctx context.Context, m message.Message, send messageSender) error {
	if g.status != game.Summary {
		return gameWarning("game is not over")
	}
	if m.PlayerID != g.hostID {
		return gameWarning("only the host can reset the game")
	}
	g.resetLobby(send)
	return nil
}

// resetLobby returns the lobby to its pre-game state for a rematch.
func (g *Game) resetLobby(send messageSender) {
	g.status = game.Lobby
	g.board = nil
	g.timer = 0
	g.challenges = nil
	g.wordLog = nil
	g.powerups.Reset()
	for _, p := range g.players {
		p.isReady = false
		p.score = 0
		p.powerups = nil
		p.foundWords = nil
		p.bonusTime = 0
		p.isTimeUp = false
		p.wantsPlayAgain = false
	}
	g.sendSnapshot(send, message.LobbyUpdate, "")
}
