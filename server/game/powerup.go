package game

import (
	"context"
	"fmt"

	"github.com/wordrush/wordrush/game"
	"github.com/wordrush/wordrush/game/message"
	"github.com/wordrush/wordrush/game/powerup"
)

// handleUsePowerup consumes a powerup from the player's inventory and applies its effect.
// Using a powerup that is not held is silently ignored.
func (g *Game) handleUsePowerup(ctx context.Context, m message.Message, send messageSender) error {
	p := g.player(m.PlayerID)
	if !g.canPlay(p) {
		return gameWarning("not in progress")
	}
	var data message.UsePowerupData
	if err := m.Decode(&data); err != nil {
		return err
	}
	if !g.consumePowerup(p, data.Powerup) {
		return nil
	}
	consumed, err := message.New(message.PowerupConsumed, message.PowerupConsumedData{
		PlayerID: p.id,
		Powerups: append([]powerup.Kind{}, p.powerups...),
	})
	if err != nil {
		return err
	}
	send(consumed)
	switch data.Powerup {
	case powerup.Freeze:
		return g.applyFreeze(p, send)
	case powerup.Blowup:
		return g.applyBlowup(p, send)
	case powerup.Shuffle:
		return g.applyShuffle(p, send)
	case powerup.Lock:
		return g.applyLock(p, send)
	}
	return nil
}

// consumePowerup removes one instance of the kind from the player's inventory.
func (g *Game) consumePowerup(p *playerState, kind powerup.Kind) bool {
	for i, k := range p.powerups {
		if k == kind {
			p.powerups = append(p.powerups[:i], p.powerups[i+1:]...)
			return true
		}
	}
	return false
}

// applyFreeze credits the user with bonus time for the waiting phase.
func (g *Game) applyFreeze(p *playerState, send messageSender) error {
	p.bonusTime += powerup.FreezeBonusSeconds
	return g.sendPowerupEvent(send, message.PowerupEventData{
		Type:            string(powerup.Freeze),
		By:              p.id,
		DurationSeconds: powerup.FreezeBonusSeconds,
	})
}

// applyBlowup blocks four random cells for everyone.  Enforcement is up to clients.
func (g *Game) applyBlowup(p *playerState, send messageSender) error {
	cells := g.powerups.Block(*g.board, g.Rand)
	return g.sendPowerupEvent(send, message.PowerupEventData{
		Type:            string(powerup.Blowup),
		By:              p.id,
		BlockedCells:    cells,
		DurationSeconds: powerup.BlockDurationSeconds(),
	})
}

// applyShuffle regenerates the lobby board, promoting armed locks to per-player board overrides.
func (g *Game) applyShuffle(p *playerState, send messageSender) error {
	b, err := g.GenerateBoardFunc(g.boardSize)
	if err != nil {
		return fmt.Errorf("generating shuffled board: %w", err)
	}
	protected := g.powerups.ConsumeLocks()
	g.board = b
	protectedPlayers := make([]game.PlayerID, 0, len(protected))
	for _, p2 := range g.players {
		if _, ok := protected[p2.id]; ok {
			protectedPlayers = append(protectedPlayers, p2.id)
		}
	}
	update, err := message.New(message.BoardUpdate, message.BoardUpdateData{
		Board:            *b,
		ProtectedPlayers: protectedPlayers,
		ProtectedBoards:  protected,
		ShuffledBy:       p.id,
	})
	if err != nil {
		return err
	}
	send(update)
	return g.sendPowerupEvent(send, message.PowerupEventData{
		Type: string(powerup.Shuffle),
		By:   p.id,
	})
}

// applyLock snapshots the user's current board view.  The lock takes effect at the next shuffle.
func (g *Game) applyLock(p *playerState, send messageSender) error {
	g.powerups.ArmLock(p.id, g.powerups.PlayerBoard(p.id, *g.board))
	return g.sendPowerupEvent(send, message.PowerupEventData{
		Type: "lock_armed",
		By:   p.id,
	})
}

func (g *Game) sendPowerupEvent(send messageSender, data message.PowerupEventData) error {
	m, err := message.New(message.PowerupEvent, data)
	if err != nil {
		return err
	}
	send(m)
	return nil
}
