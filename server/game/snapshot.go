package game

import (
	"github.com/wordrush/wordrush/game"
	"github.com/wordrush/wordrush/game/message"
	"github.com/wordrush/wordrush/game/powerup"
)

// snapshot composes the full lobby state for lobby_update and game_state events.
func (g *Game) snapshot() message.Snapshot {
	players := make([]message.PlayerInfo, len(g.players))
	for i, p := range g.players {
		players[i] = message.PlayerInfo{
			ID:             p.id,
			Username:       p.username,
			Character:      p.character,
			IsReady:        p.isReady,
			Score:          p.score,
			Powerups:       append([]powerup.Kind{}, p.powerups...),
			FoundWords:     append([]string{}, p.foundWords...),
			BonusTime:      p.bonusTime,
			IsTimeUp:       p.isTimeUp,
			WantsPlayAgain: p.wantsPlayAgain,
		}
	}
	s := message.Snapshot{
		LobbyID:    g.id,
		Status:     g.status,
		BoardSize:  g.boardSize,
		Timer:      g.timer,
		Players:    players,
		HostID:     g.hostID,
		Challenges: g.challenges,
	}
	if g.status != game.Lobby {
		s.Board = g.board
	}
	return s
}

// sendSnapshot sends the full lobby state with the message type.
// An empty player id broadcasts to the whole lobby.
func (g *Game) sendSnapshot(send messageSender, t message.Type, to game.PlayerID) {
	m, err := message.New(t, g.snapshot())
	if err != nil {
		g.Log.Printf("lobby %v marshalling snapshot: %v", g.id, err)
		return
	}
	m.PlayerID = to
	send(m)
}
