// Package powerup tracks per-lobby timed powerup effects and per-player armed locks.
package powerup

import (
	"math/rand"
	"time"

	"github.com/wordrush/wordrush/game"
	"github.com/wordrush/wordrush/game/board"
)

// Kind identifies a powerup.
type Kind string

// The powerup kinds.
const (
	Freeze  Kind = "freeze"
	Blowup  Kind = "blowup"
	Shuffle Kind = "shuffle"
	Lock    Kind = "lock"
)

// FreezeBonusSeconds is the bonus time a FREEZE credits its user with.
const FreezeBonusSeconds = 10

const (
	blockedCellCount = 4
	blockDuration    = 8 * time.Second
)

// awardable lists the kinds earned from long words.  LOCK enters inventories only by other means.
var awardable = []Kind{Freeze, Blowup, Shuffle}

// Award samples a powerup to grant for a long valid word.
func Award(r *rand.Rand) Kind {
	return awardable[r.Intn(len(awardable))]
}

// Valid determines if the kind is a known powerup.
func (k Kind) Valid() bool {
	switch k {
	case Freeze, Blowup, Shuffle, Lock:
		return true
	}
	return false
}

// State holds the timed effects and lock snapshots for one lobby.
// It is not safe for concurrent use; the owning game serializes access.
type State struct {
	blocked      []board.Cell
	blockedUntil time.Time
	armed        map[game.PlayerID]board.Board
	overrides    map[game.PlayerID]board.Board
	now          func() time.Time
}

// NewState creates powerup state for a lobby.
// If now is nil, time.Now is used.
func NewState(now func() time.Time) *State {
	if now == nil {
		now = time.Now
	}
	s := State{
		armed:     make(map[game.PlayerID]board.Board),
		overrides: make(map[game.PlayerID]board.Board),
		now:       now,
	}
	return &s
}

// Block picks distinct random cells on the board and marks them blocked for the block duration.
// The cells are advisory; word validation does not consult them.
func (s *State) Block(b board.Board, r *rand.Rand) []board.Cell {
	all := make([]board.Cell, 0, b.Size*b.Size)
	for row := 0; row < b.Size; row++ {
		for col := 0; col < b.Size; col++ {
			all = append(all, board.Cell{Row: row, Col: col})
		}
	}
	r.Shuffle(len(all), func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})
	n := blockedCellCount
	if n > len(all) {
		n = len(all)
	}
	s.blocked = all[:n]
	s.blockedUntil = s.now().Add(blockDuration)
	return s.blocked
}

// BlockedCells returns the blocked cells if the blockout is still active.
func (s *State) BlockedCells() []board.Cell {
	if s.now().Before(s.blockedUntil) {
		return s.blocked
	}
	return nil
}

// BlockDurationSeconds is the advertised lifetime of a blockout.
func BlockDurationSeconds() int {
	return int(blockDuration / time.Second)
}

// ArmLock snapshots the player's current board view.
// The snapshot takes effect as a board override at the next shuffle.
// Re-arming replaces the previous snapshot.
func (s *State) ArmLock(id game.PlayerID, b board.Board) {
	s.armed[id] = b.Copy()
}

// HasArmedLock determines if the player has a lock waiting for a shuffle.
func (s *State) HasArmedLock(id game.PlayerID) bool {
	_, ok := s.armed[id]
	return ok
}

// ConsumeLocks promotes every armed lock to a board override and clears the armed set.
// It returns the promoted snapshots by player.  Overrides from earlier shuffles
// are dropped for players without a freshly armed lock.
func (s *State) ConsumeLocks() map[game.PlayerID]board.Board {
	protected := s.armed
	s.armed = make(map[game.PlayerID]board.Board)
	s.overrides = protected
	return protected
}

// PlayerBoard returns the board the player's submissions are validated against.
// Players protected by a lock keep their saved board; everyone else uses the lobby board.
func (s *State) PlayerBoard(id game.PlayerID, lobby board.Board) board.Board {
	if b, ok := s.overrides[id]; ok {
		return b
	}
	return lobby
}

// RemovePlayer drops the player's lock state.
func (s *State) RemovePlayer(id game.PlayerID) {
	delete(s.armed, id)
	delete(s.overrides, id)
}

// Reset clears all effects, preparing the lobby for a new game.
func (s *State) Reset() {
	s.blocked = nil
	s.blockedUntil = time.Time{}
	s.armed = make(map[game.PlayerID]board.Board)
	s.overrides = make(map[game.PlayerID]board.Board)
}
