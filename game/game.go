// Package game contains identifiers and the phase enum shared by the lobby runner, the connection broker, and wire messages.
package game

import "fmt"

type (
	// LobbyID is the short, human-shareable id of a lobby.
	LobbyID string

	// PlayerID is the opaque, client-supplied id of a player.  It is unique within a lobby.
	PlayerID string

	// Status is the phase of a lobby.
	Status int
)

const (
	_ Status = iota
	// Lobby is the phase where players join, configure the board size, and ready up.
	Lobby
	// Countdown is the 3-2-1 phase before play starts.
	Countdown
	// Playing is the phase where the main timer runs and words are accepted.
	Playing
	// Waiting is the sub-phase after the main timer ends in which players with bonus time continue to play.
	Waiting
	// Summary is the phase where final results are shown and players can vote to play again.
	Summary
)

// String returns the wire value for the status.
func (s Status) String() string {
	switch s {
	case Lobby:
		return "lobby"
	case Countdown:
		return "countdown"
	case Playing:
		return "playing"
	case Waiting:
		return "waiting"
	case Summary:
		return "summary"
	}
	return "?"
}

// MarshalJSON encodes the status as its wire string.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes the status from its wire string.
func (s *Status) UnmarshalJSON(b []byte) error {
	statuses := []Status{Lobby, Countdown, Playing, Waiting, Summary}
	for _, s2 := range statuses {
		if string(b) == `"`+s2.String()+`"` {
			*s = s2
			return nil
		}
	}
	return fmt.Errorf("unknown status: %s", b)
}
