// Package message defines the wire frames exchanged between clients and the server
// and the internal messages that coordinate sockets, the broker, and games.
package message

import (
	"encoding/json"
	"fmt"

	"github.com/wordrush/wordrush/game"
	"github.com/wordrush/wordrush/game/board"
	"github.com/wordrush/wordrush/game/challenge"
	"github.com/wordrush/wordrush/game/powerup"
)

// Type identifies the purpose of a message.
type Type string

// Intent messages, sent by clients.
const (
	ToggleReady   Type = "toggle_ready"
	SetBoardSize  Type = "set_board_size"
	SubmitWord    Type = "submit_word"
	UsePowerup    Type = "use_powerup"
	WantPlayAgain Type = "want_play_again"
	ResetGame     Type = "reset_game"
)

// Event messages, sent by the server.
const (
	LobbyUpdate      Type = "lobby_update"
	GameState        Type = "game_state"
	TimerUpdate      Type = "timer_update"
	BonusTimerUpdate Type = "bonus_timer_update"
	WaitingPhase     Type = "waiting_phase"
	PlayerTimeUp     Type = "player_time_up"
	WordResult       Type = "word_result"
	ScoreUpdate      Type = "score_update"
	PowerupConsumed  Type = "powerup_consumed"
	PowerupEvent     Type = "powerup_event"
	BoardUpdate      Type = "board_update"
	PlayAgainUpdate  Type = "play_again_update"
	GameEnd          Type = "game_end"
)

// Lifecycle messages, created by the server when connections come and go.  Never sent on the wire.
const (
	Join  Type = "join"
	Leave Type = "leave"
)

// Message is a frame routed between sockets and games.
// LobbyID and PlayerID address the message inside the server and are not marshalled.
type Message struct {
	Type Type            `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`

	LobbyID  game.LobbyID  `json:"-"`
	PlayerID game.PlayerID `json:"-"`
}

// New creates a message of the type with the marshalled payload.
func New(t Type, v interface{}) (Message, error) {
	m := Message{
		Type: t,
	}
	if v == nil {
		return m, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return Message{}, fmt.Errorf("marshalling %v data: %w", t, err)
	}
	m.Data = data
	return m, nil
}

// Decode unmarshals the message payload into v.
func (m Message) Decode(v interface{}) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("%v message has no data", m.Type)
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("unmarshalling %v data: %w", m.Type, err)
	}
	return nil
}

type (
	// JoinData carries the identity a connection presented when it joined.
	JoinData struct {
		Username  string `json:"username"`
		Character string `json:"character"`
		Addr      string `json:"addr,omitempty"`
	}

	// SetBoardSizeData is the host's board size choice.
	SetBoardSizeData struct {
		Size int `json:"size"`
	}

	// SubmitWordData is a word submission with the path that spells it.
	SubmitWordData struct {
		Word string       `json:"word"`
		Path []board.Cell `json:"path"`
	}

	// UsePowerupData names the powerup a player wants to use.
	UsePowerupData struct {
		Powerup powerup.Kind `json:"powerup"`
	}

	// WordResultData is the personal verdict on a submission.
	WordResultData struct {
		Valid      bool         `json:"valid"`
		Reason     string       `json:"reason,omitempty"`
		Points     int          `json:"points,omitempty"`
		Powerup    powerup.Kind `json:"powerup,omitempty"`
		TotalScore int          `json:"total_score,omitempty"`
	}

	// ScoreUpdateData broadcasts a player's new score after a valid word.
	ScoreUpdateData struct {
		PlayerID game.PlayerID `json:"player_id"`
		Score    int           `json:"score"`
		Powerup  powerup.Kind  `json:"powerup,omitempty"`
	}

	// TimerUpdateData is the remaining main-timer seconds.
	TimerUpdateData struct {
		Timer int `json:"timer"`
	}

	// PlayerBonus is one player's remaining bonus time.
	PlayerBonus struct {
		PlayerID  game.PlayerID `json:"player_id"`
		BonusTime int           `json:"bonus_time"`
	}

	// WaitingPhaseData announces the split between finished players and players burning bonus time.
	WaitingPhaseData struct {
		PlayersFinished  []game.PlayerID `json:"players_finished"`
		PlayersWithBonus []PlayerBonus   `json:"players_with_bonus"`
	}

	// PlayerTimeUpData announces that a player ran out of bonus time.
	PlayerTimeUpData struct {
		PlayerID game.PlayerID `json:"player_id"`
	}

	// PowerupConsumedData is a player's remaining inventory after using a powerup.
	PowerupConsumedData struct {
		PlayerID game.PlayerID  `json:"player_id"`
		Powerups []powerup.Kind `json:"powerups"`
	}

	// PowerupEventData describes a powerup effect to the lobby.
	// Type is the powerup kind, or "lock_armed" when a lock is armed.
	PowerupEventData struct {
		Type            string        `json:"type"`
		By              game.PlayerID `json:"by"`
		BlockedCells    []board.Cell  `json:"blocked_cells,omitempty"`
		DurationSeconds int           `json:"duration_seconds,omitempty"`
	}

	// BoardUpdateData announces a shuffled board and the players whose locks kept their old one.
	BoardUpdateData struct {
		Board            board.Board                   `json:"board"`
		ProtectedPlayers []game.PlayerID               `json:"protected_players"`
		ProtectedBoards  map[game.PlayerID]board.Board `json:"protected_boards,omitempty"`
		ShuffledBy       game.PlayerID                 `json:"shuffled_by"`
	}

	// PlayAgainUpdateData tracks who wants a rematch.
	PlayAgainUpdateData struct {
		PlayerID     game.PlayerID   `json:"player_id"`
		PlayersReady []game.PlayerID `json:"players_ready"`
		AllReady     bool            `json:"all_ready"`
	}

	// PlayerInfo is the public view of a player in lobby snapshots.
	PlayerInfo struct {
		ID             game.PlayerID  `json:"id"`
		Username       string         `json:"username"`
		Character      string         `json:"character"`
		IsReady        bool           `json:"is_ready"`
		Score          int            `json:"score"`
		Powerups       []powerup.Kind `json:"powerups"`
		FoundWords     []string       `json:"found_words"`
		BonusTime      int            `json:"bonus_time"`
		IsTimeUp       bool           `json:"is_time_up"`
		WantsPlayAgain bool           `json:"wants_play_again"`
	}

	// Snapshot is the full lobby state sent in lobby_update and game_state events.
	Snapshot struct {
		LobbyID    game.LobbyID           `json:"lobby_id"`
		Status     game.Status            `json:"status"`
		Board      *board.Board           `json:"board,omitempty"`
		BoardSize  int                    `json:"board_size"`
		Timer      int                    `json:"timer"`
		Players    []PlayerInfo           `json:"players"`
		HostID     game.PlayerID          `json:"host_id"`
		Challenges []challenge.Definition `json:"challenges,omitempty"`
	}

	// PlayerResult is one row of the final standings.
	PlayerResult struct {
		PlayerID            game.PlayerID      `json:"player_id"`
		Username            string             `json:"username"`
		Character           string             `json:"character"`
		Score               int                `json:"score"`
		Words               []string           `json:"words"`
		Challenges          []challenge.Result `json:"challenges"`
		BestChallenge       *challenge.Result  `json:"best_challenge,omitempty"`
		ChallengesCompleted int                `json:"challenges_completed"`
		ChallengePoints     int                `json:"challenge_points"`
	}

	// WordAward is one found word with its final value, revealed in length order.
	WordAward struct {
		PlayerID game.PlayerID `json:"player_id"`
		Word     string        `json:"word"`
		Points   int           `json:"points"`
		Unique   bool          `json:"unique"`
	}

	// LongestFound names the longest word any player found.
	LongestFound struct {
		PlayerID game.PlayerID `json:"player_id"`
		Word     string        `json:"word"`
	}

	// GameEndData is the summary payload.
	GameEndData struct {
		Results             []PlayerResult `json:"results"`
		Winner              *PlayerResult  `json:"winner,omitempty"`
		WordAwards          []WordAward    `json:"word_awards"`
		LongestPossibleWord string         `json:"longest_possible_word"`
		LongestFound        *LongestFound  `json:"longest_found,omitempty"`
		TotalFindableWords  int            `json:"total_findable_words"`
		AllFindableWords    []string       `json:"all_findable_words"`
	}
)
