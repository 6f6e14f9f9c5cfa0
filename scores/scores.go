// Package scores persists per-address high-score records so they survive server restarts.
package scores

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type (
	// Record is the all-time standing for one remote address.
	// The address is the storage key and is never included in client-facing payloads.
	Record struct {
		Username            string    `json:"username"`
		BestScore           int       `json:"best_score"`
		BestWordsCount      int       `json:"best_words_count"`
		GamesPlayed         int       `json:"games_played"`
		Wins                int       `json:"wins"`
		ChallengesCompleted int       `json:"challenges_completed"`
		LastPlayed          time.Time `json:"last_played"`
		BestGameDate        time.Time `json:"best_game_date"`
	}

	// GameResult is one player's outcome from a finished game.
	GameResult struct {
		Addr                string
		Username            string
		Score               int
		WordsCount          int
		Winner              bool
		ChallengesCompleted int
	}

	// Backend stores records.  Implementations exist for a JSON file, postgres, mongodb, and firestore.
	Backend interface {
		// UpdateResults applies the game results to the stored records atomically.
		UpdateResults(ctx context.Context, results []GameResult, now time.Time) error
		// Top returns the best n records by best score, descending.
		Top(ctx context.Context, n int) ([]Record, error)
		// Record returns the record for the remote address, or ErrNotFound.
		Record(ctx context.Context, addr string) (*Record, error)
	}

	// Dao wraps a backend with query timeouts and presentation logic.
	Dao struct {
		backend     Backend
		queryPeriod time.Duration
		timeFunc    func() time.Time
	}

	// DaoConfig contains commonly shared Dao properties.
	DaoConfig struct {
		// Backend stores the records.
		Backend Backend
		// QueryPeriod is the amount of time any backend action can take before it should timeout.
		QueryPeriod time.Duration
		// TimeFunc supplies the current time.  Defaults to time.Now.
		TimeFunc func() time.Time
	}

	// Stats is a caller's own standing, with a derived win rate.
	Stats struct {
		Record
		WinRate float64 `json:"win_rate"`
	}
)

// ErrNotFound is returned when no record exists for a remote address.
var ErrNotFound = errors.New("no record for address")

// maxLeaderboardSize caps leaderboard queries.
const maxLeaderboardSize = 50

// Apply folds the game result into the record.
// The best score, its word count, and its date only move when the new score beats the old one.
func (r *Record) Apply(res GameResult, now time.Time) {
	r.Username = res.Username
	r.GamesPlayed++
	r.LastPlayed = now
	r.ChallengesCompleted += res.ChallengesCompleted
	if res.Winner {
		r.Wins++
	}
	if res.Score > r.BestScore || r.GamesPlayed == 1 {
		r.BestScore = res.Score
		r.BestWordsCount = res.WordsCount
		r.BestGameDate = now
	}
}

// NewDao creates a Dao on the specified backend.
func (cfg DaoConfig) NewDao() (*Dao, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating scores dao: validation: %w", err)
	}
	timeFunc := cfg.TimeFunc
	if timeFunc == nil {
		timeFunc = time.Now
	}
	d := Dao{
		backend:     cfg.Backend,
		queryPeriod: cfg.QueryPeriod,
		timeFunc:    timeFunc,
	}
	return &d, nil
}

func (cfg DaoConfig) validate() error {
	switch {
	case cfg.Backend == nil:
		return fmt.Errorf("backend required")
	case cfg.QueryPeriod <= 0:
		return fmt.Errorf("positive query period required")
	}
	return nil
}

// UpdateResults records the outcome of a finished game for every player with a known address.
func (d Dao) UpdateResults(ctx context.Context, results []GameResult) error {
	keyed := make([]GameResult, 0, len(results))
	for _, res := range results {
		if len(res.Addr) != 0 {
			keyed = append(keyed, res)
		}
	}
	if len(keyed) == 0 {
		return nil
	}
	ctx, cancelFunc := context.WithTimeout(ctx, d.queryPeriod)
	defer cancelFunc()
	if err := d.backend.UpdateResults(ctx, keyed, d.timeFunc()); err != nil {
		return fmt.Errorf("updating high scores: %w", err)
	}
	return nil
}

// Leaderboard returns the top records by best score.  The count is clamped to 1-50.
func (d Dao) Leaderboard(ctx context.Context, n int) ([]Record, error) {
	if n <= 0 || n > maxLeaderboardSize {
		n = maxLeaderboardSize
	}
	ctx, cancelFunc := context.WithTimeout(ctx, d.queryPeriod)
	defer cancelFunc()
	records, err := d.backend.Top(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}
	return records, nil
}

// Stats returns the record for the remote address with its win rate, or ErrNotFound.
func (d Dao) Stats(ctx context.Context, addr string) (*Stats, error) {
	ctx, cancelFunc := context.WithTimeout(ctx, d.queryPeriod)
	defer cancelFunc()
	r, err := d.backend.Record(ctx, addr)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("reading stats: %w", err)
	}
	s := Stats{
		Record: *r,
	}
	if r.GamesPlayed > 0 {
		s.WinRate = float64(r.Wins) / float64(r.GamesPlayed) * 100
	}
	return &s, nil
}
