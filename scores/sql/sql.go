// Package sql stores high-score records in a postgres table.
package sql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wordrush/wordrush/scores"
)

// Backend stores records in the high_scores table.
// The caller opens the *sql.DB with the postgres driver and owns its lifecycle.
type Backend struct {
	DB *sql.DB
}

// NewBackend creates a postgres backend on the open database.
func NewBackend(db *sql.DB) (*Backend, error) {
	if db == nil {
		return nil, fmt.Errorf("creating sql backend: database required")
	}
	b := Backend{
		DB: db,
	}
	return &b, nil
}

const setupQuery = `CREATE TABLE IF NOT EXISTS high_scores (
	addr TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	best_score INT NOT NULL,
	best_words_count INT NOT NULL,
	games_played INT NOT NULL,
	wins INT NOT NULL,
	challenges_completed INT NOT NULL,
	last_played TIMESTAMPTZ NOT NULL,
	best_game_date TIMESTAMPTZ NOT NULL
)`

// upsertQuery folds one game result into a record, only moving the best fields when the score improves.
const upsertQuery = `INSERT INTO high_scores
	(addr, username, best_score, best_words_count, games_played, wins, challenges_completed, last_played, best_game_date)
	VALUES ($1, $2, $3, $4, 1, $5, $6, $7, $7)
	ON CONFLICT (addr) DO UPDATE SET
	username = EXCLUDED.username,
	games_played = high_scores.games_played + 1,
	wins = high_scores.wins + EXCLUDED.wins,
	challenges_completed = high_scores.challenges_completed + EXCLUDED.challenges_completed,
	last_played = EXCLUDED.last_played,
	best_words_count = CASE WHEN EXCLUDED.best_score > high_scores.best_score
		THEN EXCLUDED.best_words_count ELSE high_scores.best_words_count END,
	best_game_date = CASE WHEN EXCLUDED.best_score > high_scores.best_score
		THEN EXCLUDED.best_game_date ELSE high_scores.best_game_date END,
	best_score = GREATEST(high_scores.best_score, EXCLUDED.best_score)`

const topQuery = `SELECT username, best_score, best_words_count, games_played, wins, challenges_completed, last_played, best_game_date
	FROM high_scores ORDER BY best_score DESC LIMIT $1`

const recordQuery = `SELECT username, best_score, best_words_count, games_played, wins, challenges_completed, last_played, best_game_date
	FROM high_scores WHERE addr = $1`

// Setup creates the high_scores table if it does not exist.
func (b *Backend) Setup(ctx context.Context) error {
	if _, err := b.DB.ExecContext(ctx, setupQuery); err != nil {
		return fmt.Errorf("creating high_scores table: %w", err)
	}
	return nil
}

// UpdateResults applies the game results in one transaction.
func (b *Backend) UpdateResults(ctx context.Context, results []scores.GameResult, now time.Time) error {
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	for _, res := range results {
		wins := 0
		if res.Winner {
			wins = 1
		}
		if _, err := tx.ExecContext(ctx, upsertQuery,
			res.Addr, res.Username, res.Score, res.WordsCount, wins, res.ChallengesCompleted, now); err != nil {
			err = fmt.Errorf("upserting high score for %v: %w", res.Username, err)
			if err2 := tx.Rollback(); err2 != nil {
				return fmt.Errorf("rolling back transaction due to %v: %w", err, err2)
			}
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Top returns the best n records by best score, descending.
func (b *Backend) Top(ctx context.Context, n int) ([]scores.Record, error) {
	rows, err := b.DB.QueryContext(ctx, topQuery, n)
	if err != nil {
		return nil, fmt.Errorf("querying top high scores: %w", err)
	}
	defer rows.Close()
	var records []scores.Record
	for rows.Next() {
		var r scores.Record
		if err := rows.Scan(&r.Username, &r.BestScore, &r.BestWordsCount, &r.GamesPlayed, &r.Wins,
			&r.ChallengesCompleted, &r.LastPlayed, &r.BestGameDate); err != nil {
			return nil, fmt.Errorf("scanning high score row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating high score rows: %w", err)
	}
	return records, nil
}

// Record returns the record for the remote address.
func (b *Backend) Record(ctx context.Context, addr string) (*scores.Record, error) {
	row := b.DB.QueryRowContext(ctx, recordQuery, addr)
	var r scores.Record
	if err := row.Scan(&r.Username, &r.BestScore, &r.BestWordsCount, &r.GamesPlayed, &r.Wins,
		&r.ChallengesCompleted, &r.LastPlayed, &r.BestGameDate); err != nil {
		if err == sql.ErrNoRows {
			return nil, scores.ErrNotFound
		}
		return nil, fmt.Errorf("reading high score record: %w", err)
	}
	return &r, nil
}
