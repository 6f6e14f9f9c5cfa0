// Package firestore stores high-score records in a google cloud firestore collection.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/wordrush/wordrush/scores"
)

const bestScoreField = "best_score"

// Backend is a backend manager for the high_scores collection.
// Documents are keyed by remote address.
type Backend struct {
	client *firestore.Client
}

// record is the stored form of a scores.Record.
type record struct {
	Username            string    `firestore:"username"`
	BestScore           int       `firestore:"best_score"`
	BestWordsCount      int       `firestore:"best_words_count"`
	GamesPlayed         int       `firestore:"games_played"`
	Wins                int       `firestore:"wins"`
	ChallengesCompleted int       `firestore:"challenges_completed"`
	LastPlayed          time.Time `firestore:"last_played"`
	BestGameDate        time.Time `firestore:"best_game_date"`
}

// NewBackend creates a backend manager for high scores in the project.
func NewBackend(ctx context.Context, projectID string) (*Backend, error) {
	client, err := firestore.NewClient(ctx, projectID) // do not timeout context - the client is used by the backend
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	b := Backend{
		client: client,
	}
	return &b, nil
}

func (b *Backend) highScoresCollection() *firestore.CollectionRef {
	return b.client.Collection("services").Doc("wordrush").Collection("high_scores")
}

// UpdateResults applies the game results in a transaction so concurrent summaries do not lose updates.
func (b *Backend) UpdateResults(ctx context.Context, results []scores.GameResult, now time.Time) error {
	err := b.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		highScores := b.highScoresCollection()
		updates := make(map[*firestore.DocumentRef]record, len(results))
		for _, res := range results {
			docRef := highScores.Doc(res.Addr)
			var r scores.Record
			snapshot, err := tx.Get(docRef)
			switch {
			case err == nil:
				var stored record
				if err := snapshot.DataTo(&stored); err != nil {
					return err
				}
				r = stored.toRecord()
			case status.Code(err) != codes.NotFound:
				return err
			}
			r.Apply(res, now)
			updates[docRef] = newRecord(r)
		}
		for docRef, stored := range updates {
			if err := tx.Set(docRef, stored); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("updating high scores: %w", err)
	}
	return nil
}

// Top returns the best n records by best score, descending.
func (b *Backend) Top(ctx context.Context, n int) ([]scores.Record, error) {
	query := b.highScoresCollection().OrderBy(bestScoreField, firestore.Desc).Limit(n)
	snapshots, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("querying top high scores: %w", err)
	}
	records := make([]scores.Record, 0, len(snapshots))
	for _, snapshot := range snapshots {
		var stored record
		if err := snapshot.DataTo(&stored); err != nil {
			return nil, fmt.Errorf("decoding high score document: %w", err)
		}
		records = append(records, stored.toRecord())
	}
	return records, nil
}

// Record returns the record for the remote address.
func (b *Backend) Record(ctx context.Context, addr string) (*scores.Record, error) {
	snapshot, err := b.highScoresCollection().Doc(addr).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, scores.ErrNotFound
		}
		return nil, fmt.Errorf("reading high score record: %w", err)
	}
	var stored record
	if err := snapshot.DataTo(&stored); err != nil {
		return nil, fmt.Errorf("decoding high score document: %w", err)
	}
	r := stored.toRecord()
	return &r, nil
}

func (stored record) toRecord() scores.Record {
	return scores.Record{
		Username:            stored.Username,
		BestScore:           stored.BestScore,
		BestWordsCount:      stored.BestWordsCount,
		GamesPlayed:         stored.GamesPlayed,
		Wins:                stored.Wins,
		ChallengesCompleted: stored.ChallengesCompleted,
		LastPlayed:          stored.LastPlayed,
		BestGameDate:        stored.BestGameDate,
	}
}

func newRecord(r scores.Record) record {
	return record{
		Username:            r.Username,
		BestScore:           r.BestScore,
		BestWordsCount:      r.BestWordsCount,
		GamesPlayed:         r.GamesPlayed,
		Wins:                r.Wins,
		ChallengesCompleted: r.ChallengesCompleted,
		LastPlayed:          r.LastPlayed,
		BestGameDate:        r.BestGameDate,
	}
}
