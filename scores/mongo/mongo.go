// Package mongo stores high-score records in a mongodb collection.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wordrush/wordrush/scores"
)

const (
	databaseName   = "wordrush-db"
	collectionName = "high_scores"
	addrField      = "addr"
	bestScoreField = "best_score"
)

// Backend is a backend manager for the high_scores collection.
type Backend struct {
	HighScores *mongo.Collection
}

// record is the stored form of a scores.Record, keyed by remote address.
type record struct {
	Addr                string    `bson:"addr"`
	Username            string    `bson:"username"`
	BestScore           int       `bson:"best_score"`
	BestWordsCount      int       `bson:"best_words_count"`
	GamesPlayed         int       `bson:"games_played"`
	Wins                int       `bson:"wins"`
	ChallengesCompleted int       `bson:"challenges_completed"`
	LastPlayed          time.Time `bson:"last_played"`
	BestGameDate        time.Time `bson:"best_game_date"`
}

// NewBackend connects to mongodb at the url and creates a backend manager for the high_scores collection.
func NewBackend(ctx context.Context, databaseURL string) (*Backend, error) {
	clientOptions := options.Client()
	clientOptions.ApplyURI(databaseURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	b := Backend{
		HighScores: client.Database(databaseName).Collection(collectionName),
	}
	return &b, nil
}

// Setup creates the unique address index.
func (b *Backend) Setup(ctx context.Context) error {
	indexOptions := options.Index()
	indexOptions.SetUnique(true)
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: addrField, Value: 1}},
		Options: indexOptions,
	}
	if _, err := b.HighScores.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("creating unique address index: %w", err)
	}
	return nil
}

// UpdateResults applies each game result with a read-modify-write upsert.
func (b *Backend) UpdateResults(ctx context.Context, results []scores.GameResult, now time.Time) error {
	for _, res := range results {
		if err := b.updateResult(ctx, res, now); err != nil {
			return err
		}
	}
	return nil
}

func (b *Backend) updateResult(ctx context.Context, res scores.GameResult, now time.Time) error {
	filter := bson.D{{Key: addrField, Value: res.Addr}}
	var stored record
	var r scores.Record
	err := b.HighScores.FindOne(ctx, filter).Decode(&stored)
	switch {
	case err == nil:
		r = stored.toRecord()
	case err != mongo.ErrNoDocuments:
		return fmt.Errorf("reading high score for update: %w", err)
	}
	r.Apply(res, now)
	replaceOptions := options.Replace()
	replaceOptions.SetUpsert(true)
	if _, err := b.HighScores.ReplaceOne(ctx, filter, newRecord(res.Addr, r), replaceOptions); err != nil {
		return fmt.Errorf("upserting high score for %v: %w", res.Username, err)
	}
	return nil
}

// Top returns the best n records by best score, descending.
func (b *Backend) Top(ctx context.Context, n int) ([]scores.Record, error) {
	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: bestScoreField, Value: -1}})
	findOptions.SetLimit(int64(n))
	cursor, err := b.HighScores.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("querying top high scores: %w", err)
	}
	defer cursor.Close(ctx)
	var records []scores.Record
	for cursor.Next(ctx) {
		var stored record
		if err := cursor.Decode(&stored); err != nil {
			return nil, fmt.Errorf("decoding high score document: %w", err)
		}
		records = append(records, stored.toRecord())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating high score documents: %w", err)
	}
	return records, nil
}

// Record returns the record for the remote address.
func (b *Backend) Record(ctx context.Context, addr string) (*scores.Record, error) {
	filter := bson.D{{Key: addrField, Value: addr}}
	var stored record
	if err := b.HighScores.FindOne(ctx, filter).Decode(&stored); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, scores.ErrNotFound
		}
		return nil, fmt.Errorf("reading high score record: %w", err)
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

func newRecord(addr string, r scores.Record) record {
	return record{
		Addr:                addr,
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
