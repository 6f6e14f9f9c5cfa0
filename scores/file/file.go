// Package file stores high-score records in a single JSON file.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/wordrush/wordrush/scores"
)

// Backend reads and writes a JSON file mapping remote address to record.
// Writes go through a temp file and a rename so a crash never leaves a torn file.
type Backend struct {
	mu   sync.Mutex
	path string
}

// NewBackend creates a file backend at the path, creating the parent directory if needed.
func NewBackend(path string) (*Backend, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("creating file backend: path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating high scores directory: %w", err)
	}
	b := Backend{
		path: path,
	}
	return &b, nil
}

// UpdateResults applies the game results under the file lock.
func (b *Backend) UpdateResults(ctx context.Context, results []scores.GameResult, now time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	records, err := b.load()
	if err != nil {
		return err
	}
	for _, res := range results {
		r := records[res.Addr]
		r.Apply(res, now)
		records[res.Addr] = r
	}
	return b.save(records)
}

// Top returns the best n records by best score, descending.
func (b *Backend) Top(ctx context.Context, n int) ([]scores.Record, error) {
	b.mu.Lock()
	records, err := b.load()
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}
	all := make([]scores.Record, 0, len(records))
	for _, r := range records {
		all = append(all, r)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].BestScore > all[j].BestScore
	})
	if n < len(all) {
		all = all[:n]
	}
	return all, nil
}

// Record returns the record for the remote address.
func (b *Backend) Record(ctx context.Context, addr string) (*scores.Record, error) {
	b.mu.Lock()
	records, err := b.load()
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}
	r, ok := records[addr]
	if !ok {
		return nil, scores.ErrNotFound
	}
	return &r, nil
}

func (b *Backend) load() (map[string]scores.Record, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]scores.Record), nil
		}
		return nil, fmt.Errorf("reading high scores file: %w", err)
	}
	records := make(map[string]scores.Record)
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshalling high scores file: %w", err)
	}
	return records, nil
}

func (b *Backend) save(records map[string]scores.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling high scores: %w", err)
	}
	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing high scores temp file: %w", err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("replacing high scores file: %w", err)
	}
	return nil
}
