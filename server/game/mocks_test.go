package game

import (
	"context"
	"strings"

	"github.com/wordrush/wordrush/game/message"
	"github.com/wordrush/wordrush/scores"
)

// testDictionary is a Dictionary over a fixed word list.
type testDictionary map[string]struct{}

func newTestDictionary(words ...string) testDictionary {
	d := make(testDictionary, len(words))
	for _, w := range words {
		d[strings.ToUpper(w)] = struct{}{}
	}
	return d
}

func (d testDictionary) Contains(word string) bool {
	_, ok := d[strings.ToUpper(word)]
	return ok
}

func (d testDictionary) IsPrefix(s string) bool {
	for w := range d {
		if strings.HasPrefix(w, s) {
			return true
		}
	}
	return false
}

// messageCollector records every message a handler sends.
type messageCollector struct {
	messages []message.Message
}

func (c *messageCollector) send(m message.Message) {
	c.messages = append(c.messages, m)
}

// ofType returns the collected messages with the type, in order.
func (c *messageCollector) ofType(t message.Type) []message.Message {
	var matches []message.Message
	for _, m := range c.messages {
		if m.Type == t {
			matches = append(matches, m)
		}
	}
	return matches
}

func (c *messageCollector) reset() {
	c.messages = nil
}

// mockRecorder captures high-score updates.
type mockRecorder struct {
	updateResultsFunc func(ctx context.Context, results []scores.GameResult) error
}

func (m mockRecorder) UpdateResults(ctx context.Context, results []scores.GameResult) error {
	return m.updateResultsFunc(ctx, results)
}
