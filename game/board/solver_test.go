package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapDictionary is a test Dictionary over a fixed word list.
type mapDictionary struct {
	words    map[string]struct{}
	prefixes map[string]struct{}
}

func newMapDictionary(words ...string) mapDictionary {
	d := mapDictionary{
		words:    make(map[string]struct{}, len(words)),
		prefixes: make(map[string]struct{}),
	}
	for _, w := range words {
		d.words[w] = struct{}{}
		for i := 1; i <= len(w); i++ {
			d.prefixes[w[:i]] = struct{}{}
		}
	}
	return d
}

func (d mapDictionary) Contains(word string) bool {
	_, ok := d.words[word]
	return ok
}

func (d mapDictionary) IsPrefix(s string) bool {
	_, ok := d.prefixes[s]
	return ok
}

func TestWords(t *testing.T) {
	b, err := New([][]string{
		{"C", "A", "T", "E"},
		{"O", "QU", "I", "N"},
		{"P", "Z", "R", "S"},
		{"L", "M", "D", "G"},
	})
	require.NoError(t, err)
	d := newMapDictionary(
		"CAT",  // top row
		"QUIT", // QU tile spells both characters
		"TEN",
		"COP",
		"TAT",  // would reuse the T cell
		"CATS", // S is not adjacent to T
		"AT",   // too short
		"DOG",  // letters not present together
	)
	want := []string{"CAT", "COP", "QUIT", "TEN"}
	assert.Equal(t, want, b.Words(d))
}

func TestWordsPrunesNonPrefixes(t *testing.T) {
	b, err := New([][]string{
		{"A", "B"},
		{"C", "D"},
	})
	require.NoError(t, err)
	d := newMapDictionary("XYZ")
	assert.Empty(t, b.Words(d))
}

func TestLongestWord(t *testing.T) {
	b, err := New([][]string{
		{"C", "A", "T", "E"},
		{"O", "QU", "I", "N"},
		{"P", "Z", "R", "S"},
		{"L", "M", "D", "G"},
	})
	require.NoError(t, err)
	longestWordTests := []struct {
		name  string
		words []string
		want  string
	}{
		{
			name:  "single longest",
			words: []string{"CAT", "QUIT"},
			want:  "QUIT",
		},
		{
			name:  "length tie breaks to greatest",
			words: []string{"CAT", "TEN"},
			want:  "TEN",
		},
		{
			name: "no words",
		},
	}
	for _, test := range longestWordTests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, b.LongestWord(newMapDictionary(test.words...)))
		})
	}
}
