package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	scoreTests := []struct {
		name   string
		word   string
		unique bool
		want   int
	}{
		{
			name: "three letters",
			word: "CAT", // 2+1+1 = 4, x1.0
			want: 4,
		},
		{
			name: "lowercase scores the same",
			word: "cat",
			want: 4,
		},
		{
			name: "four letters truncates",
			word: "QUIZ", // 8+2+1+8 = 19, x1.2 = 22.8
			want: 22,
		},
		{
			name:   "unique bonus truncates again",
			word:   "QUIZ", // 22 x1.5 = 33
			unique: true,
			want:   33,
		},
		{
			name: "five letters",
			word: "HORSE", // 3+1+1+1+1 = 7, x1.5 = 10.5
			want: 10,
		},
		{
			name: "six letters",
			word: "STREAM", // 1+1+1+1+1+2 = 7, x2.0
			want: 14,
		},
		{
			name: "seven letters and beyond",
			word: "JUKEBOX", // 5+2+3+1+2+1+5 = 19, x3.0
			want: 57,
		},
		{
			name: "too short scores zero",
			word: "AT",
		},
		{
			name:   "unique bonus skipped on zero score",
			word:   "AT",
			unique: true,
		},
		{
			name: "empty word",
		},
	}
	for _, test := range scoreTests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, Score(test.word, test.unique))
		})
	}
}

func TestBaseScore(t *testing.T) {
	assert.Equal(t, 4, BaseScore("CAT"))
	assert.Equal(t, 22, BaseScore("QUIZ"))
}
