// Package scoring computes word point values from letter weights and length multipliers.
package scoring

import "strings"

// letterWeights maps each uppercase letter to its point weight.
var letterWeights = map[rune]int{
	'A': 1, 'E': 1, 'I': 1, 'O': 1, 'N': 1, 'R': 1, 'T': 1, 'L': 1, 'S': 1,
	'D': 2, 'G': 2, 'U': 2, 'C': 2, 'M': 2, 'P': 2, 'B': 2,
	'H': 3, 'F': 3, 'W': 3, 'Y': 3, 'V': 3, 'K': 3,
	'J': 5, 'X': 5,
	'Q': 8, 'Z': 8,
}

// uniqueBonus scales the score of words no other player found.
const uniqueBonus = 1.5

// lengthMultiplier returns the score multiplier for a word of the length.
// Words shorter than three letters score nothing.
func lengthMultiplier(length int) float64 {
	switch {
	case length < 3:
		return 0
	case length == 3:
		return 1.0
	case length == 4:
		return 1.2
	case length == 5:
		return 1.5
	case length == 6:
		return 2.0
	default:
		return 3.0
	}
}

// BaseScore sums the letter weights of the word and applies the length multiplier, truncating to an int.
func BaseScore(word string) int {
	w := strings.ToUpper(word)
	sum := 0
	for _, r := range w {
		sum += letterWeights[r]
	}
	return int(float64(sum) * lengthMultiplier(len(w)))
}

// Score computes the point value of the word.
// Unique words earn a 1.5x bonus on top of the base score, again truncated, but only when the base score is positive.
func Score(word string, unique bool) int {
	score := BaseScore(word)
	if unique && score > 0 {
		score = int(float64(score) * uniqueBonus)
	}
	return score
}
