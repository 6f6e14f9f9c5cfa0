// Package challenge defines the fixed catalog of per-game challenges and evaluates player progress against them.
package challenge

import (
	"sort"
	"strings"
)

type (
	// Challenge pairs a progress predicate with its target and completion award.
	// Progress is a pure function of a player's found words and score, so challenges carry no per-player state.
	Challenge struct {
		ID          string
		Name        string
		Description string
		Target      int
		Points      int
		Category    string
		progress    func(words []string, score int) int
	}

	// Definition is the client-facing view of a challenge, sent when a game starts.
	Definition struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Target      int    `json:"target"`
		Points      int    `json:"points"`
		Category    string `json:"category"`
	}

	// Result is a player's progress on one challenge at evaluation time.
	Result struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Target      int     `json:"target"`
		Category    string  `json:"category"`
		Progress    int     `json:"progress"`
		Ratio       float64 `json:"ratio"`
		Completed   bool    `json:"completed"`
		Points      int     `json:"points"`
	}
)

// Challenge categories.
const (
	CategoryWords   = "words"
	CategoryLetters = "letters"
	CategoryScore   = "score"
	CategorySpecial = "special"
)

const vowels = "AEIOU"

const rareLetters = "QXZJ"

func wordCount(words []string, _ int) int {
	return len(words)
}

func minLength(n int) func([]string, int) int {
	return func(words []string, _ int) int {
		count := 0
		for _, w := range words {
			if len(w) >= n {
				count++
			}
		}
		return count
	}
}

func startsWith(letter string) func([]string, int) int {
	return func(words []string, _ int) int {
		count := 0
		for _, w := range words {
			if strings.HasPrefix(strings.ToUpper(w), letter) {
				count++
			}
		}
		return count
	}
}

func endsWith(suffix string) func([]string, int) int {
	return func(words []string, _ int) int {
		count := 0
		for _, w := range words {
			if strings.HasSuffix(strings.ToUpper(w), suffix) {
				count++
			}
		}
		return count
	}
}

func contains(letter string) func([]string, int) int {
	return func(words []string, _ int) int {
		count := 0
		for _, w := range words {
			if strings.Contains(strings.ToUpper(w), letter) {
				count++
			}
		}
		return count
	}
}

func totalScore(_ []string, score int) int {
	return score
}

func doubleLetters(words []string, _ int) int {
	count := 0
	for _, word := range words {
		w := strings.ToUpper(word)
		for i := 0; i+1 < len(w); i++ {
			if w[i] == w[i+1] {
				count++
				break
			}
		}
	}
	return count
}

func palindromes(words []string, _ int) int {
	count := 0
	for _, word := range words {
		w := strings.ToUpper(word)
		if len(w) < 3 {
			continue
		}
		ok := true
		for i, j := 0, len(w)-1; i < j; i, j = i+1, j-1 {
			if w[i] != w[j] {
				ok = false
				break
			}
		}
		if ok {
			count++
		}
	}
	return count
}

func vowelHeavy(minVowels int) func([]string, int) int {
	return func(words []string, _ int) int {
		count := 0
		for _, word := range words {
			n := 0
			for _, c := range strings.ToUpper(word) {
				if strings.ContainsRune(vowels, c) {
					n++
				}
			}
			if n >= minVowels {
				count++
			}
		}
		return count
	}
}

func consonantRun(words []string, _ int) int {
	count := 0
	for _, word := range words {
		streak, maxStreak := 0, 0
		for _, c := range strings.ToUpper(word) {
			if strings.ContainsRune(vowels, c) {
				streak = 0
				continue
			}
			streak++
			if streak > maxStreak {
				maxStreak = streak
			}
		}
		if maxStreak >= 4 {
			count++
		}
	}
	return count
}

func rareLetter(words []string, _ int) int {
	count := 0
	for _, w := range words {
		if strings.ContainsAny(strings.ToUpper(w), rareLetters) {
			count++
		}
	}
	return count
}

// catalog is the fixed challenge set.  Every game attaches all of it.
var catalog = []Challenge{
	{ID: "words_10", Name: "Word Collector", Description: "Find 10 words", Target: 10, Points: 10, Category: CategoryWords, progress: wordCount},
	{ID: "words_20", Name: "Vocabulary Master", Description: "Find 20 words", Target: 20, Points: 20, Category: CategoryWords, progress: wordCount},
	{ID: "words_30", Name: "Word Wizard", Description: "Find 30 words", Target: 30, Points: 30, Category: CategoryWords, progress: wordCount},
	{ID: "long_4", Name: "Going Long", Description: "Find 5 words with 4+ letters", Target: 5, Points: 10, Category: CategoryWords, progress: minLength(4)},
	{ID: "long_5", Name: "Extended Edition", Description: "Find 4 words with 5+ letters", Target: 4, Points: 15, Category: CategoryWords, progress: minLength(5)},
	{ID: "long_6", Name: "Lengthy Lexicon", Description: "Find 3 words with 6+ letters", Target: 3, Points: 20, Category: CategoryWords, progress: minLength(6)},
	{ID: "long_7", Name: "Marathon Words", Description: "Find 2 words with 7+ letters", Target: 2, Points: 30, Category: CategoryWords, progress: minLength(7)},
	{ID: "starts_s", Name: "S-Starter", Description: "Find 4 words starting with S", Target: 4, Points: 10, Category: CategoryLetters, progress: startsWith("S")},
	{ID: "starts_t", Name: "T-Time", Description: "Find 4 words starting with T", Target: 4, Points: 10, Category: CategoryLetters, progress: startsWith("T")},
	{ID: "starts_c", Name: "C-Seeker", Description: "Find 4 words starting with C", Target: 4, Points: 10, Category: CategoryLetters, progress: startsWith("C")},
	{ID: "starts_p", Name: "P-Hunter", Description: "Find 4 words starting with P", Target: 4, Points: 10, Category: CategoryLetters, progress: startsWith("P")},
	{ID: "starts_a", Name: "A-List", Description: "Find 4 words starting with A", Target: 4, Points: 10, Category: CategoryLetters, progress: startsWith("A")},
	{ID: "starts_b", Name: "B-Sharp", Description: "Find 3 words starting with B", Target: 3, Points: 10, Category: CategoryLetters, progress: startsWith("B")},
	{ID: "starts_m", Name: "M-Power", Description: "Find 3 words starting with M", Target: 3, Points: 10, Category: CategoryLetters, progress: startsWith("M")},
	{ID: "starts_r", Name: "R-Rated", Description: "Find 3 words starting with R", Target: 3, Points: 10, Category: CategoryLetters, progress: startsWith("R")},
	{ID: "ends_ing", Name: "ING Thing", Description: "Find 3 words ending in ING", Target: 3, Points: 15, Category: CategoryLetters, progress: endsWith("ING")},
	{ID: "ends_ed", Name: "Past Tense", Description: "Find 4 words ending in ED", Target: 4, Points: 10, Category: CategoryLetters, progress: endsWith("ED")},
	{ID: "ends_er", Name: "ER Explorer", Description: "Find 3 words ending in ER", Target: 3, Points: 10, Category: CategoryLetters, progress: endsWith("ER")},
	{ID: "ends_ly", Name: "LY Adverbs", Description: "Find 2 words ending in LY", Target: 2, Points: 15, Category: CategoryLetters, progress: endsWith("LY")},
	{ID: "ends_tion", Name: "TION Station", Description: "Find 1 word ending in TION", Target: 1, Points: 20, Category: CategoryLetters, progress: endsWith("TION")},
	{ID: "ends_s", Name: "Plural Pro", Description: "Find 6 words ending in S", Target: 6, Points: 10, Category: CategoryLetters, progress: endsWith("S")},
	{ID: "contains_e", Name: "E-Everywhere", Description: "Find 8 words with E", Target: 8, Points: 10, Category: CategoryLetters, progress: contains("E")},
	{ID: "contains_i", Name: "I-Spy", Description: "Find 6 words with I", Target: 6, Points: 10, Category: CategoryLetters, progress: contains("I")},
	{ID: "contains_o", Name: "O-Zone", Description: "Find 6 words with O", Target: 6, Points: 10, Category: CategoryLetters, progress: contains("O")},
	{ID: "contains_u", Name: "U-Turn", Description: "Find 4 words with U", Target: 4, Points: 12, Category: CategoryLetters, progress: contains("U")},
	{ID: "score_50", Name: "Half Century", Description: "Score 50 points", Target: 50, Points: 10, Category: CategoryScore, progress: totalScore},
	{ID: "score_100", Name: "Century Club", Description: "Score 100 points", Target: 100, Points: 20, Category: CategoryScore, progress: totalScore},
	{ID: "score_150", Name: "High Scorer", Description: "Score 150 points", Target: 150, Points: 30, Category: CategoryScore, progress: totalScore},
	{ID: "score_200", Name: "Point Master", Description: "Score 200 points", Target: 200, Points: 40, Category: CategoryScore, progress: totalScore},
	{ID: "double", Name: "Double Trouble", Description: "Find 3 words with double letters", Target: 3, Points: 10, Category: CategorySpecial, progress: doubleLetters},
	{ID: "double_5", Name: "Twin Peaks", Description: "Find 5 words with double letters", Target: 5, Points: 18, Category: CategorySpecial, progress: doubleLetters},
	{ID: "vowels", Name: "Vowel Voyage", Description: "Find 3 words with 3+ vowels", Target: 3, Points: 10, Category: CategorySpecial, progress: vowelHeavy(3)},
	{ID: "vowels_5", Name: "Vowel Victory", Description: "Find 5 words with 3+ vowels", Target: 5, Points: 18, Category: CategorySpecial, progress: vowelHeavy(3)},
	{ID: "consonants", Name: "Consonant Crusher", Description: "Find 2 words with 4+ consonants in a row", Target: 2, Points: 20, Category: CategorySpecial, progress: consonantRun},
	{ID: "rare_1", Name: "Rare Find", Description: "Find 1 word with Q, X, Z, or J", Target: 1, Points: 10, Category: CategorySpecial, progress: rareLetter},
	{ID: "rare_3", Name: "Treasure Hunter", Description: "Find 3 words with Q, X, Z, or J", Target: 3, Points: 25, Category: CategorySpecial, progress: rareLetter},
	{ID: "palindrome", Name: "Mirror Mirror", Description: "Find 1 palindrome word", Target: 1, Points: 15, Category: CategorySpecial, progress: palindromes},
}

// Catalog returns the definitions of every challenge in catalog order.
func Catalog() []Definition {
	defs := make([]Definition, len(catalog))
	for i, c := range catalog {
		defs[i] = Definition{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Target:      c.Target,
			Points:      c.Points,
			Category:    c.Category,
		}
	}
	return defs
}

// Evaluate computes the player's progress on every challenge, sorted by ratio descending with completed challenges winning ties.
// Completed challenges report their point award; incomplete ones report zero.
func Evaluate(words []string, score int) []Result {
	results := make([]Result, len(catalog))
	for i, c := range catalog {
		progress := c.progress(words, score)
		ratio := 0.0
		if c.Target > 0 {
			ratio = float64(progress) / float64(c.Target)
			if ratio > 1 {
				ratio = 1
			}
		}
		completed := ratio >= 1
		points := 0
		if completed {
			points = c.Points
		}
		results[i] = Result{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Target:      c.Target,
			Category:    c.Category,
			Progress:    progress,
			Ratio:       ratio,
			Completed:   completed,
			Points:      points,
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Ratio != results[j].Ratio {
			return results[i].Ratio > results[j].Ratio
		}
		return results[i].Completed && !results[j].Completed
	})
	return results
}

// Best returns the challenge the player made the most progress on.
func Best(words []string, score int) *Result {
	results := Evaluate(words, score)
	if len(results) == 0 {
		return nil
	}
	return &results[0]
}

// CompletedCount returns how many challenges the player completed.
func CompletedCount(words []string, score int) int {
	count := 0
	for _, r := range Evaluate(words, score) {
		if r.Completed {
			count++
		}
	}
	return count
}

// TotalPoints sums the point awards of the player's completed challenges.
func TotalPoints(words []string, score int) int {
	total := 0
	for _, r := range Evaluate(words, score) {
		total += r.Points
	}
	return total
}
