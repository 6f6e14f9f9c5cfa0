package game

import (
	"context"
	"sort"

	"github.com/wordrush/wordrush/game"
	"github.com/wordrush/wordrush/game/challenge"
	"github.com/wordrush/wordrush/game/message"
	"github.com/wordrush/wordrush/game/scoring"
	"github.com/wordrush/wordrush/scores"
)

// finalizeSummary recomputes final scores with uniqueness bonuses, evaluates
// challenges, solves the board, persists high scores, and broadcasts game_end.
func (g *Game) finalizeSummary(ctx context.Context, send messageSender) {
	g.status = game.Summary
	occurrences := make(map[string]int)
	for _, p := range g.players {
		for _, w := range p.foundWords {
			occurrences[w]++
		}
	}
	results := make([]message.PlayerResult, len(g.players))
	for i, p := range g.players {
		p.score = 0
		for _, w := range p.foundWords {
			p.score += scoring.Score(w, occurrences[w] == 1)
		}
		challengeResults := challenge.Evaluate(p.foundWords, p.score)
		completed, points := 0, 0
		for _, r := range challengeResults {
			if r.Completed {
				completed++
			}
			points += r.Points
		}
		result := message.PlayerResult{
			PlayerID:            p.id,
			Username:            p.username,
			Character:           p.character,
			Score:               p.score,
			Words:               append([]string{}, p.foundWords...),
			Challenges:          challengeResults,
			ChallengesCompleted: completed,
			ChallengePoints:     points,
		}
		if len(challengeResults) > 0 {
			best := challengeResults[0]
			result.BestChallenge = &best
		}
		results[i] = result
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	data := message.GameEndData{
		Results:    results,
		WordAwards: g.wordAwards(occurrences),
	}
	if len(results) > 0 {
		winner := results[0]
		data.Winner = &winner
	}
	if g.board != nil {
		findable := g.board.Words(g.Words)
		data.AllFindableWords = findable
		data.TotalFindableWords = len(findable)
		data.LongestPossibleWord = longestWord(findable)
	}
	data.LongestFound = g.longestFound()
	g.recordResults(ctx, data)
	m, err := message.New(message.GameEnd, data)
	if err != nil {
		g.Log.Printf("lobby %v marshalling game end: %v", g.id, err)
		return
	}
	send(m)
}

// wordAwards lists every accepted word with its final value, shortest first for a paced reveal.
func (g *Game) wordAwards(occurrences map[string]int) []message.WordAward {
	awards := make([]message.WordAward, len(g.wordLog))
	for i, e := range g.wordLog {
		unique := occurrences[e.word] == 1
		awards[i] = message.WordAward{
			PlayerID: e.playerID,
			Word:     e.word,
			Points:   scoring.Score(e.word, unique),
			Unique:   unique,
		}
	}
	sort.SliceStable(awards, func(i, j int) bool {
		return len(awards[i].Word) < len(awards[j].Word)
	})
	return awards
}

// longestFound returns the longest word any player found, first to reach the length winning ties.
func (g *Game) longestFound() *message.LongestFound {
	var best *message.LongestFound
	for _, e := range g.wordLog {
		if best == nil || len(e.word) > len(best.Word) {
			best = &message.LongestFound{
				PlayerID: e.playerID,
				Word:     e.word,
			}
		}
	}
	return best
}

// longestWord returns the longest word, ties breaking to the lexicographically greatest.
func longestWord(words []string) string {
	longest := ""
	for _, w := range words {
		if len(w) > len(longest) || (len(w) == len(longest) && w > longest) {
			longest = w
		}
	}
	return longest
}

// recordResults persists the game outcome.  Failures are logged, never surfaced to clients.
func (g *Game) recordResults(ctx context.Context, data message.GameEndData) {
	if g.Scores == nil {
		return
	}
	var winnerID game.PlayerID
	if data.Winner != nil {
		winnerID = data.Winner.PlayerID
	}
	gameResults := make([]scores.GameResult, 0, len(g.players))
	for _, p := range g.players {
		gameResults = append(gameResults, scores.GameResult{
			Addr:                p.addr,
			Username:            p.username,
			Score:               p.score,
			WordsCount:          len(p.foundWords),
			Winner:              p.id == winnerID,
			ChallengesCompleted: challenge.CompletedCount(p.foundWords, p.score),
		})
	}
	if err := g.Scores.UpdateResults(ctx, gameResults); err != nil {
		g.Log.Printf("lobby %v updating high scores: %v", g.id, err)
	}
}
