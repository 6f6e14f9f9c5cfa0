package board

import "sort"

// Dictionary is the word-set the solver checks candidate paths against.
type Dictionary interface {
	// Contains determines if the uppercase word is in the dictionary.
	Contains(word string) bool
	// IsPrefix determines if the uppercase string starts any dictionary word, including complete words.
	IsPrefix(s string) bool
}

// maxSolveLength caps the spelled length of solver paths to bound worst-case work.
const maxSolveLength = 15

// minWordLength is the shortest word the game accepts.
const minWordLength = 3

// Words enumerates every word of length >= 3 that a path on the board can spell, sorted for determinism.
func (b Board) Words(d Dictionary) []string {
	found := make(map[string]struct{})
	visited := make(map[Cell]struct{}, b.Size*b.Size)
	for r := 0; r < b.Size; r++ {
		for c := 0; c < b.Size; c++ {
			cell := Cell{Row: r, Col: c}
			visited[cell] = struct{}{}
			b.solve(d, cell, b.Tile(cell), visited, found)
			delete(visited, cell)
		}
	}
	words := make([]string, 0, len(found))
	for w := range found {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// solve extends the path from the cell depth-first, pruning strings that are not dictionary prefixes.
func (b Board) solve(d Dictionary, cell Cell, spelled string, visited map[Cell]struct{}, found map[string]struct{}) {
	if !d.IsPrefix(spelled) {
		return
	}
	if len(spelled) >= minWordLength && d.Contains(spelled) {
		found[spelled] = struct{}{}
	}
	if len(spelled) >= maxSolveLength {
		return
	}
	for _, n := range b.neighbors(cell) {
		if _, ok := visited[n]; ok {
			continue
		}
		visited[n] = struct{}{}
		b.solve(d, n, spelled+b.Tile(n), visited, found)
		delete(visited, n)
	}
}

// LongestWord returns the longest findable word on the board.
// Length ties break to the lexicographically greatest word so repeated solves agree.
func (b Board) LongestWord(d Dictionary) string {
	longest := ""
	for _, w := range b.Words(d) {
		if len(w) > len(longest) || (len(w) == len(longest) && w > longest) {
			longest = w
		}
	}
	return longest
}
