// Package board generates letter grids from dice sets, validates word paths against them, and solves them for all findable words.
package board

import (
	"encoding/json"
	"fmt"
	"strings"
)

type (
	// Board is a square grid of tiles.
	// A tile is a one-letter string, except for the "QU" tile which spells two characters.
	Board struct {
		Size  int
		Cells [][]string
	}

	// Cell is a grid coordinate.
	Cell struct {
		Row int
		Col int
	}
)

// quTile is the only multi-character tile.  It is rendered as one cell and spells "QU".
const quTile = "QU"

const vowels = "AEIOU"

// New creates a board from the cells, which must form a square grid of non-empty tiles.
func New(cells [][]string) (*Board, error) {
	size := len(cells)
	if size == 0 {
		return nil, fmt.Errorf("board must have at least one row")
	}
	for r, row := range cells {
		if len(row) != size {
			return nil, fmt.Errorf("row %v has %v cells, wanted %v", r, len(row), size)
		}
		for c, tile := range row {
			if len(tile) == 0 {
				return nil, fmt.Errorf("empty tile at (%v,%v)", r, c)
			}
		}
	}
	b := Board{
		Size:  size,
		Cells: cells,
	}
	return &b, nil
}

// Copy returns a deep copy of the board.
// Lock snapshots must not alias the lobby board.
func (b Board) Copy() Board {
	cells := make([][]string, b.Size)
	for r := range b.Cells {
		cells[r] = make([]string, b.Size)
		copy(cells[r], b.Cells[r])
	}
	return Board{
		Size:  b.Size,
		Cells: cells,
	}
}

// InBounds determines if the cell is on the board.
func (b Board) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < b.Size && c.Col >= 0 && c.Col < b.Size
}

// Tile gets the tile at the cell.
func (b Board) Tile(c Cell) string {
	return b.Cells[c.Row][c.Col]
}

// WordOnBoard determines if the path is a simple 8-connected walk on the board whose tiles spell the word.
// The word is uppercased before comparing.  A "QU" tile contributes both of its characters.
func (b Board) WordOnBoard(word string, path []Cell) bool {
	if len(path) == 0 {
		return false
	}
	used := make(map[Cell]struct{}, len(path))
	var spelled strings.Builder
	for i, c := range path {
		if !b.InBounds(c) {
			return false
		}
		if _, ok := used[c]; ok {
			return false
		}
		if i > 0 && !adjacent(path[i-1], c) {
			return false
		}
		used[c] = struct{}{}
		spelled.WriteString(b.Tile(c))
	}
	return spelled.String() == strings.ToUpper(word)
}

// adjacent determines if the distinct cells touch, including diagonally.
func adjacent(a, b Cell) bool {
	dr, dc := a.Row-b.Row, a.Col-b.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr <= 1 && dc <= 1 && (dr != 0 || dc != 0)
}

// neighbors returns the in-bounds cells in the 8-neighborhood of c.
func (b Board) neighbors(c Cell) []Cell {
	ns := make([]Cell, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Cell{Row: c.Row + dr, Col: c.Col + dc}
			if b.InBounds(n) {
				ns = append(ns, n)
			}
		}
	}
	return ns
}

// isVowelTile determines if the tile is a single vowel letter.
func isVowelTile(tile string) bool {
	return len(tile) == 1 && strings.Contains(vowels, tile)
}

// hasVowel determines if the tile contains a vowel character.  The "QU" tile contains a U.
func hasVowel(tile string) bool {
	return strings.ContainsAny(tile, vowels)
}

// MarshalJSON encodes the board as its cell grid, the format clients render.
func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Cells)
}

// UnmarshalJSON decodes the board from a cell grid.
func (b *Board) UnmarshalJSON(data []byte) error {
	var cells [][]string
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}
	b2, err := New(cells)
	if err != nil {
		return err
	}
	*b = *b2
	return nil
}

// MarshalJSON encodes the cell as a [row, col] pair.
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.Row, c.Col})
}

// UnmarshalJSON decodes the cell from a [row, col] pair.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	c.Row, c.Col = pair[0], pair[1]
	return nil
}
