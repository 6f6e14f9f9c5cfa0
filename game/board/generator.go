package board

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// Generator rolls dice sets into playable boards.
// The zero value is not usable; create generators with NewGenerator.
type Generator struct {
	rand *rand.Rand
}

// Dice sets, one die per cell.  Each string lists the faces of one die.
// The "Qu" face of the size-6 set materializes as the "QU" tile.
var (
	dice4 = []string{
		"AAEEIN", "AAEIOU", "AEIOUY", "EEEAIO",
		"RRLLSS", "NNTTSS", "DDMMPP", "BBCCGG",
		"DELNOR", "STRNGL", "THWRSP", "CHMPTK",
		"AELRST", "EINOST", "AEORTU", "EILNRU",
	}
	dice5 = []string{
		"AAEEIN", "AAEIOU", "AEIOUY", "EEEAIO", "AAOOUU",
		"RRLLNN", "SSTTNN", "DDMMPP", "BBCCFF", "GGHHKK",
		"DELNOR", "STRNGL", "THWRSP", "CHMPTK", "BDFGJV",
		"AELRST", "EINOST", "AEORTU", "EILNRU", "ACDEST",
		"INGEDS", "ERSTLN", "AEIORT", "OUNDSE", "ATIONM",
	}
	dice6 = []string{
		"AAEEIN", "AAEIOU", "AEIOUY", "EEEAIO", "AAOOUU", "EEIIOO",
		"RRLLNN", "SSTTNN", "DDMMPP", "BBCCFF", "GGHHKK", "WWVVYY",
		"DELNOR", "STRNGL", "THWRSP", "CHMPTK", "BDFGJV", "LMNPRS",
		"AELRST", "EINOST", "AEORTU", "EILNRU", "ACDEST", "IOPSTU",
		"INGEDS", "ERSTLN", "AEIORT", "OUNDSE", "ATIONM", "ERSTIN",
		"ABCDEQu", "GHILMN", "OPRST", "UVWXYZ", "AEINOR", "STLNRE",
	}
)

// minVowelRatio is the minimum share of single-vowel tiles for a board to be playable without repair.
var minVowelRatio = map[int]float64{
	4: 0.30,
	5: 0.28,
	6: 0.25,
}

const rareLetters = "JXQZ"

const (
	maxGenerateAttempts  = 30
	maxLandlockedRepairs = 50
	maxQRepairs          = 20
)

// NewGenerator creates a generator using the source of randomness.
// If r is nil, a time-seeded source is used.
func NewGenerator(r *rand.Rand) *Generator {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g := Generator{
		rand: r,
	}
	return &g
}

// Generate rolls a board of the size, retrying until it is playable and repairing it if the retries run out.
// The size must be 4, 5, or 6.
func (g *Generator) Generate(size int) (*Board, error) {
	var dice []string
	switch size {
	case 4:
		dice = dice4
	case 5:
		dice = dice5
	case 6:
		dice = dice6
	default:
		return nil, fmt.Errorf("invalid board size: %v", size)
	}
	var b *Board
	for i := 0; i < maxGenerateAttempts; i++ {
		b = g.roll(size, dice)
		if b.playable(size) {
			return b, nil
		}
	}
	b.repair()
	return b, nil
}

// roll shuffles the dice, picks one face per die, and arranges the faces row-major.
func (g *Generator) roll(size int, dice []string) *Board {
	shuffled := make([]string, len(dice))
	copy(shuffled, dice)
	g.rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	cells := make([][]string, size)
	for r := 0; r < size; r++ {
		cells[r] = make([]string, size)
		for c := 0; c < size; c++ {
			faces := dieFaces(shuffled[r*size+c])
			cells[r][c] = faces[g.rand.Intn(len(faces))]
		}
	}
	return &Board{
		Size:  size,
		Cells: cells,
	}
}

// dieFaces parses a die string into its faces, treating "Qu" as the single "QU" face.
func dieFaces(die string) []string {
	faces := make([]string, 0, len(die))
	for i := 0; i < len(die); {
		if i+1 < len(die) && die[i:i+2] == "Qu" {
			faces = append(faces, quTile)
			i += 2
			continue
		}
		faces = append(faces, die[i:i+1])
		i++
	}
	return faces
}

// playable determines if the board needs no repair: enough vowels, no landlocked consonants, and no Q without an adjacent U.
func (b Board) playable(size int) bool {
	total := size * size
	vowelCount := 0
	for _, row := range b.Cells {
		for _, tile := range row {
			if isVowelTile(tile) {
				vowelCount++
			}
		}
	}
	if float64(vowelCount)/float64(total) < minVowelRatio[size] {
		return false
	}
	return len(b.landlockedConsonants()) == 0 && len(b.strandedQs()) == 0
}

// landlockedConsonants returns the consonant cells with no vowel in their 8-neighborhood,
// rare letters first so repairs prioritize them.
// The "QU" tile carries its own vowel and is never landlocked.
func (b Board) landlockedConsonants() []Cell {
	var locked []Cell
	for r, row := range b.Cells {
		for c, tile := range row {
			if hasVowel(tile) {
				continue
			}
			cell := Cell{Row: r, Col: c}
			landlocked := true
			for _, n := range b.neighbors(cell) {
				if hasVowel(b.Tile(n)) {
					landlocked = false
					break
				}
			}
			if landlocked {
				locked = append(locked, cell)
			}
		}
	}
	sort.SliceStable(locked, func(i, j int) bool {
		ri := strings.Contains(rareLetters, b.Tile(locked[i]))
		rj := strings.Contains(rareLetters, b.Tile(locked[j]))
		return ri && !rj
	})
	return locked
}

// strandedQs returns the "Q" cells with no U in their 8-neighborhood.
// The "QU" tile contains its own U and is never stranded.
func (b Board) strandedQs() []Cell {
	var stranded []Cell
	for r, row := range b.Cells {
		for c, tile := range row {
			if tile != "Q" {
				continue
			}
			cell := Cell{Row: r, Col: c}
			hasU := false
			for _, n := range b.neighbors(cell) {
				if strings.Contains(b.Tile(n), "U") {
					hasU = true
					break
				}
			}
			if !hasU {
				stranded = append(stranded, cell)
			}
		}
	}
	return stranded
}

// repair mutates the board until every consonant has an adjacent vowel and every Q has an adjacent U.
func (b *Board) repair() {
	b.repairLandlocked()
	b.repairQs()
}

// repairLandlocked swaps landlocked consonants toward vowels until none remain.
func (b *Board) repairLandlocked() {
	for i := 0; i < maxLandlockedRepairs; i++ {
		locked := b.landlockedConsonants()
		if len(locked) == 0 {
			return
		}
		target := locked[0]
		vowelCells := b.vowelCells()
		if len(vowelCells) == 0 {
			// a vowel-free grid cannot be swapped into shape
			b.Cells[target.Row][target.Col] = "E"
			continue
		}
		if swapped := b.swapForVowelNeighbor(target, vowelCells); !swapped {
			nearest := nearestCell(target, vowelCells)
			b.swap(target, nearest)
		}
	}
}

// swapForVowelNeighbor tries each vowel cell and keeps the first swap that leaves the consonant with a vowel neighbor.
func (b *Board) swapForVowelNeighbor(consonant Cell, vowelCells []Cell) bool {
	for _, v := range vowelCells {
		b.swap(consonant, v)
		landlocked := true
		for _, n := range b.neighbors(v) {
			if hasVowel(b.Tile(n)) {
				landlocked = false
				break
			}
		}
		if !landlocked {
			return true
		}
		b.swap(consonant, v)
	}
	return false
}

// repairQs gives every stranded Q an adjacent U.
func (b *Board) repairQs() {
	for i := 0; i < maxQRepairs; i++ {
		stranded := b.strandedQs()
		if len(stranded) == 0 {
			return
		}
		q := stranded[0]
		neighbors := b.neighbors(q)
		if uCells := b.uCells(); len(uCells) > 0 {
			// pull the nearest spare U next to the Q
			u := nearestCell(q, uCells)
			n := neighbors[0]
			for _, n2 := range neighbors {
				if b.Tile(n2) != "Q" {
					n = n2
					break
				}
			}
			b.swap(u, n)
			continue
		}
		upgraded := false
		for _, n := range neighbors {
			if isVowelTile(b.Tile(n)) {
				b.Cells[n.Row][n.Col] = "U"
				upgraded = true
				break
			}
		}
		if !upgraded {
			n := neighbors[0]
			b.Cells[n.Row][n.Col] = "U"
		}
	}
}

// vowelCells returns the cells holding a single vowel tile.
func (b Board) vowelCells() []Cell {
	var cells []Cell
	for r, row := range b.Cells {
		for c, tile := range row {
			if isVowelTile(tile) {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}
	return cells
}

// uCells returns the cells holding a "U" tile.
func (b Board) uCells() []Cell {
	var cells []Cell
	for r, row := range b.Cells {
		for c, tile := range row {
			if tile == "U" {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}
	return cells
}

// swap exchanges the tiles at the two cells.
func (b *Board) swap(c1, c2 Cell) {
	b.Cells[c1.Row][c1.Col], b.Cells[c2.Row][c2.Col] = b.Cells[c2.Row][c2.Col], b.Cells[c1.Row][c1.Col]
}

// nearestCell returns the candidate with the smallest Manhattan distance to c.
func nearestCell(c Cell, candidates []Cell) Cell {
	nearest := candidates[0]
	best := manhattan(c, nearest)
	for _, c2 := range candidates[1:] {
		if d := manhattan(c, c2); d < best {
			nearest, best = c2, d
		}
	}
	return nearest
}

// manhattan returns the Manhattan distance between the cells.
func manhattan(a, b Cell) int {
	dr, dc := a.Row-b.Row, a.Col-b.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}
