package board

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	newTests := []struct {
		name  string
		cells [][]string
		wantE bool
	}{
		{
			name:  "empty",
			wantE: true,
		},
		{
			name: "ragged",
			cells: [][]string{
				{"A", "B"},
				{"C"},
			},
			wantE: true,
		},
		{
			name: "empty tile",
			cells: [][]string{
				{"A", ""},
				{"C", "D"},
			},
			wantE: true,
		},
		{
			name: "ok with qu",
			cells: [][]string{
				{"A", "QU"},
				{"C", "D"},
			},
		},
	}
	for _, test := range newTests {
		t.Run(test.name, func(t *testing.T) {
			b, err := New(test.cells)
			if test.wantE {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(test.cells), b.Size)
		})
	}
}

func TestCopyDoesNotAlias(t *testing.T) {
	b, err := New([][]string{
		{"A", "B"},
		{"C", "D"},
	})
	require.NoError(t, err)
	b2 := b.Copy()
	b2.Cells[0][0] = "Z"
	assert.Equal(t, "A", b.Cells[0][0], "copy should not share cells with the original")
}

func TestWordOnBoard(t *testing.T) {
	b, err := New([][]string{
		{"C", "A", "T", "E"},
		{"O", "QU", "I", "N"},
		{"P", "Z", "R", "S"},
		{"L", "M", "D", "G"},
	})
	require.NoError(t, err)
	wordOnBoardTests := []struct {
		name string
		word string
		path []Cell
		want bool
	}{
		{
			name: "simple word",
			word: "CAT",
			path: []Cell{{0, 0}, {0, 1}, {0, 2}},
			want: true,
		},
		{
			name: "lowercase word is uppercased",
			word: "cat",
			path: []Cell{{0, 0}, {0, 1}, {0, 2}},
			want: true,
		},
		{
			name: "repeated cell and non-adjacent step",
			word: "CAT",
			path: []Cell{{0, 0}, {2, 2}, {0, 0}},
		},
		{
			name: "qu tile spells two characters",
			word: "QUIZ",
			path: []Cell{{1, 1}, {1, 2}, {2, 1}},
			want: true,
		},
		{
			name: "out of bounds",
			word: "CAT",
			path: []Cell{{0, 0}, {0, 1}, {0, 4}},
		},
		{
			name: "letters do not match",
			word: "COT",
			path: []Cell{{0, 0}, {0, 1}, {0, 2}},
		},
		{
			name: "identical consecutive cells",
			word: "CC",
			path: []Cell{{0, 0}, {0, 0}},
		},
		{
			name: "diagonal walk",
			word: "CQUR",
			path: []Cell{{0, 0}, {1, 1}, {2, 2}},
			want: true,
		},
		{
			name: "empty path",
			word: "",
		},
	}
	for _, test := range wordOnBoardTests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, b.WordOnBoard(test.word, test.path))
		})
	}
}

func TestGenerateInvariants(t *testing.T) {
	for _, size := range []int{4, 5, 6} {
		for seed := int64(0); seed < 25; seed++ {
			g := NewGenerator(rand.New(rand.NewSource(seed)))
			b, err := g.Generate(size)
			require.NoError(t, err)
			require.Equal(t, size, b.Size)
			require.Len(t, b.Cells, size)
			for r, row := range b.Cells {
				require.Len(t, row, size)
				for c, tile := range row {
					if tile != quTile {
						assert.Len(t, tile, 1, "tile at (%v,%v) for size %v seed %v", r, c, size, seed)
					}
				}
			}
			assert.Empty(t, b.landlockedConsonants(), "landlocked consonants for size %v seed %v", size, seed)
			assert.Empty(t, b.strandedQs(), "stranded Qs for size %v seed %v", size, seed)
		}
	}
}

func TestGenerateInvalidSize(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)))
	for _, size := range []int{0, 3, 7} {
		if _, err := g.Generate(size); err == nil {
			t.Errorf("wanted error for size %v", size)
		}
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	b1, err := NewGenerator(rand.New(rand.NewSource(42))).Generate(4)
	require.NoError(t, err)
	b2, err := NewGenerator(rand.New(rand.NewSource(42))).Generate(4)
	require.NoError(t, err)
	assert.Equal(t, b1.Cells, b2.Cells)
}

func TestRepairLandlocked(t *testing.T) {
	// every vowel is far from the X in the corner
	b := Board{
		Size: 4,
		Cells: [][]string{
			{"X", "T", "R", "S"},
			{"N", "T", "L", "S"},
			{"R", "L", "N", "T"},
			{"S", "T", "E", "A"},
		},
	}
	b.repair()
	assert.Empty(t, b.landlockedConsonants())
}

func TestRepairStrandedQ(t *testing.T) {
	repairQTests := []struct {
		name  string
		cells [][]string
	}{
		{
			name: "spare u elsewhere",
			cells: [][]string{
				{"Q", "T", "R", "S"},
				{"N", "T", "L", "S"},
				{"R", "L", "N", "U"},
				{"S", "T", "E", "A"},
			},
		},
		{
			name: "no u anywhere upgrades a vowel",
			cells: [][]string{
				{"Q", "E", "R", "S"},
				{"N", "T", "L", "S"},
				{"R", "L", "N", "T"},
				{"S", "T", "E", "A"},
			},
		},
		{
			name: "no u and no adjacent vowel",
			cells: [][]string{
				{"Q", "T", "R", "S"},
				{"N", "T", "L", "S"},
				{"R", "L", "N", "T"},
				{"S", "T", "E", "A"},
			},
		},
	}
	for _, test := range repairQTests {
		t.Run(test.name, func(t *testing.T) {
			b := Board{Size: 4, Cells: test.cells}
			b.repairQs()
			assert.Empty(t, b.strandedQs())
		})
	}
}

func TestQuTileNeverLandlockedOrStranded(t *testing.T) {
	b := Board{
		Size: 4,
		Cells: [][]string{
			{"QU", "T", "R", "S"},
			{"N", "T", "L", "S"},
			{"R", "L", "N", "T"},
			{"S", "T", "E", "A"},
		},
	}
	for _, c := range b.landlockedConsonants() {
		assert.NotEqual(t, quTile, b.Tile(c))
	}
	assert.Empty(t, b.strandedQs())
}

func TestDieFaces(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "QU"}, dieFaces("ABCDEQu"))
	assert.Equal(t, []string{"A", "E", "L", "R", "S", "T"}, dieFaces("AELRST"))
}

func TestBoardJSONRoundTrip(t *testing.T) {
	b, err := New([][]string{
		{"A", "QU"},
		{"C", "D"},
	})
	require.NoError(t, err)
	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `[["A","QU"],["C","D"]]`, string(data))
	var b2 Board
	require.NoError(t, json.Unmarshal(data, &b2))
	assert.Equal(t, *b, b2)
}

func TestCellJSONRoundTrip(t *testing.T) {
	c := Cell{Row: 2, Col: 3}
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `[2,3]`, string(data))
	var c2 Cell
	require.NoError(t, json.Unmarshal(data, &c2))
	assert.Equal(t, c, c2)
}
