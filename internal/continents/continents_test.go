package continents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapforge/internal/rng"
	"mapforge/pkg/maps"
)

func TestAssignCountsIslands(t *testing.T) {
	m := parse(t, false,
		"gg....g",
		"g...g..",
		"......g",
		".g.....",
	)

	n := Assign(m, false)

	assert.Equal(t, 5, n)
	assert.Equal(t, 1, m.Continent(0, 0))
	assert.Equal(t, 1, m.Continent(0, 1))
	assert.Equal(t, 2, m.Continent(6, 0))
	assert.Equal(t, 3, m.Continent(4, 1))
	assert.Equal(t, 4, m.Continent(6, 2))
	assert.Equal(t, 5, m.Continent(1, 3))
	assert.Equal(t, 0, m.Continent(3, 3))
}

func TestAssignDiagonalAndWrap(t *testing.T) {
	m := parse(t, true,
		"g...g",
		".g...",
		"..g..",
	)

	n := Assign(m, false)

	// diagonal chain plus the wrap from x=4 to x=0 makes one landmass
	assert.Equal(t, 1, n)
	assert.Equal(t, m.Continent(0, 0), m.Continent(4, 0))
	assert.Equal(t, m.Continent(0, 0), m.Continent(2, 2))
}

func TestAssignSeparatePoles(t *testing.T) {
	m := parse(t, false,
		"aaaa",
		"....",
		".gg.",
		"....",
		"aaaa",
	)

	n := Assign(m, true)

	assert.Equal(t, 3, n)
	assert.Equal(t, NorthPole, m.Continent(3, 0))
	assert.Equal(t, SouthPole, m.Continent(2, 4))
	assert.Equal(t, 3, m.Continent(1, 2))
}

func TestAssignIdempotent(t *testing.T) {
	m := randomMap(40, 30, 7)
	Assign(m, false)
	first := Labels(m)

	Assign(m, false)

	assert.True(t, SamePartition(first, Labels(m)))
	assert.Equal(t, first, Labels(m))
}

func TestRemoveTinyIslands(t *testing.T) {
	m := parse(t, false,
		"g.....",
		"..g...",
		"...gg.",
		"......",
	)

	removed := RemoveTinyIslands(m)

	assert.Equal(t, 2, removed)
	assert.True(t, m.IsOcean(0, 0))
	assert.True(t, m.IsOcean(2, 1))
	assert.False(t, m.IsOcean(3, 2))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.IsOcean(x, y) {
				assert.Less(t, m.CountCardinal(x, y, maps.IsOceanTile), len(m.Cardinal(x, y)))
			}
		}
	}
}

func TestTrackerMatchesAssign(t *testing.T) {
	m := randomMap(30, 20, 3)
	Assign(m, false)

	tr := NewTracker(m)
	for _, i := range permutation(m.NumTiles(), 11) {
		tr.Reveal(i%m.Width, i/m.Width)
	}

	assert.True(t, SamePartition(Labels(m), tr.Labels()))
	assert.Equal(t, m.NumContinents, tr.NumContinents())
	assertDense(t, tr.Labels(), tr.NumContinents())
}

func TestTrackerMergeRecyclesHighestId(t *testing.T) {
	m := parse(t, false,
		"g.g.g",
	)
	tr := NewTracker(m)

	require.Equal(t, 1, tr.Reveal(0, 0))
	require.Equal(t, 2, tr.Reveal(2, 0))
	require.Equal(t, 3, tr.Reveal(4, 0))

	m.SetTerrain(1, 0, maps.TerrainGrassland)
	got := tr.Reveal(1, 0)

	assert.Equal(t, 1, got)
	assert.Equal(t, 1, tr.Continent(2, 0))
	assert.Equal(t, 2, tr.Continent(4, 0), "highest id moves into the freed slot")
	assert.Equal(t, 2, tr.NumContinents())
}

// --- helpers ---

func parse(t *testing.T, wrap bool, rows ...string) *maps.Map {
	t.Helper()
	m := maps.New(len(rows[0]), len(rows), wrap)
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			tr, ok := maps.TerrainFromSymbol(row[x])
			require.True(t, ok, "bad symbol %q", row[x])
			m.SetTerrain(x, y, tr)
		}
	}
	return m
}

func randomMap(w, h int, seed uint64) *maps.Map {
	r := rng.New(seed)
	m := maps.New(w, h, true)
	for i := range m.Tiles {
		if r.Intn(100) < 40 {
			m.Tiles[i].Terrain = maps.TerrainGrassland
		} else {
			m.Tiles[i].Terrain = maps.TerrainOcean
		}
	}
	return m
}

func permutation(n int, seed uint64) []int {
	r := rng.New(seed)
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return p
}

func assertDense(t *testing.T, ids []int, n int) {
	t.Helper()
	seen := make(map[int]bool)
	for _, id := range ids {
		if id != 0 {
			seen[id] = true
		}
	}
	for id := 1; id <= n; id++ {
		assert.True(t, seen[id], "id %d unused", id)
	}
	assert.Len(t, seen, n)
}
