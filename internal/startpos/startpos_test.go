package startpos

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapforge/internal/continents"
	"mapforge/internal/rng"
	"mapforge/pkg/maps"
)

func TestSolveFairShare(t *testing.T) {
	tests := []struct {
		name     string
		goodies  []int
		players  int
		wantMin  int
		starters []int
	}{
		{"one each", []int{0, 0, 0, 10, 5}, 2, 5, []int{0, 0, 0, 2, 1}},
		{"exact", []int{0, 0, 0, 10, 5}, 3, 5, []int{0, 0, 0, 2, 1}},
		{"tighter", []int{0, 0, 0, 10, 5}, 4, 3, []int{0, 0, 0, 3, 1}},
		{"single", []int{0, 0, 0, 12}, 1, 12, []int{0, 0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			islands := make([]Island, len(tt.goodies))
			for i, g := range tt.goodies {
				islands[i].Goodies = g
			}

			got, err := SolveFairShare(islands, 3, tt.players)

			require.NoError(t, err)
			assert.Equal(t, tt.wantMin, got)
			for i, want := range tt.starters {
				assert.Equal(t, want, islands[i].Starters, "continent %d", i)
			}
		})
	}
}

func TestSolveFairShareInfeasible(t *testing.T) {
	t.Run("no goodies", func(t *testing.T) {
		islands := []Island{{}, {Goodies: 50}, {Goodies: 50}, {}}
		_, err := SolveFairShare(islands, 3, 2)
		assert.True(t, errors.Is(err, ErrNoFairShare))
		assert.Contains(t, err.Error(), "2 players")
	})
	t.Run("too few", func(t *testing.T) {
		islands := []Island{{}, {Goodies: 1}}
		_, err := SolveFairShare(islands, 1, 2)
		assert.ErrorIs(t, err, ErrNoFairShare)
	})
}

func TestSetupIslandsCountsTilesOncePerContinent(t *testing.T) {
	m := oceanMap(9, 7)
	m.SetTerrain(2, 3, maps.TerrainGrassland)
	m.SetTerrain(4, 3, maps.TerrainPlains)
	m.SetTerrain(4, 4, maps.TerrainPlains)
	continents.Assign(m, false)
	require.Equal(t, 2, m.NumContinents)

	a := New(m, maps.DefaultRuleset(), rng.New(1), 1, nil)
	islands := a.SetupIslands()

	// every land tile sits within city radius of both continents
	assert.Equal(t, 9, islands[1].Goodies)
	assert.Equal(t, 9, islands[2].Goodies)
}

func TestSetupIslandsSkipsReservedIds(t *testing.T) {
	m := oceanMap(9, 7)
	m.SetTerrain(4, 3, maps.TerrainGrassland)
	continents.Assign(m, false)

	a := New(m, maps.DefaultRuleset(), rng.New(1), 3, nil)
	islands := a.SetupIslands()

	assert.Zero(t, islands[1].Goodies)
}

func TestPlaceSeparatesPlayers(t *testing.T) {
	m := oceanMap(60, 40)
	for y := 2; y < 38; y++ {
		for x := 2; x < 58; x++ {
			m.SetTerrain(x, y, maps.TerrainGrassland)
		}
	}
	continents.Assign(m, false)

	a := New(m, maps.DefaultRuleset(), rng.New(42), 1, nil)
	p, err := a.Allocate(4, nil)
	require.NoError(t, err)

	require.Len(t, p.Positions, 4)
	assert.Positive(t, p.Starters[1])
	for i, pos := range p.Positions {
		assert.Equal(t, maps.TerrainGrassland, m.At(pos).Terrain)
		assert.False(t, m.IsCoastal(pos.X, pos.Y))
		for _, q := range p.Positions[i+1:] {
			assert.GreaterOrEqual(t, m.Distance(pos, q), p.Distance)
		}
	}
	assert.Positive(t, p.Distance)
}

func TestPlaceUsesPresetStarters(t *testing.T) {
	m := oceanMap(20, 20)
	for y := 3; y < 17; y++ {
		for x := 3; x < 17; x++ {
			m.SetTerrain(x, y, maps.TerrainPlains)
		}
	}
	continents.Assign(m, false)
	preset := []Island{{}, {Starters: 2}}

	p, err := New(m, maps.DefaultRuleset(), rng.New(9), 1, nil).Allocate(2, preset)

	require.NoError(t, err)
	assert.Len(t, p.Positions, 2)
	assert.Equal(t, map[int]int{1: 2}, p.Starters)
}

func TestPlaceGivesUpAfterCeiling(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the full placement ceiling")
	}
	m := oceanMap(10, 10)
	m.SetTerrain(5, 5, maps.TerrainGrassland)
	continents.Assign(m, false)

	// one land tile cannot host two players even with the rules dropped
	_, err := New(m, maps.DefaultRuleset(), rng.New(3), 1, nil).Place([]Island{{}, {Starters: 2}}, 2)

	assert.ErrorIs(t, err, ErrPlacementStuck)
}

func TestAllocateSkipsContinentsWithoutStartTiles(t *testing.T) {
	m := oceanMap(30, 20)
	// a long two-row strip: plenty of goodies, every tile on the coast
	for y := 3; y <= 4; y++ {
		for x := 2; x <= 25; x++ {
			m.SetTerrain(x, y, maps.TerrainGrassland)
		}
	}
	// a small block whose centre is the only valid start tile
	for y := 12; y <= 14; y++ {
		for x := 10; x <= 12; x++ {
			m.SetTerrain(x, y, maps.TerrainGrassland)
		}
	}
	continents.Assign(m, false)
	strip := m.Continent(2, 3)
	block := m.Continent(11, 13)
	require.NotEqual(t, strip, block)

	a := New(m, maps.DefaultRuleset(), rng.New(5), 1, nil)
	raw := a.SetupIslands()
	require.Greater(t, raw[strip].Goodies, raw[block].Goodies)

	sites := a.Sites()
	assert.Zero(t, sites[strip])
	assert.Equal(t, 1, sites[block])

	t.Run("computed", func(t *testing.T) {
		p, err := New(m, maps.DefaultRuleset(), rng.New(5), 1, nil).Allocate(1, nil)
		require.NoError(t, err)
		assert.Equal(t, []maps.Pos{{X: 11, Y: 13}}, p.Positions)
		assert.Equal(t, map[int]int{block: 1}, p.Starters)
	})

	t.Run("preset", func(t *testing.T) {
		preset := make([]Island, m.NumContinents+1)
		preset[strip].Starters = 1
		p, err := New(m, maps.DefaultRuleset(), rng.New(6), 1, nil).Allocate(1, preset)
		require.NoError(t, err)
		assert.Equal(t, []maps.Pos{{X: 11, Y: 13}}, p.Positions)
	})
}

func TestPlaceShrinksSeparation(t *testing.T) {
	m := oceanMap(40, 40)
	for y := 15; y < 25; y++ {
		for x := 15; x < 25; x++ {
			m.SetTerrain(x, y, maps.TerrainGrassland)
		}
	}
	continents.Assign(m, false)
	initial := min(40, m.Width/2, m.Height/2)

	p, err := New(m, maps.DefaultRuleset(), rng.New(11), 1, nil).Allocate(4, nil)
	require.NoError(t, err)

	require.Len(t, p.Positions, 4)
	assert.Equal(t, map[int]int{1: 4}, p.Starters)
	// the island interior is 8x8, so four starts cannot stay 20 apart
	assert.Less(t, p.Distance, initial)
	assert.Positive(t, p.Distance)
	for i, pos := range p.Positions {
		assert.False(t, m.IsCoastal(pos.X, pos.Y))
		for _, q := range p.Positions[i+1:] {
			assert.GreaterOrEqual(t, m.Distance(pos, q), p.Distance)
		}
	}
}

func TestPlaceDropsTileRulesAsLastResort(t *testing.T) {
	m := oceanMap(12, 12)
	for y := 4; y <= 6; y++ {
		for x := 4; x <= 6; x++ {
			m.SetTerrain(x, y, maps.TerrainGrassland)
		}
	}
	continents.Assign(m, false)

	p, err := New(m, maps.DefaultRuleset(), rng.New(2), 1, nil).Allocate(2, nil)
	require.NoError(t, err)

	require.Len(t, p.Positions, 2)
	assert.NotEqual(t, p.Positions[0], p.Positions[1])
	for _, pos := range p.Positions {
		assert.Equal(t, 1, m.At(pos).Continent)
	}
	assert.Equal(t, 1, p.Distance)
}

func TestAllocateOnCoastOnlyLand(t *testing.T) {
	m := oceanMap(20, 12)
	for x := 2; x < 10; x++ {
		m.SetTerrain(x, 2, maps.TerrainGrassland)
		m.SetTerrain(x, 3, maps.TerrainPlains)
		m.SetTerrain(x, 8, maps.TerrainHills)
		m.SetTerrain(x, 9, maps.TerrainGrassland)
	}
	continents.Assign(m, false)
	a := New(m, maps.DefaultRuleset(), rng.New(4), 1, nil)
	assert.Equal(t, []int{0, 0, 0}, a.Sites())

	p, err := a.Allocate(3, nil)
	require.NoError(t, err)
	require.Len(t, p.Positions, 3)
	for i, pos := range p.Positions {
		assert.False(t, m.At(pos).Terrain.IsOcean())
		for _, q := range p.Positions[i+1:] {
			assert.NotEqual(t, pos, q)
		}
	}
}

// --- helpers ---

func oceanMap(w, h int) *maps.Map {
	m := maps.New(w, h, false)
	for i := range m.Tiles {
		m.Tiles[i].Terrain = maps.TerrainOcean
	}
	return m
}
