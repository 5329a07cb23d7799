package islands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapforge/internal/continents"
	"mapforge/internal/rivers"
	"mapforge/internal/rng"
	"mapforge/pkg/maps"
)

func TestInitWorldPoles(t *testing.T) {
	m := maps.New(60, 40, true)
	b := New(m, rng.New(3), defaultParams(2), nil)
	b.InitWorld(500)

	for x := 0; x < m.Width; x++ {
		top, bottom := m.Tile(x, 0), m.Tile(x, m.Height-1)
		assert.Contains(t, []maps.Terrain{maps.TerrainArctic, maps.TerrainTundra}, top.Terrain)
		assert.Contains(t, []maps.Terrain{maps.TerrainArctic, maps.TerrainTundra}, bottom.Terrain)
		assert.Equal(t, continents.NorthPole, top.Continent)
		assert.Equal(t, continents.SouthPole, bottom.Continent)
		for y := 2; y < m.Height-2; y++ {
			require.True(t, m.IsOcean(x, y), "tile %d,%d", x, y)
		}
	}
	assert.Equal(t, 2, m.NumContinents)
	assert.Len(t, b.Islands, 3)
	assert.Equal(t, 500, b.Unplaced())
	for _, buck := range []int{b.riverBuck, b.mountBuck, b.desertBuck, b.forestBuck, b.swampBuck} {
		assert.LessOrEqual(t, buck, 0)
	}
}

func TestMakeIslandPlacesConnectedIsland(t *testing.T) {
	m := maps.New(60, 40, true)
	b := New(m, rng.New(11), defaultParams(2), nil)
	b.InitWorld(600)

	require.True(t, b.MakeIsland(80, 1, 0))
	require.True(t, b.MakeIsland(60, 1, 0))
	assert.Equal(t, 4, m.NumContinents)
	assert.Equal(t, 1, b.Islands[3].Starters)
	assert.Equal(t, 1, b.Islands[4].Starters)

	for _, id := range []int{3, 4} {
		tiles := tilesOf(m, id)
		require.NotEmpty(t, tiles)
		assert.LessOrEqual(t, len(tiles), 80)
		assert.Equal(t, len(tiles), reachable(m, tiles[0], id), "island %d is not connected", id)
		for _, p := range tiles {
			assert.False(t, m.IsOcean(p.X, p.Y))
			for _, q := range m.Adjacent(p.X, p.Y) {
				c := m.Continent(q.X, q.Y)
				assert.True(t, c == 0 || c == id, "island %d touches continent %d", id, c)
			}
		}
	}
	assert.Equal(t, 600-len(tilesOf(m, 3))-len(tilesOf(m, 4)), b.Unplaced())
}

func TestMakeIslandRejectsEmptyMass(t *testing.T) {
	m := maps.New(60, 40, true)
	b := New(m, rng.New(1), defaultParams(2), nil)
	b.InitWorld(100)
	assert.False(t, b.MakeIsland(0, 1, 0))
	assert.Panics(t, func() { New(m, rng.New(1), defaultParams(2), nil).MakeIsland(10, 0, 0) })
}

func TestGeneratorFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		players int
		land    int
		gen     func(*Builder) bool
	}{
		{"gen2 crowded", 80, 50, 2, 86, (*Builder).Generator2},
		{"gen3 crowded", 80, 50, 2, 81, (*Builder).Generator3},
		{"gen3 narrow", 39, 50, 2, 30, (*Builder).Generator3},
		{"gen3 short", 80, 39, 2, 30, (*Builder).Generator3},
		{"gen4 single player", 80, 50, 1, 30, (*Builder).Generator4},
		{"gen4 crowded", 80, 50, 4, 81, (*Builder).Generator4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := defaultParams(tt.players)
			p.Land = tt.land
			b := New(maps.New(tt.w, tt.h, true), rng.New(5), p, nil)
			assert.False(t, tt.gen(b))
		})
	}
}

func TestGeneratorsBuildConsistentWorlds(t *testing.T) {
	tests := []struct {
		name string
		mode rivers.Mode
		gen  func(*Builder) bool
	}{
		{"gen2", rivers.ModeOverlay, (*Builder).Generator2},
		{"gen3", rivers.ModeTerrain, (*Builder).Generator3},
		{"gen4", rivers.ModeOverlay, (*Builder).Generator4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := maps.New(80, 50, true)
			p := defaultParams(4)
			p.RiverMode = tt.mode
			b := New(m, rng.New(2024), p, nil)
			require.True(t, tt.gen(b))

			land := 0
			for y := 0; y < m.Height; y++ {
				for x := 0; x < m.Width; x++ {
					tile := m.Tile(x, y)
					require.NotEqual(t, maps.TerrainLast, tile.Terrain)
					if tile.Terrain.IsOcean() {
						assert.Zero(t, tile.Continent, "ocean at %d,%d", x, y)
						continue
					}
					land++
					assert.Positive(t, tile.Continent, "land at %d,%d", x, y)
					assert.LessOrEqual(t, tile.Continent, m.NumContinents)
				}
			}
			assert.Greater(t, m.NumContinents, continents.SouthPole)
			assert.Greater(t, land, 2*m.Width)
			assertNoRiverBlocks(t, m)

			starters := 0
			for _, isl := range b.Islands {
				starters += isl.Starters
			}
			assert.LessOrEqual(t, starters, 4)
		})
	}
}

func TestGenerator2GivesEveryPlayerAnIsland(t *testing.T) {
	m := maps.New(80, 50, true)
	b := New(m, rng.New(77), defaultParams(3), nil)
	require.True(t, b.Generator2())

	starters := 0
	for id, isl := range b.Islands {
		if isl.Starters > 0 {
			assert.GreaterOrEqual(t, id, 3)
			assert.NotEmpty(t, tilesOf(m, id))
		}
		starters += isl.Starters
	}
	assert.Equal(t, 3, starters)
}

func TestGeneratorsDeterministic(t *testing.T) {
	build := func() *maps.Map {
		m := maps.New(80, 50, true)
		b := New(m, rng.New(99), defaultParams(2), nil)
		require.True(t, b.Generator4())
		return m
	}
	assert.Equal(t, build().Tiles, build().Tiles)
}

func TestIsCold(t *testing.T) {
	assert.True(t, isCold(0, 50))
	assert.True(t, isCold(9, 50))
	assert.False(t, isCold(10, 50))
	assert.False(t, isCold(40, 50))
	assert.True(t, isCold(41, 50))
}

func TestClosesRiverBlock(t *testing.T) {
	m := maps.New(5, 5, false)
	for i := range m.Tiles {
		m.Tiles[i].Terrain = maps.TerrainGrassland
	}
	b := New(m, rng.New(1), defaultParams(2), nil)
	m.SetSpecial(1, 1, maps.SpecialRiver)
	m.SetSpecial(2, 1, maps.SpecialRiver)
	assert.False(t, b.closesRiverBlock(1, 2))
	m.SetTerrain(2, 2, maps.TerrainRiver)
	assert.True(t, b.closesRiverBlock(1, 2))
	assert.False(t, b.closesRiverBlock(3, 3))
}

// --- helpers ---

func defaultParams(players int) Params {
	return Params{
		Players:   players,
		Land:      30,
		Mountains: 10,
		Deserts:   5,
		Forest:    25,
		Swamp:     5,
		Rivers:    50,
	}
}

func tilesOf(m *maps.Map, id int) []maps.Pos {
	var out []maps.Pos
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Continent(x, y) == id {
				out = append(out, maps.Pos{X: x, Y: y})
			}
		}
	}
	return out
}

// reachable counts tiles of continent id reachable from start through
// cardinal steps.
func reachable(m *maps.Map, start maps.Pos, id int) int {
	seen := map[maps.Pos]bool{start: true}
	stack := []maps.Pos{start}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, q := range m.Cardinal(p.X, p.Y) {
			if !seen[q] && m.Continent(q.X, q.Y) == id {
				seen[q] = true
				stack = append(stack, q)
			}
		}
	}
	return len(seen)
}

func assertNoRiverBlocks(t *testing.T, m *maps.Map) {
	t.Helper()
	for y := 0; y+1 < m.Height; y++ {
		for x := 0; x+1 < m.Width; x++ {
			if m.IsRiver(x, y) && m.IsRiver(x+1, y) && m.IsRiver(x, y+1) && m.IsRiver(x+1, y+1) {
				t.Errorf("2x2 river block at %d,%d", x, y)
			}
		}
	}
}
