package mapgen

import "mapforge/pkg/maps"

// addSpecials scatters ruleset resources with probability riches/1000 over
// land and over ocean next to land, skipping the polar rows and any tile
// next to another resource. Terrains with two resources alternate by row.
func addSpecials(m *maps.Map, rules *maps.Ruleset, r maps.Intner, riches int) int {
	added := 0
	for y := 1; y < m.Height-1; y++ {
		for x := 0; x < m.Width; x++ {
			t := m.Tile(x, y)
			if t.Terrain.IsOcean() && m.CountAdjacent(x, y, isLand) == 0 {
				continue
			}
			if r.Intn(1000) >= riches || specialNear(m, x, y) {
				continue
			}
			switch {
			case rules.HasSpecial1(t.Terrain) && (!rules.HasSpecial2(t.Terrain) || y%2 == 0):
				t.Specials |= maps.SpecialResource1
			case rules.HasSpecial2(t.Terrain):
				t.Specials |= maps.SpecialResource2
			default:
				continue
			}
			added++
		}
	}
	return added
}

func specialNear(m *maps.Map, x, y int) bool {
	return m.CountAdjacent(x, y, func(t *maps.Tile) bool {
		return t.Specials&maps.SpecialResources != 0
	}) > 0
}

func isLand(t *maps.Tile) bool { return !t.Terrain.IsOcean() }

const hutRadius = 3

// makeHuts places about huts*tiles/2000 huts on land. Arctic only takes a
// hut half of the time and no two huts are within three tiles.
func makeHuts(m *maps.Map, r maps.Intner, huts int) int {
	tiles := m.NumTiles()
	placed := 0
	for count := 0; huts*tiles >= 2000 && count < tiles*2; count++ {
		p := m.RandPos(r)
		l := r.Intn(6)
		t := m.At(p)
		if t.Terrain.IsOcean() || (t.Terrain == maps.TerrainArctic && l >= 3) {
			continue
		}
		if hutClose(m, p) {
			continue
		}
		huts--
		t.Specials |= maps.SpecialHut
		placed++
	}
	return placed
}

func hutClose(m *maps.Map, p maps.Pos) bool {
	for dy := -hutRadius; dy <= hutRadius; dy++ {
		for dx := -hutRadius; dx <= hutRadius; dx++ {
			if x, y, ok := m.Normalize(p.X+dx, p.Y+dy); ok && m.HasSpecial(x, y, maps.SpecialHut) {
				return true
			}
		}
	}
	return false
}
