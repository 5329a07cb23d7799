// Package continents numbers connected land masses.
package continents

import "mapforge/pkg/maps"

// Polar continent ids used when the poles are tracked separately.
const (
	NorthPole = 1
	SouthPole = 2
)

// Assign relabels every land tile. With separatePoles the land connected to
// (0,0) and (0,h-1) gets NorthPole and SouthPole and numbering of the rest
// starts at 3. Tiles are flooded across the 8 adjacent directions. The
// highest id used is stored in m.NumContinents and returned.
func Assign(m *maps.Map, separatePoles bool) int {
	for i := range m.Tiles {
		m.Tiles[i].Continent = 0
	}

	next := 1
	if separatePoles {
		flood(m, 0, 0, NorthPole)
		flood(m, 0, m.Height-1, SouthPole)
		next = 3
	}

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			t := m.Tile(x, y)
			if t.Continent != 0 || t.Terrain.IsOcean() {
				continue
			}
			flood(m, x, y, next)
			next++
		}
	}

	m.NumContinents = 0
	for _, t := range m.Tiles {
		m.NumContinents = max(m.NumContinents, t.Continent)
	}
	return m.NumContinents
}

// flood labels the unlabelled land region containing (x, y) with id.
func flood(m *maps.Map, x, y, id int) {
	t := m.Tile(x, y)
	if t.Continent != 0 || t.Terrain.IsOcean() {
		return
	}
	t.Continent = id
	stack := []maps.Pos{{X: x, Y: y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range maps.Dirs8 {
			nx, ny, ok := m.Neighbor(p.X, p.Y, d)
			if !ok {
				continue
			}
			n := m.Tile(nx, ny)
			if n.Continent != 0 || n.Terrain.IsOcean() {
				continue
			}
			n.Continent = id
			stack = append(stack, maps.Pos{X: nx, Y: ny})
		}
	}
}

// RemoveTinyIslands sinks every land tile whose cardinal neighbours are all
// ocean. It returns the number of tiles removed.
func RemoveTinyIslands(m *maps.Map) int {
	removed := 0
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			t := m.Tile(x, y)
			if t.Terrain.IsOcean() {
				continue
			}
			if m.CountCardinal(x, y, maps.IsOceanTile) < len(m.Cardinal(x, y)) {
				continue
			}
			t.Terrain = maps.TerrainOcean
			t.Specials &^= maps.SpecialRiver | maps.SpecialHut
			t.Continent = 0
			removed++
		}
	}
	return removed
}

// SamePartition reports whether two labellings of the same map group land
// tiles identically, regardless of the ids chosen.
func SamePartition(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	ab := make(map[int]int)
	ba := make(map[int]int)
	for i := range a {
		if (a[i] == 0) != (b[i] == 0) {
			return false
		}
		if a[i] == 0 {
			continue
		}
		if v, ok := ab[a[i]]; ok && v != b[i] {
			return false
		}
		if v, ok := ba[b[i]]; ok && v != a[i] {
			return false
		}
		ab[a[i]] = b[i]
		ba[b[i]] = a[i]
	}
	return true
}

// Labels returns the continent id of every tile in row-major order.
func Labels(m *maps.Map) []int {
	out := make([]int, len(m.Tiles))
	for i, t := range m.Tiles {
		out[i] = t.Continent
	}
	return out
}
