package maps

// Dirs8 lists the adjacent directions in a fixed order. Iteration order feeds
// the random stream, so it must never change.
var Dirs8 = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Dirs4 lists the cardinal directions: north, east, south, west.
var Dirs4 = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Intner is the random source consumed by map helpers.
type Intner interface {
	Intn(n int) int
}

// Normalize maps (x, y) onto the grid. x wraps when WrapX is set; a y outside
// the map, or an x outside a non-wrapping map, is not real.
func (m *Map) Normalize(x, y int) (int, int, bool) {
	if y < 0 || y >= m.Height {
		return x, y, false
	}
	if m.WrapX {
		x = ((x % m.Width) + m.Width) % m.Width
	} else if x < 0 || x >= m.Width {
		return x, y, false
	}
	return x, y, true
}

// IsReal reports whether (x, y) normalizes to a position on the map.
func (m *Map) IsReal(x, y int) bool {
	_, _, ok := m.Normalize(x, y)
	return ok
}

// Neighbor steps from (x, y) by d and normalizes the result.
func (m *Map) Neighbor(x, y int, d [2]int) (int, int, bool) {
	return m.Normalize(x+d[0], y+d[1])
}

// Adjacent returns the real 8-neighbours of (x, y) in Dirs8 order.
func (m *Map) Adjacent(x, y int) []Pos {
	out := make([]Pos, 0, 8)
	for _, d := range Dirs8 {
		if nx, ny, ok := m.Neighbor(x, y, d); ok {
			out = append(out, Pos{nx, ny})
		}
	}
	return out
}

// Cardinal returns the real 4-neighbours of (x, y) in Dirs4 order.
func (m *Map) Cardinal(x, y int) []Pos {
	out := make([]Pos, 0, 4)
	for _, d := range Dirs4 {
		if nx, ny, ok := m.Neighbor(x, y, d); ok {
			out = append(out, Pos{nx, ny})
		}
	}
	return out
}

// CountAdjacent counts the real 8-neighbours of (x, y) matching pred.
func (m *Map) CountAdjacent(x, y int, pred func(*Tile) bool) int {
	n := 0
	for _, d := range Dirs8 {
		if nx, ny, ok := m.Neighbor(x, y, d); ok && pred(m.Tile(nx, ny)) {
			n++
		}
	}
	return n
}

// CountCardinal counts the real 4-neighbours of (x, y) matching pred.
func (m *Map) CountCardinal(x, y int, pred func(*Tile) bool) int {
	n := 0
	for _, d := range Dirs4 {
		if nx, ny, ok := m.Neighbor(x, y, d); ok && pred(m.Tile(nx, ny)) {
			n++
		}
	}
	return n
}

// IsCoastal reports whether any cardinal neighbour of (x, y) is ocean.
func (m *Map) IsCoastal(x, y int) bool {
	return m.CountCardinal(x, y, IsOceanTile) > 0
}

// IsOceanTile is a predicate for CountAdjacent and CountCardinal.
func IsOceanTile(t *Tile) bool { return t.Terrain.IsOcean() }

// IsRiverTile is a predicate for CountAdjacent and CountCardinal.
func IsRiverTile(t *Tile) bool {
	return t.Terrain == TerrainRiver || t.Specials.Has(SpecialRiver)
}

// IsTerrain returns a predicate matching terrain t.
func IsTerrain(t Terrain) func(*Tile) bool {
	return func(tile *Tile) bool { return tile.Terrain == t }
}

// delta returns the shortest signed x and y offsets from a to b.
func (m *Map) delta(a, b Pos) (int, int) {
	if !m.IsReal(a.X, a.Y) || !m.IsReal(b.X, b.Y) {
		panic("maps: distance between unreal positions")
	}
	dx := b.X - a.X
	dy := b.Y - a.Y
	if m.WrapX {
		dx = ((dx % m.Width) + m.Width) % m.Width
		if dx > m.Width/2 {
			dx -= m.Width
		}
	}
	return dx, dy
}

// Distance is the wrap-aware Chebyshev distance between two real positions.
func (m *Map) Distance(a, b Pos) int {
	dx, dy := m.delta(a, b)
	return max(abs(dx), abs(dy))
}

// SqDistance is the wrap-aware squared euclidean distance.
func (m *Map) SqDistance(a, b Pos) int {
	dx, dy := m.delta(a, b)
	return dx*dx + dy*dy
}

// RandPos draws a uniformly random real position.
func (m *Map) RandPos(r Intner) Pos {
	x := r.Intn(m.Width)
	y := r.Intn(m.Height)
	return Pos{x, y}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
