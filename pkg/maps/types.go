// Package maps holds the tile grid produced by the generator along with its
// topology helpers, the terrain ruleset and the JSON export format.
package maps

import "fmt"

// Pos is a grid position.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Tile is a single map cell.
type Tile struct {
	Terrain  Terrain
	Specials Special

	// Continent is 0 for ocean and for land that has not been labelled yet.
	// Generators that track polar regions separately reserve ids 1 and 2.
	Continent int
}

// Map is the generated world.
type Map struct {
	ID     string
	Name   string
	Width  int
	Height int

	// WrapX makes the x axis wrap around. The y axis never wraps.
	WrapX bool

	// Tiles are stored row-major.
	Tiles []Tile

	NumContinents  int
	StartPositions []Pos

	// Generation metadata.
	Seed      uint64
	Generator int
}

// New allocates a width x height map with every tile set to TerrainLast.
func New(width, height int, wrapX bool) *Map {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("maps: invalid dimensions %dx%d", width, height))
	}
	m := &Map{
		Width:  width,
		Height: height,
		WrapX:  wrapX,
		Tiles:  make([]Tile, width*height),
	}
	for i := range m.Tiles {
		m.Tiles[i].Terrain = TerrainLast
	}
	return m
}

// NumTiles returns width*height.
func (m *Map) NumTiles() int {
	return m.Width * m.Height
}

// Index returns the row-major index of a real position.
func (m *Map) Index(x, y int) int {
	nx, ny, ok := m.Normalize(x, y)
	if !ok {
		panic(fmt.Sprintf("maps: position (%d,%d) is not real", x, y))
	}
	return ny*m.Width + nx
}

// Tile returns the tile at (x, y). The position must be real.
func (m *Map) Tile(x, y int) *Tile {
	return &m.Tiles[m.Index(x, y)]
}

// At returns the tile at p.
func (m *Map) At(p Pos) *Tile {
	return m.Tile(p.X, p.Y)
}

// Terrain returns the terrain at (x, y).
func (m *Map) Terrain(x, y int) Terrain {
	return m.Tile(x, y).Terrain
}

// SetTerrain sets the terrain at (x, y).
func (m *Map) SetTerrain(x, y int, t Terrain) {
	m.Tile(x, y).Terrain = t
}

// IsOcean reports whether the tile at (x, y) is water.
func (m *Map) IsOcean(x, y int) bool {
	return m.Terrain(x, y).IsOcean()
}

// HasSpecial reports whether any of s is set on the tile at (x, y).
func (m *Map) HasSpecial(x, y int, s Special) bool {
	return m.Tile(x, y).Specials.Has(s)
}

// SetSpecial sets s on the tile at (x, y).
func (m *Map) SetSpecial(x, y int, s Special) {
	m.Tile(x, y).Specials |= s
}

// ClearSpecial clears s on the tile at (x, y).
func (m *Map) ClearSpecial(x, y int, s Special) {
	m.Tile(x, y).Specials &^= s
}

// IsRiver reports whether the tile carries a river, either as terrain or as
// an overlay.
func (m *Map) IsRiver(x, y int) bool {
	t := m.Tile(x, y)
	return t.Terrain == TerrainRiver || t.Specials.Has(SpecialRiver)
}

// Continent returns the continent id at (x, y).
func (m *Map) Continent(x, y int) int {
	return m.Tile(x, y).Continent
}

// SetContinent sets the continent id at (x, y).
func (m *Map) SetContinent(x, y int, id int) {
	m.Tile(x, y).Continent = id
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	c := *m
	c.Tiles = append([]Tile(nil), m.Tiles...)
	c.StartPositions = append([]Pos(nil), m.StartPositions...)
	return &c
}
