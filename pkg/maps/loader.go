package maps

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
)

//go:embed data/*.json
var dataFiles embed.FS

// LoadRuleset loads an embedded ruleset by filename.
func LoadRuleset(filename string) (*Ruleset, error) {
	data, err := dataFiles.ReadFile(path.Join("data", filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read ruleset file: %w", err)
	}
	return LoadRulesetJSON(data)
}

// RawMap is the JSON export format of a generated map.
type RawMap struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	WrapX     bool   `json:"wrap_x"`
	Seed      uint64 `json:"seed"`
	Generator int    `json:"generator"`

	// Terrain holds one row per y, one terrain symbol per x.
	Terrain    []string     `json:"terrain"`
	Continents [][]int      `json:"continents"`
	Specials   []RawSpecial `json:"specials,omitempty"`

	NumContinents  int   `json:"num_continents"`
	StartPositions []Pos `json:"start_positions"`
}

// RawSpecial lists the overlays of a single tile.
type RawSpecial struct {
	X     int      `json:"x"`
	Y     int      `json:"y"`
	Names []string `json:"names"`
}

// MapInfo contains basic map information for listing.
type MapInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Seed          uint64 `json:"seed"`
	Generator     int    `json:"generator"`
	NumContinents int    `json:"num_continents"`
	Players       int    `json:"players"`
}

// Info summarises m for listings.
func (m *Map) Info() MapInfo {
	return MapInfo{
		ID:            m.ID,
		Name:          m.Name,
		Width:         m.Width,
		Height:        m.Height,
		Seed:          m.Seed,
		Generator:     m.Generator,
		NumContinents: m.NumContinents,
		Players:       len(m.StartPositions),
	}
}

// ToRaw converts m to its export format.
func (m *Map) ToRaw() *RawMap {
	raw := &RawMap{
		ID:             m.ID,
		Name:           m.Name,
		Width:          m.Width,
		Height:         m.Height,
		WrapX:          m.WrapX,
		Seed:           m.Seed,
		Generator:      m.Generator,
		Terrain:        make([]string, m.Height),
		Continents:     make([][]int, m.Height),
		NumContinents:  m.NumContinents,
		StartPositions: append([]Pos{}, m.StartPositions...),
	}
	row := make([]byte, m.Width)
	for y := 0; y < m.Height; y++ {
		raw.Continents[y] = make([]int, m.Width)
		for x := 0; x < m.Width; x++ {
			t := m.Tile(x, y)
			row[x] = t.Terrain.Symbol()
			raw.Continents[y][x] = t.Continent
			if t.Specials != 0 {
				raw.Specials = append(raw.Specials, RawSpecial{X: x, Y: y, Names: t.Specials.Names()})
			}
		}
		raw.Terrain[y] = string(row)
	}
	return raw
}

// ToJSON encodes m in the export format.
func (m *Map) ToJSON() ([]byte, error) {
	data, err := json.Marshal(m.ToRaw())
	if err != nil {
		return nil, fmt.Errorf("failed to encode map: %w", err)
	}
	return data, nil
}

// validate checks a raw map for errors.
func validate(raw *RawMap) error {
	if raw.Width <= 0 || raw.Height <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", raw.Width, raw.Height)
	}
	if len(raw.Terrain) != raw.Height {
		return fmt.Errorf("terrain height mismatch: expected %d, got %d", raw.Height, len(raw.Terrain))
	}
	for y, row := range raw.Terrain {
		if len(row) != raw.Width {
			return fmt.Errorf("terrain row %d width mismatch: expected %d, got %d", y, raw.Width, len(row))
		}
		for x := 0; x < len(row); x++ {
			if _, ok := TerrainFromSymbol(row[x]); !ok {
				return fmt.Errorf("unknown terrain symbol %q at (%d,%d)", row[x], x, y)
			}
		}
	}
	if raw.Continents != nil {
		if len(raw.Continents) != raw.Height {
			return fmt.Errorf("continent grid height mismatch: expected %d, got %d", raw.Height, len(raw.Continents))
		}
		for y, row := range raw.Continents {
			if len(row) != raw.Width {
				return fmt.Errorf("continent row %d width mismatch: expected %d, got %d", y, raw.Width, len(row))
			}
		}
	}
	for _, s := range raw.Specials {
		if s.X < 0 || s.X >= raw.Width || s.Y < 0 || s.Y >= raw.Height {
			return fmt.Errorf("special outside map at (%d,%d)", s.X, s.Y)
		}
	}
	for i, p := range raw.StartPositions {
		if p.X < 0 || p.X >= raw.Width || p.Y < 0 || p.Y >= raw.Height {
			return fmt.Errorf("start position %d outside map at (%d,%d)", i, p.X, p.Y)
		}
	}
	return nil
}

// LoadFromJSON decodes a map from its export format.
func LoadFromJSON(data []byte) (*Map, error) {
	var raw RawMap
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse map JSON: %w", err)
	}

	if err := validate(&raw); err != nil {
		return nil, fmt.Errorf("invalid map: %w", err)
	}

	return FromRaw(&raw), nil
}

// FromRaw builds a Map from a validated RawMap.
func FromRaw(raw *RawMap) *Map {
	m := New(raw.Width, raw.Height, raw.WrapX)
	m.ID = raw.ID
	m.Name = raw.Name
	m.Seed = raw.Seed
	m.Generator = raw.Generator
	m.NumContinents = raw.NumContinents
	m.StartPositions = append([]Pos{}, raw.StartPositions...)
	for y, row := range raw.Terrain {
		for x := 0; x < len(row); x++ {
			t, _ := TerrainFromSymbol(row[x])
			tile := m.Tile(x, y)
			tile.Terrain = t
			if raw.Continents != nil {
				tile.Continent = raw.Continents[y][x]
			}
		}
	}
	for _, s := range raw.Specials {
		m.Tile(s.X, s.Y).Specials = ParseSpecials(s.Names)
	}
	return m
}
