package mapgen

import (
	"fmt"

	"mapforge/internal/rivers"
)

// Parameter limits.
const (
	MinWidth   = 40
	MaxWidth   = 200
	MinHeight  = 25
	MaxHeight  = 100
	MaxPlayers = 30
)

// Params are the tunables of one generation run.
//
// The terrain densities mean different things per generator family. The
// height map generators (1 and 5) read Mountains, Forest and Swamp as parts
// per thousand of all tiles and Deserts as a count of desert seeds; whatever
// grassland is left stays grassland. The island generators (2 to 4) read
// Mountains, Deserts, Forest, Swamp and Rivers as percentages of each
// island's land. Grass only takes part in normalising the densities.
type Params struct {
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	WrapX     bool `json:"wrap_x"`
	Generator int  `json:"generator"`

	// Seed 0 draws a fresh seed from the caller's stream.
	Seed    uint64 `json:"seed"`
	Players int    `json:"players"`

	// Land is the percentage of the map that is land.
	Land      int `json:"land"`
	Mountains int `json:"mountains"`
	Deserts   int `json:"deserts"`
	Forest    int `json:"forest"`
	Swamp     int `json:"swamp"`
	Grass     int `json:"grass"`
	Rivers    int `json:"rivers"`
	// Huts is huts per 2000 tiles and Riches resources per 1000 candidate
	// tiles.
	Huts   int `json:"huts"`
	Riches int `json:"riches"`

	SeparatePoles     bool        `json:"separate_poles"`
	RemoveTinyIslands bool        `json:"remove_tiny_islands"`
	RiverMode         rivers.Mode `json:"river_mode"`

	Verbose bool `json:"-"`
}

// DefaultParams returns the classic defaults.
func DefaultParams() Params {
	return Params{
		Width:             80,
		Height:            50,
		WrapX:             true,
		Generator:         1,
		Players:           2,
		Land:              30,
		Mountains:         10,
		Deserts:           5,
		Forest:            25,
		Swamp:             5,
		Grass:             35,
		Rivers:            50,
		Huts:              50,
		Riches:            250,
		SeparatePoles:     true,
		RemoveTinyIslands: true,
		RiverMode:         rivers.ModeOverlay,
	}
}

type bound struct {
	name     string
	v        int
	min, max int
}

// Validate checks every setting against its range. When the terrain shares
// add up to more than 100 they are scaled down, grass taking the rest.
func (p *Params) Validate() error {
	for _, b := range []bound{
		{"width", p.Width, MinWidth, MaxWidth},
		{"height", p.Height, MinHeight, MaxHeight},
		{"generator", p.Generator, 1, 5},
		{"players", p.Players, 1, MaxPlayers},
		{"land", p.Land, 0, 100},
		{"mountains", p.Mountains, 0, 100},
		{"deserts", p.Deserts, 0, 100},
		{"forest", p.Forest, 0, 100},
		{"swamp", p.Swamp, 0, 100},
		{"grass", p.Grass, 0, 100},
		{"rivers", p.Rivers, 0, 1000},
		{"huts", p.Huts, 0, 500},
		{"riches", p.Riches, 0, 1000},
	} {
		if b.v < b.min || b.v > b.max {
			return fmt.Errorf("%w: %s %d outside %d..%d", ErrInvalidParams, b.name, b.v, b.min, b.max)
		}
	}
	if p.RiverMode != rivers.ModeOverlay && p.RiverMode != rivers.ModeTerrain {
		return fmt.Errorf("%w: unknown river mode %d", ErrInvalidParams, p.RiverMode)
	}

	if total := p.Mountains + p.Deserts + p.Forest + p.Swamp + p.Grass; total > 100 {
		p.Mountains = p.Mountains * 100 / total
		p.Deserts = p.Deserts * 100 / total
		p.Forest = p.Forest * 100 / total
		p.Swamp = p.Swamp * 100 / total
		p.Grass = 100 - p.Mountains - p.Deserts - p.Forest - p.Swamp
	}
	return nil
}

// String is the compact form shown by the viewer and copied to the
// clipboard.
func (p Params) String() string {
	return fmt.Sprintf("gen=%d seed=%d size=%dx%d land=%d players=%d",
		p.Generator, p.Seed, p.Width, p.Height, p.Land, p.Players)
}
