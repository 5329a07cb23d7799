// Package mapgen drives a whole generation run: it picks the generator,
// falls back to simpler ones when the settings do not suit it, and adds
// continents, resources, huts and start positions to the result.
package mapgen

import (
	"fmt"
	"io"
	"log"
	"os"

	"mapforge/internal/continents"
	"mapforge/internal/heightfield"
	"mapforge/internal/islands"
	"mapforge/internal/rivers"
	"mapforge/internal/rng"
	"mapforge/internal/startpos"
	"mapforge/internal/terrain"
	"mapforge/pkg/maps"
)

// DiagnosticSaver stores the state of a run that had to be aborted.
type DiagnosticSaver interface {
	SaveDiagnostic(m *maps.Map, p Params, cause error) error
}

// Context carries everything a run needs besides the random stream.
type Context struct {
	Params Params
	Rules  *maps.Ruleset
	Log    *log.Logger

	// Diagnostics is called before a fatal error is returned. Optional.
	Diagnostics DiagnosticSaver

	// ValidContinent optionally vetoes continents as starting areas.
	ValidContinent func(id int) bool
}

// NewContext returns a context using the default ruleset. Verbose params
// log to stderr, otherwise logging is discarded.
func NewContext(p Params) *Context {
	logger := log.New(io.Discard, "", 0)
	if p.Verbose {
		logger = log.New(os.Stderr, "mapgen: ", log.LstdFlags)
	}
	return &Context{Params: p, Rules: maps.DefaultRuleset(), Log: logger}
}

// Result is a finished map together with how it was made.
type Result struct {
	Map *maps.Map

	// Requested is the generator asked for, Generator the one that ran.
	// Fallbacks lists each substituted id in order.
	Requested int
	Generator int
	Fallbacks []int

	Seed        uint64
	Placement   *startpos.Placement
	RiverTiles  int
	Specials    int
	Huts        int
	TinyIslands int
}

// Generate runs the default context.
func Generate(p Params, r *rng.RNG) (*Result, error) {
	return NewContext(p).Generate(r)
}

// Generate builds a map. The stream r only supplies a seed when Params.Seed
// is 0; the run itself uses its own seeded stream. On return r is back in
// the state it was passed in, seed draw included, so calling again with the
// same stream and a zero seed repeats the map. Callers wanting a series of
// fresh maps draw the seeds themselves.
func (c *Context) Generate(r *rng.RNG) (*Result, error) {
	p := c.Params
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if c.Rules == nil {
		c.Rules = maps.DefaultRuleset()
	}
	if c.Log == nil {
		c.Log = log.New(io.Discard, "", 0)
	}

	saved := r.State()
	defer func() {
		if err := r.Restore(saved); err != nil {
			panic(fmt.Sprintf("mapgen: restoring random state: %v", err))
		}
	}()
	seed := p.Seed
	if seed == 0 {
		seed = r.Uint64() | 1
	}
	r.Reseed(seed)

	m := maps.New(p.Width, p.Height, p.WrapX)
	m.Seed = seed
	res := &Result{Map: m, Requested: p.Generator, Seed: seed}

	preset := c.buildTerrain(m, r, p, res)
	m.Generator = res.Generator

	if p.RemoveTinyIslands {
		res.TinyIslands = continents.RemoveTinyIslands(m)
	}
	if res.Generator == 1 || res.Generator == 5 {
		continents.Assign(m, p.SeparatePoles)
	}

	res.Specials = addSpecials(m, c.Rules, r, p.Riches)
	res.Huts = makeHuts(m, r, p.Huts)
	res.RiverTiles = countRivers(m)

	firstCont := 1
	if preset != nil || p.SeparatePoles {
		firstCont = continents.SouthPole + 1
	}

	alloc := startpos.New(m, c.Rules, r, firstCont, c.Log)
	alloc.ValidContinent = c.ValidContinent
	placement, err := alloc.Allocate(p.Players, preset)
	if err != nil {
		return nil, c.abort(m, p, err)
	}
	res.Placement = placement
	m.StartPositions = placement.Positions
	c.Log.Printf("generator %d (requested %d) seed %d: %d continents, %d river tiles, %d huts",
		res.Generator, res.Requested, seed, m.NumContinents, res.RiverTiles, res.Huts)
	return res, nil
}

// buildTerrain runs the requested generator and its fallbacks. It returns
// the start budget decided by the island generators, nil for the others.
func (c *Context) buildTerrain(m *maps.Map, r *rng.RNG, p Params, res *Result) []startpos.Island {
	gen := p.Generator
	for {
		switch gen {
		case 1, 5:
			var hf *heightfield.Field
			if gen == 1 {
				hf = fractalHeights(m, r)
			} else {
				hf = midpointHeights(m, r, p.Land, p.SeparatePoles)
			}
			c.classify(m, hf, r, p)
			res.Generator = gen
			return nil
		}

		b := islands.New(m, r, islands.Params{
			Players:   p.Players,
			Land:      p.Land,
			Mountains: p.Mountains,
			Deserts:   p.Deserts,
			Forest:    p.Forest,
			Swamp:     p.Swamp,
			Rivers:    p.Rivers,
			RiverMode: p.RiverMode,
		}, c.Log)
		var ok bool
		switch gen {
		case 4:
			ok = b.Generator4()
		case 3:
			ok = b.Generator3()
		default:
			ok = b.Generator2()
		}
		if ok {
			c.Log.Printf("generator %d left %d land tiles unplaced", gen, b.Unplaced())
			res.Generator = gen
			return b.Islands
		}

		c.Log.Printf("generator %d does not suit these settings, falling back to %d", gen, gen-1)
		gen--
		res.Fallbacks = append(res.Fallbacks, gen)
		resetMap(m)
	}
}

func (c *Context) classify(m *maps.Map, hf *heightfield.Field, r *rng.RNG, p Params) {
	cl := terrain.New(m, hf, r, terrain.Params{
		Land:          p.Land,
		Mountains:     p.Mountains,
		Forest:        p.Forest,
		Swamp:         p.Swamp,
		Deserts:       p.Deserts,
		SeparatePoles: p.SeparatePoles,
	}, c.Log)
	cl.Classify()
	if p.Rivers > 0 {
		rivers.New(m, hf, r, p.RiverMode, c.Log).Place(rivers.Target(m, p.Rivers, p.Land))
	}
}

// abort hands the map to the diagnostic hook and returns err.
func (c *Context) abort(m *maps.Map, p Params, err error) error {
	if c.Diagnostics != nil {
		if derr := c.Diagnostics.SaveDiagnostic(m, p, err); derr != nil {
			c.Log.Printf("saving diagnostic: %v", derr)
		}
	}
	return fmt.Errorf("generate map: %w", err)
}

func resetMap(m *maps.Map) {
	for i := range m.Tiles {
		m.Tiles[i] = maps.Tile{Terrain: maps.TerrainLast}
	}
	m.NumContinents = 0
}

func countRivers(m *maps.Map) int {
	n := 0
	for i := range m.Tiles {
		if maps.IsRiverTile(&m.Tiles[i]) {
			n++
		}
	}
	return n
}
