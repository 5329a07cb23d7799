// Package terrain turns a normalized height field into terrain types for the
// diffusion based generators.
package terrain

import (
	"io"
	"log"

	"mapforge/internal/heightfield"
	"mapforge/pkg/maps"
)

// Params are the density settings read by the classifier. Percentages are
// of the whole map except Deserts, which counts desert seeds.
type Params struct {
	Land      int
	Mountains int
	Forest    int
	Swamp     int
	Deserts   int

	SeparatePoles bool
}

// Classifier assigns terrain to every tile of a map from its height field.
type Classifier struct {
	m      *maps.Map
	hf     *heightfield.Field
	r      maps.Intner
	p      Params
	log    *log.Logger
	maxval int

	// running counts of spread passes
	forests int
	swamps  int
}

// New creates a classifier. The field is normalized immediately; its ceiling
// drives every threshold.
func New(m *maps.Map, hf *heightfield.Field, r maps.Intner, p Params, logger *log.Logger) *Classifier {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Classifier{
		m:      m,
		hf:     hf,
		r:      r,
		p:      p,
		log:    logger,
		maxval: hf.Normalize(),
	}
}

// Ceiling returns the height range after normalization.
func (c *Classifier) Ceiling() int { return c.maxval }

// Classify runs every pass in its fixed order: sea level, polar sea lanes,
// mountains, forests, swamps, deserts, plains, polar caps, monotony breaker.
// Rivers come after and are placed by the caller.
func (c *Classifier) Classify() {
	c.MakeLand()
	if c.p.SeparatePoles {
		c.MakePassable()
	}
	c.MakeMountains()
	c.MakeForests()
	c.MakeSwamps()
	c.MakeDeserts()
	c.MakePlains()
	c.MakePolar()
	c.MakeFair()
}

// maxLandIterations bounds the sea-level search.
const maxLandIterations = 50

// MakeLand searches for a sea level so that roughly Land percent of the
// tiles lie at or above it. Those become grassland, the rest ocean. The
// search stops once the land count is within ceiling/40 of the target or
// after 50 rounds, whichever comes first; it returns the final threshold.
func (c *Classifier) MakeLand() int {
	total := c.m.NumTiles() * c.p.Land / 100
	tres := c.maxval * c.p.Land / 100
	tolerance := c.maxval / 40
	if c.p.Land <= 0 {
		tres = c.maxval + 1
	}

	for i := 0; ; i++ {
		count := 0
		for y := 0; y < c.m.Height; y++ {
			for x := 0; x < c.m.Width; x++ {
				if c.hf.Get(x, y) < tres {
					c.m.SetTerrain(x, y, maps.TerrainOcean)
				} else {
					c.m.SetTerrain(x, y, maps.TerrainGrassland)
					count++
				}
			}
		}
		if abs(total-count) <= tolerance {
			break
		}
		if i+1 >= maxLandIterations {
			c.log.Printf("terrain: sea level search gave up with %d land tiles, wanted %d", count, total)
			break
		}
		// small thresholds would otherwise stick under integer scaling
		if count > total {
			next := tres * 11 / 10
			if next == tres {
				next++
			}
			tres = next
		} else {
			tres = tres * 9 / 10
		}
	}
	return tres
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
