// Package rivers routes rivers downhill from random sources to the sea or
// to existing rivers.
package rivers

import (
	"io"
	"log"

	"mapforge/internal/heightfield"
	"mapforge/pkg/maps"
)

// Mode selects how committed rivers are stored on the map.
type Mode int

const (
	// ModeOverlay sets SpecialRiver and keeps the underlying terrain.
	ModeOverlay Mode = iota
	// ModeTerrain replaces the terrain with TerrainRiver.
	ModeTerrain
)

func (m Mode) String() string {
	if m == ModeTerrain {
		return "terrain"
	}
	return "overlay"
}

// MaxTries bounds the number of source tiles drawn by Place.
const MaxTries = 32767

const (
	flagBlocked uint8 = 1 << iota
	flagRiver
)

// Router places rivers on a classified map.
type Router struct {
	m    *maps.Map
	hf   *heightfield.Field
	r    maps.Intner
	mode Mode
	log  *log.Logger

	// scratch holds the flags of the river being attempted
	scratch []uint8
	tests   []Test
}

// New creates a router. hf may be nil, in which case height never breaks
// ties.
func New(m *maps.Map, hf *heightfield.Field, r maps.Intner, mode Mode, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Router{
		m:       m,
		hf:      hf,
		r:       r,
		mode:    mode,
		log:     logger,
		scratch: make([]uint8, m.NumTiles()),
		tests:   Tests,
	}
}

// Target is the number of river tiles aimed for given the river length
// setting and the land percentage.
func Target(m *maps.Map, riverLength, land int) int {
	return riverLength * m.NumTiles() * land / 0xD000
}

// Place draws random sources and grows rivers from them until target river
// tiles are on the map or MaxTries sources have been drawn. It returns the
// number of tiles committed.
func (rt *Router) Place(target int) int {
	placed := 0
	for tries := 0; placed < target && tries < MaxTries; tries++ {
		x := rt.r.Intn(rt.m.Width)
		y := rt.r.Intn(rt.m.Height)
		if !rt.suitableSource(x, y, tries) {
			continue
		}
		if rt.Grow(x, y) {
			placed += rt.commit()
		} else {
			rt.log.Printf("rivers: river from (%d,%d) got stuck", x, y)
		}
	}
	if placed < target {
		rt.log.Printf("rivers: placed %d of %d river tiles", placed, target)
	}
	return placed
}

// suitableSource applies the source rules. Highland surroundings, hills,
// mountains, arctic and desert become acceptable one by one as tries passes
// 5/10, 6/10, 7/10, 8/10 and 9/10 of MaxTries.
func (rt *Router) suitableSource(x, y, tries int) bool {
	t := rt.m.Terrain(x, y)
	if t.IsOcean() || rt.m.IsRiver(x, y) {
		return false
	}
	if rt.m.CountCardinal(x, y, maps.IsRiverTile)+rt.m.CountCardinal(x, y, maps.IsOceanTile) > 1 {
		return false
	}
	if tries < MaxTries/10*5 && rt.highlandPercent(x, y) >= 90 {
		return false
	}
	exclusions := []struct {
		terrain maps.Terrain
		tenths  int
	}{
		{maps.TerrainHills, 6},
		{maps.TerrainMountains, 7},
		{maps.TerrainArctic, 8},
		{maps.TerrainDesert, 9},
	}
	for _, e := range exclusions {
		if t == e.terrain && tries < MaxTries/10*e.tenths {
			return false
		}
	}
	return true
}

func (rt *Router) highlandPercent(x, y int) int {
	adj := rt.m.Adjacent(x, y)
	if len(adj) == 0 {
		return 0
	}
	n := 0
	for _, p := range adj {
		switch rt.m.Terrain(p.X, p.Y) {
		case maps.TerrainHills, maps.TerrainMountains:
			n++
		}
	}
	return n * 100 / len(adj)
}

// Grow attempts one river from (x, y) on a fresh scratch map. It reports
// whether the river reached the sea or another river; the path is left in
// the scratch map for commit.
func (rt *Router) Grow(x, y int) bool {
	clear(rt.scratch)

	for {
		rt.scratch[rt.m.Index(x, y)] |= flagRiver

		if rt.m.CountCardinal(x, y, maps.IsRiverTile) > 0 || rt.m.CountCardinal(x, y, maps.IsOceanTile) > 0 {
			return true
		}

		var cand [4]maps.Pos
		var valid [4]bool
		n := 0
		for i, d := range maps.Dirs4 {
			if nx, ny, ok := rt.m.Neighbor(x, y, d); ok {
				cand[i] = maps.Pos{X: nx, Y: ny}
				valid[i] = true
				n++
			}
		}
		if n == 0 {
			return false
		}

		var score [4]int
		for _, test := range rt.tests {
			best := -1
			for i := range cand {
				if !valid[i] {
					continue
				}
				score[i] = test.Score(rt, cand[i].X, cand[i].Y)
				if best == -1 || score[i] < best {
					best = score[i]
				}
			}
			if best > 0 && test.Fatal {
				return false
			}
			for i := range cand {
				if valid[i] && score[i] != best {
					valid[i] = false
				}
			}
		}

		survivors := 0
		for _, v := range valid {
			if v {
				survivors++
			}
		}
		if survivors == 0 {
			return false
		}

		pick := rt.r.Intn(survivors)
		for i, v := range valid {
			if !v {
				continue
			}
			if pick > 0 {
				pick--
				continue
			}
			rt.block(x, y)
			x, y = cand[i].X, cand[i].Y
			break
		}
	}
}

func (rt *Router) block(x, y int) {
	rt.scratch[rt.m.Index(x, y)] |= flagBlocked
	for _, p := range rt.m.Adjacent(x, y) {
		rt.scratch[rt.m.Index(p.X, p.Y)] |= flagBlocked
	}
}

func (rt *Router) blocked(x, y int) bool {
	return rt.scratch[rt.m.Index(x, y)]&flagBlocked != 0
}

// commit copies the scratch river onto the map.
func (rt *Router) commit() int {
	n := 0
	for y := 0; y < rt.m.Height; y++ {
		for x := 0; x < rt.m.Width; x++ {
			if rt.scratch[rt.m.Index(x, y)]&flagRiver == 0 {
				continue
			}
			if rt.mode == ModeTerrain {
				rt.m.SetTerrain(x, y, maps.TerrainRiver)
			} else {
				rt.m.SetSpecial(x, y, maps.SpecialRiver)
			}
			n++
		}
	}
	return n
}
