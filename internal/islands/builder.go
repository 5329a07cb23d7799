// Package islands builds worlds out of individually grown islands. It backs
// generators 2, 3 and 4.
package islands

import (
	"fmt"
	"io"
	"log"

	"mapforge/internal/continents"
	"mapforge/internal/rivers"
	"mapforge/internal/startpos"
	"mapforge/pkg/maps"
)

// Params are the settings read by the island generators.
type Params struct {
	Players   int
	Land      int
	Mountains int
	Deserts   int
	Forest    int
	Swamp     int
	Rivers    int
	RiverMode rivers.Mode
}

// MaxContinents caps the number of continent ids a world may use.
const MaxContinents = 300

// firstIsland is the first continent id handed to a grown island; 1 and 2
// belong to the polar caps.
const firstIsland = continents.SouthPole + 1

// Builder grows islands one at a time and fills them with terrain.
type Builder struct {
	m   *maps.Map
	r   maps.Intner
	p   Params
	log *log.Logger

	// shape is a world-sized scratch grid holding the island being grown;
	// n, e, s, w bound it (s and e exclusive). After placement they bound
	// the island on the map instead.
	shape      []bool
	n, e, s, w int

	isleIndex int
	totalMass int
	checkMass int

	tileFactor int
	balance    int
	lastPlaced int

	riverBuck, mountBuck, desertBuck, forestBuck, swampBuck int

	// Islands holds the start budget per continent id.
	Islands []startpos.Island
}

// New creates a builder for m.
func New(m *maps.Map, r maps.Intner, p Params, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Builder{m: m, r: r, p: p, log: logger}
}

// Unplaced returns how much of the land budget has not been placed.
func (b *Builder) Unplaced() int { return b.checkMass }

// InitWorld resets the map to ocean with polar caps and primes the
// per-world state: the terrain buckets start at random negative offsets so
// the first islands do not all receive the same rounding.
func (b *Builder) InitWorld(totalMass int) {
	m := b.m
	for i := range m.Tiles {
		m.Tiles[i] = maps.Tile{Terrain: maps.TerrainOcean}
	}
	for x := 0; x < m.Width; x++ {
		b.polarTile(x, 0, continents.NorthPole, true)
		if b.r.Intn(9) == 0 {
			b.polarTile(x, 1, continents.NorthPole, false)
		}
		b.polarTile(x, m.Height-1, continents.SouthPole, true)
		if b.r.Intn(9) == 0 {
			b.polarTile(x, m.Height-2, continents.SouthPole, false)
		}
	}
	m.NumContinents = continents.SouthPole

	b.shape = make([]bool, m.NumTiles())
	b.Islands = make([]startpos.Island, firstIsland)
	b.totalMass = totalMass
	b.checkMass = totalMass
	b.balance = 0
	b.isleIndex = firstIsland

	if totalMass > 3000 {
		b.log.Printf("islands: high landmass %d, this may take a while", totalMass)
	}

	sum := b.p.Rivers + b.p.Mountains + b.p.Deserts + b.p.Forest + b.p.Swamp
	if sum <= 90 {
		sum = 100
	} else {
		sum = sum * 11 / 10
	}
	b.tileFactor = totalMass / sum
	b.riverBuck = -b.r.Intn(max(totalMass, 1))
	b.mountBuck = -b.r.Intn(max(totalMass, 1))
	b.desertBuck = -b.r.Intn(max(totalMass, 1))
	b.forestBuck = -b.r.Intn(max(totalMass, 1))
	b.swampBuck = -b.r.Intn(max(totalMass, 1))
	b.lastPlaced = totalMass
}

// polarTile sets a polar tile: the outer row is mostly arctic, the second
// row mostly tundra.
func (b *Builder) polarTile(x, y, cont int, outer bool) {
	t := b.m.Tile(x, y)
	common, rare := maps.TerrainArctic, maps.TerrainTundra
	if !outer {
		common, rare = rare, common
	}
	if b.r.Intn(9) > 0 {
		t.Terrain = common
	} else {
		t.Terrain = rare
	}
	t.Continent = cont
}

// MakeIsland grows, places and fills one island of about mass tiles that
// will host starters players. When the island cannot be placed it is
// retried one tile smaller while it stays above minPct percent of the
// requested size. It reports whether an island was placed.
func (b *Builder) MakeIsland(mass, starters, minPct int) bool {
	if b.shape == nil {
		panic("islands: MakeIsland before InitWorld")
	}
	mass -= b.balance
	if b.isleIndex >= MaxContinents {
		return false
	}

	// don't grow what we could not place last time
	if limit := b.lastPlaced + 1 + b.lastPlaced/50; mass > limit {
		mass = limit
	}
	// growth does not cope with islands wider than the map is tall
	if limit := (b.m.Height - 6) * (b.m.Height - 6); mass > limit {
		mass = limit
	}
	if limit := (b.m.Width - 2) * (b.m.Width - 2); mass > limit {
		mass = limit
	}
	if mass <= 0 {
		return false
	}

	placed := 0
	for i := mass; i > 0 && i*100 > mass*minPct; i-- {
		if b.createIsland(i) {
			placed = i
			break
		}
	}
	if placed == 0 {
		b.log.Printf("islands: could not place island %d of mass %d", b.isleIndex, mass)
		return false
	}

	b.lastPlaced = placed
	if placed*10 > mass {
		b.balance = placed - mass
	} else {
		b.balance = 0
	}
	b.log.Printf("islands: island %d wanted %d placed %d balance %d left %d",
		b.isleIndex, mass, placed, b.balance, b.checkMass)

	for len(b.Islands) <= b.isleIndex {
		b.Islands = append(b.Islands, startpos.Island{})
	}
	b.Islands[b.isleIndex].Starters = starters

	b.fillAll(placed * b.tileFactor)

	b.m.NumContinents = b.isleIndex
	b.isleIndex++
	return true
}

// createIsland grows an island shape of mass tiles in the scratch grid and
// tries to place it on the map.
func (b *Builder) createIsland(mass int) bool {
	clear(b.shape)
	W, H := b.m.Width, b.m.Height
	x, y := W/2, H/2
	b.shape[y*W+x] = true
	b.n, b.w = y-1, x-1
	b.s, b.e = y+2, x+2

	left := mass - 1
	tries := mass*(2+mass/20) + 99
	for left > 0 && tries > 0 {
		tries--
		x = b.w + b.r.Intn(b.e-b.w)
		y = b.n + b.r.Intn(b.s-b.n)
		if !b.shape[y*W+x] && b.elevatedCardinal(x, y) > 0 {
			b.shape[y*W+x] = true
			left--
			if y >= b.s-1 && b.s < H-2 {
				b.s++
			}
			if x >= b.e-1 && b.e < W-2 {
				b.e++
			}
			if y <= b.n && b.n > 2 {
				b.n--
			}
			if x <= b.w && b.w > 2 {
				b.w--
			}
		}
		if left < mass/10 {
			left = b.fillFrontier(left)
		}
	}
	if left > 0 {
		b.log.Printf("islands: growth ended early with %d/%d", mass-left, mass)
	}

	for tries := b.m.NumTiles() / 4; tries > 0; tries-- {
		if b.placeIsland() {
			return true
		}
	}
	return false
}

// fillFrontier deterministically adds frontier cells inside the bounding
// box until left reaches zero, returning what remains.
func (b *Builder) fillFrontier(left int) int {
	W := b.m.Width
	for y := b.n; y < b.s && left > 0; y++ {
		for x := b.w; x < b.e && left > 0; x++ {
			if !b.shape[y*W+x] && b.elevatedCardinal(x, y) > 0 {
				b.shape[y*W+x] = true
				left--
			}
		}
	}
	return left
}

func (b *Builder) elevatedCardinal(x, y int) int {
	W, H := b.m.Width, b.m.Height
	n := 0
	for _, d := range maps.Dirs4 {
		nx, ny := x+d[0], y+d[1]
		if nx < 0 || ny < 0 || nx >= W || ny >= H {
			continue
		}
		if b.shape[ny*W+nx] {
			n++
		}
	}
	return n
}

// placeIsland pastes the shape at a random offset unless some island tile
// would land on or next to existing land. The diagonal of the bounding box
// is checked first since it rejects most bad offsets cheaply.
func (b *Builder) placeIsland() bool {
	W := b.m.Width
	xo := b.r.Intn(b.m.Width)
	yo := b.r.Intn(b.m.Height)

	blocked := func(x, y int) bool {
		mx, my, ok := b.m.Normalize(x+xo-b.w, y+yo-b.n)
		if !ok {
			return true
		}
		return b.shape[y*W+x] && b.isCoastline(mx, my)
	}

	for y, x := b.n, b.w; y < b.s && x < b.e; y, x = y+1, x+1 {
		if blocked(x, y) {
			return false
		}
	}
	for y := b.n; y < b.s; y++ {
		for x := b.w; x < b.e; x++ {
			if blocked(x, y) {
				return false
			}
		}
	}

	placed := 0
	for y := b.n; y < b.s; y++ {
		for x := b.w; x < b.e; x++ {
			if !b.shape[y*W+x] {
				continue
			}
			mx, my, _ := b.m.Normalize(x+xo-b.w, y+yo-b.n)
			t := b.m.Tile(mx, my)
			t.Terrain = maps.TerrainGrassland
			t.Continent = b.isleIndex
			b.checkMass--
			placed++
		}
	}
	if placed == 0 {
		panic(fmt.Sprintf("islands: empty island shape for continent %d", b.isleIndex))
	}

	b.s += yo - b.n
	b.e += xo - b.w
	b.n = yo
	b.w = xo
	return true
}

// isCoastline reports whether (x, y) or any adjacent tile is land.
func (b *Builder) isCoastline(x, y int) bool {
	if !b.m.IsOcean(x, y) {
		return true
	}
	return b.m.CountAdjacent(x, y, func(t *maps.Tile) bool { return !t.Terrain.IsOcean() }) > 0
}
