package terrain

import "mapforge/pkg/maps"

// west, north, east, south: the order patches grow in.
var spreadDirs = [4][2]int{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}

// spreadFrame is one pending visit of a patch walk. next is the index of the
// next direction to try once the tile itself has been handled.
type spreadFrame struct {
	x, y int
	diff int
	next int
}

// MakeForests plants forest patches on random grassland until
// tiles*Forest/1000 tiles have been converted or the attempt budget runs out.
// Every round may also seed a patch inside the equatorial band.
func (c *Classifier) MakeForests() {
	want := c.m.NumTiles() * c.p.Forest / 1000
	limit := c.m.NumTiles() * 10
	c.forests = 0

	for tries := 0; c.forests < want; tries++ {
		if tries >= limit {
			c.log.Printf("terrain: forest target %d not reached, placed %d", want, c.forests)
			return
		}
		x := c.r.Intn(c.m.Width)
		y := c.r.Intn(c.m.Height)
		if c.m.Terrain(x, y) == maps.TerrainGrassland {
			c.makeForest(x, y)
		}
		if c.r.Intn(100) > 75 {
			y = c.r.Intn(c.m.Height*2/10) + c.m.Height*4/10
			x = c.r.Intn(c.m.Width)
			if c.m.Terrain(x, y) == maps.TerrainGrassland {
				c.makeForest(x, y)
			}
		}
	}
}

// makeForest grows one patch. Each grassland tile becomes jungle near the
// equator (half the time) or forest, and when its height is within diff of
// the seed it tries each cardinal neighbour with a 4 in 10 chance, diff
// shrinking by 5 per step.
func (c *Classifier) makeForest(sx, sy int) {
	height := c.hf.Get(sx, sy)
	h := c.m.Height
	stack := []spreadFrame{{x: sx, y: sy, diff: 25, next: -1}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.next < 0 {
			if f.y == 0 || f.y == h-1 || c.m.Terrain(f.x, f.y) != maps.TerrainGrassland {
				stack = stack[:len(stack)-1]
				continue
			}
			if f.y > h*42/100 && f.y < h*58/100 && c.r.Intn(100) > 50 {
				c.m.SetTerrain(f.x, f.y, maps.TerrainJungle)
			} else {
				c.m.SetTerrain(f.x, f.y, maps.TerrainForest)
			}
			c.forests++
			if abs(c.hf.Get(f.x, f.y)-height) >= f.diff {
				stack = stack[:len(stack)-1]
				continue
			}
			f.next = 0
		}
		if !c.pushNext(&stack, c.forestStep) {
			stack = stack[:len(stack)-1]
		}
	}
}

func (c *Classifier) forestStep(f *spreadFrame, d [2]int) (spreadFrame, bool) {
	if c.r.Intn(10) <= 5 {
		return spreadFrame{}, false
	}
	nx, ny, ok := c.m.Neighbor(f.x, f.y, d)
	if !ok {
		return spreadFrame{}, false
	}
	return spreadFrame{x: nx, y: ny, diff: f.diff - 5, next: -1}, true
}

// pushNext advances the top frame to its next direction accepted by step and
// pushes the child. It reports false once the frame has no directions left.
func (c *Classifier) pushNext(stack *[]spreadFrame, step func(*spreadFrame, [2]int) (spreadFrame, bool)) bool {
	top := len(*stack) - 1
	for (*stack)[top].next < len(spreadDirs) {
		d := spreadDirs[(*stack)[top].next]
		(*stack)[top].next++
		if child, ok := step(&(*stack)[top], d); ok {
			*stack = append(*stack, child)
			return true
		}
	}
	return false
}

// maxSwampTries bounds the swamp seeding loop.
const maxSwampTries = 1000

// MakeSwamps turns low grassland into swamp until tiles*Swamp/1000 seeds
// have taken. Each seed spreads to its land cardinal neighbours half the
// time.
func (c *Classifier) MakeSwamps() {
	want := c.m.NumTiles() * c.p.Swamp / 1000
	c.swamps = 0

	for tries := 0; c.swamps < want; tries++ {
		if tries >= maxSwampTries {
			c.log.Printf("terrain: swamp target %d not reached, placed %d", want, c.swamps)
			return
		}
		y := c.r.Intn(c.m.Height)
		x := c.r.Intn(c.m.Width)
		if c.m.Terrain(x, y) != maps.TerrainGrassland || c.hf.Get(x, y) >= c.maxval*60/100 {
			continue
		}
		c.m.SetTerrain(x, y, maps.TerrainSwamp)
		for _, d := range spreadDirs {
			nx, ny, ok := c.m.Neighbor(x, y, d)
			if !ok {
				continue
			}
			if c.r.Intn(10) > 5 && !c.m.IsOcean(nx, ny) {
				c.m.SetTerrain(nx, ny, maps.TerrainSwamp)
			}
		}
		c.swamps++
	}
}

// maxDesertRounds bounds the desert seeding loop.
const maxDesertRounds = 500

// MakeDeserts plants Deserts seeds, alternating between a southern and a
// northern band roughly 20 to 30 degrees from the equator.
func (c *Classifier) MakeDeserts() {
	h := c.m.Height
	left := c.p.Deserts
	for j := 0; left > 0 && j < maxDesertRounds; j++ {
		for _, base := range [2]int{h * 110 / 180, h * 60 / 180} {
			y := c.r.Intn(h*10/180) + base
			x := c.r.Intn(c.m.Width)
			if c.m.Terrain(x, y) == maps.TerrainGrassland {
				c.makeDesert(x, y)
				left--
			}
		}
	}
	if left > 0 {
		c.log.Printf("terrain: %d desert seeds left unplaced", left)
	}
}

// makeDesert floods grassland whose height is within diff of the seed,
// diff shrinking by one per step.
func (c *Classifier) makeDesert(sx, sy int) {
	height := c.hf.Get(sx, sy)
	stack := []spreadFrame{{x: sx, y: sy, diff: 50, next: -1}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.next < 0 {
			if abs(c.hf.Get(f.x, f.y)-height) >= f.diff || c.m.Terrain(f.x, f.y) != maps.TerrainGrassland {
				stack = stack[:len(stack)-1]
				continue
			}
			c.m.SetTerrain(f.x, f.y, maps.TerrainDesert)
			f.next = 0
		}
		if !c.pushNext(&stack, desertStep(c.m)) {
			stack = stack[:len(stack)-1]
		}
	}
}

func desertStep(m *maps.Map) func(*spreadFrame, [2]int) (spreadFrame, bool) {
	return func(f *spreadFrame, d [2]int) (spreadFrame, bool) {
		nx, ny, ok := m.Neighbor(f.x, f.y, d)
		if !ok {
			return spreadFrame{}, false
		}
		return spreadFrame{x: nx, y: ny, diff: f.diff - 1, next: -1}, true
	}
}
