package islands

import (
	"mapforge/internal/rivers"
	"mapforge/pkg/maps"
)

// fillAll spends the terrain buckets on the island just placed. mass is the
// placed size scaled by the tile factor.
func (b *Builder) fillAll(mass int) {
	if b.p.Rivers > 0 {
		b.riverBuck += b.p.Rivers * mass
		b.fillRivers(1, &b.riverBuck)
	}
	b.mountBuck += b.p.Mountains * mass
	b.fill(20, &b.mountBuck, fillSpec{
		warm: [2]maps.Terrain{maps.TerrainHills, maps.TerrainMountains}, warmWeight: [2]int{3, 1},
		cold: [2]maps.Terrain{maps.TerrainHills, maps.TerrainMountains}, coldWeight: [2]int{3, 1},
	})
	b.desertBuck += b.p.Deserts * mass
	b.fill(40, &b.desertBuck, fillSpec{
		warm: [2]maps.Terrain{maps.TerrainDesert, maps.TerrainDesert}, warmWeight: [2]int{b.p.Deserts, b.p.Deserts},
		cold: [2]maps.Terrain{maps.TerrainDesert, maps.TerrainTundra}, coldWeight: [2]int{b.p.Deserts, b.p.Deserts},
	})
	b.forestBuck += b.p.Forest * mass
	b.fill(60, &b.forestBuck, fillSpec{
		warm: [2]maps.Terrain{maps.TerrainForest, maps.TerrainJungle}, warmWeight: [2]int{b.p.Forest, b.p.Swamp},
		cold: [2]maps.Terrain{maps.TerrainForest, maps.TerrainTundra}, coldWeight: [2]int{b.p.Forest, b.p.Swamp},
	})
	b.swampBuck += b.p.Swamp * mass
	b.fill(80, &b.swampBuck, fillSpec{
		warm: [2]maps.Terrain{maps.TerrainSwamp, maps.TerrainSwamp}, warmWeight: [2]int{b.p.Swamp, b.p.Swamp},
		cold: [2]maps.Terrain{maps.TerrainSwamp, maps.TerrainSwamp}, coldWeight: [2]int{b.p.Swamp, b.p.Swamp},
	})
}

// fillSpec is a weighted pair of terrains for warm and cold latitudes.
type fillSpec struct {
	warm, cold             [2]maps.Terrain
	warmWeight, coldWeight [2]int
}

// draw takes whole tiles out of a bucket. The bucket is left negative so
// the remainder carries over to the next island.
func (b *Builder) draw(bucket *int) (count, failsafe int) {
	if *bucket <= 0 {
		return 0, 0
	}
	capac := max(b.totalMass, 1)
	count = *bucket/capac + 1
	*bucket -= count * capac
	failsafe = count * (b.s - b.n) * (b.e - b.w)
	if failsafe < 0 {
		failsafe = -failsafe
	}
	return count, failsafe
}

func (b *Builder) randomIslandTile() (int, int) {
	x := b.w + b.r.Intn(b.e-b.w)
	y := b.n + b.r.Intn(b.s-b.n)
	x, y, ok := b.m.Normalize(x, y)
	if !ok {
		panic("islands: island bounds left the map")
	}
	return x, y
}

// fill converts grassland of the current island. Tiles next to the same
// terrain are preferred once a third of the budget is spent; coastal tiles
// are only taken with probability coast percent.
func (b *Builder) fill(coast int, bucket *int, fs fillSpec) {
	i, failsafe := b.draw(bucket)
	k := i
	if fs.warmWeight[0]+fs.warmWeight[1]+fs.coldWeight[0]+fs.coldWeight[1] <= 0 {
		i = 0
	}

	for ; i > 0 && failsafe > 0; failsafe-- {
		x, y := b.randomIslandTile()
		t := b.m.Tile(x, y)
		if t.Continent != b.isleIndex || t.Terrain != maps.TerrainGrassland {
			continue
		}

		near := func(tr maps.Terrain) bool {
			return b.m.CountAdjacent(x, y, maps.IsTerrain(tr)) > 0
		}
		contiguous := i*3 > k*2 ||
			near(fs.warm[0]) || near(fs.warm[1]) ||
			b.r.Intn(100) < 50 ||
			near(fs.cold[0]) || near(fs.cold[1])
		if contiguous && (!b.m.IsCoastal(x, y) || b.r.Intn(100) < coast) {
			if isCold(y, b.m.Height) {
				t.Terrain = pick(b.r, fs.cold, fs.coldWeight)
			} else {
				t.Terrain = pick(b.r, fs.warm, fs.warmWeight)
			}
		}
		if t.Terrain != maps.TerrainGrassland {
			i--
		}
	}
}

func pick(r maps.Intner, ts [2]maps.Terrain, weights [2]int) maps.Terrain {
	if r.Intn(weights[0]+weights[1]) < weights[0] {
		return ts[0]
	}
	return ts[1]
}

// fillRivers lays river tiles on the current island. A river tile always
// touches the sea or another river on a cardinal side and never completes a
// 2x2 block of river.
func (b *Builder) fillRivers(coast int, bucket *int) {
	i, failsafe := b.draw(bucket)
	k := i

	for ; i > 0 && failsafe > 0; failsafe-- {
		x, y := b.randomIslandTile()
		t := b.m.Tile(x, y)
		if t.Continent != b.isleIndex || t.Terrain != maps.TerrainGrassland {
			continue
		}

		contiguous := i*3 > k*2 ||
			b.m.CountAdjacent(x, y, maps.IsRiverTile) > 0 ||
			b.r.Intn(100) < 50
		if !contiguous || (b.m.IsCoastal(x, y) && b.r.Intn(100) >= coast) {
			continue
		}
		if !b.riverFits(x, y) {
			continue
		}
		if b.p.RiverMode == rivers.ModeTerrain {
			t.Terrain = maps.TerrainRiver
		} else {
			t.Specials |= maps.SpecialRiver
		}
		i--
	}
}

func (b *Builder) riverFits(x, y int) bool {
	waterSide := b.m.CountCardinal(x, y, func(t *maps.Tile) bool {
		return t.Terrain.IsOcean() || maps.IsRiverTile(t)
	}) > 0
	if !waterSide {
		return false
	}
	if b.m.CountAdjacent(x, y, maps.IsOceanTile) >= 4 {
		return false
	}
	if b.m.CountAdjacent(x, y, maps.IsRiverTile) >= 3 {
		return false
	}
	return !b.closesRiverBlock(x, y)
}

// closesRiverBlock reports whether a river at (x, y) would complete a 2x2
// block of river tiles.
func (b *Builder) closesRiverBlock(x, y int) bool {
	for _, c := range [4][2]int{{-1, -1}, {0, -1}, {-1, 0}, {0, 0}} {
		all := true
		for _, d := range [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
			nx, ny, ok := b.m.Normalize(x+c[0]+d[0], y+c[1]+d[1])
			if !ok {
				all = false
				break
			}
			if nx == x && ny == y {
				continue
			}
			if !b.m.IsRiver(nx, ny) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// isCold reports whether row y lies in the polar fifth at either end.
func isCold(y, height int) bool {
	return y*5 < height || y*5 > height*4
}
