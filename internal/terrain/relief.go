package terrain

import "mapforge/pkg/maps"

// MakeMountains tunes a hill threshold for ten rounds, 5% at a time, toward
// tiles*Mountains/1000 tiles above it, then turns land above the threshold
// into mountains (25%) or hills (50% of the rest).
func (c *Classifier) MakeMountains() int {
	thill := c.maxval * 8 / 10
	want := c.m.NumTiles() * c.p.Mountains / 1000

	for j := 0; j < 10; j++ {
		mount := 0
		for _, v := range c.hf.Cells() {
			if v > thill {
				mount++
			}
		}
		if mount < want {
			thill = thill * 95 / 100
		} else {
			thill = thill * 105 / 100
		}
	}

	for y := 0; y < c.m.Height; y++ {
		for x := 0; x < c.m.Width; x++ {
			if c.hf.Get(x, y) <= thill || c.m.IsOcean(x, y) {
				continue
			}
			if c.r.Intn(100) > 75 {
				c.m.SetTerrain(x, y, maps.TerrainMountains)
			} else if c.r.Intn(100) > 25 {
				c.m.SetTerrain(x, y, maps.TerrainHills)
			}
		}
	}
	return thill
}

// MakePlains turns about half of the remaining grassland into plains.
func (c *Classifier) MakePlains() {
	MakePlains(c.m, c.r)
}

// MakePlains is the plains pass on its own, shared with the island
// generators.
func MakePlains(m *maps.Map, r maps.Intner) {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Terrain(x, y) == maps.TerrainGrassland && r.Intn(100) > 50 {
				m.SetTerrain(x, y, maps.TerrainPlains)
			}
		}
	}
}

// MakePassable opens a sea lane between the polar caps and the rest of the
// world: rows 2 and h-3 become ocean, rows 1, 3, h-2 and h-4 do so with
// even odds per tile.
func (c *Classifier) MakePassable() {
	h := c.m.Height
	for x := 0; x < c.m.Width; x++ {
		c.m.SetTerrain(x, 2, maps.TerrainOcean)
		if c.r.Intn(2) == 1 {
			c.m.SetTerrain(x, 1, maps.TerrainOcean)
		}
		if c.r.Intn(2) == 1 {
			c.m.SetTerrain(x, 3, maps.TerrainOcean)
		}
		c.m.SetTerrain(x, h-3, maps.TerrainOcean)
		if c.r.Intn(2) == 1 {
			c.m.SetTerrain(x, h-2, maps.TerrainOcean)
		}
		if c.r.Intn(2) == 1 {
			c.m.SetTerrain(x, h-4, maps.TerrainOcean)
		}
	}
}

// MakePolar freezes the top and bottom tenth of the map. Grassland there
// turns to arctic (outer two rows) or tundra when its height plus a latitude
// bonus beats a random draw. Afterwards the outermost row is all arctic, land
// on the second row is arctic, and land on the third row is tundra unless it
// is arctic already.
func (c *Classifier) MakePolar() {
	w, h := c.m.Width, c.m.Height
	band := h / 10

	for y := 0; y < band; y++ {
		c.freezeRow(y, band-y*25, y < 2)
	}
	for y := h - band; y < h; y++ {
		c.freezeRow(y, band-(h-1-y)*25, y > h-3)
	}

	for x := 0; x < w; x++ {
		for _, y := range [2]int{0, h - 1} {
			c.m.SetTerrain(x, y, maps.TerrainArctic)
		}
		for _, y := range [2]int{1, h - 2} {
			if !c.m.IsOcean(x, y) {
				c.m.SetTerrain(x, y, maps.TerrainArctic)
			}
		}
		for _, y := range [2]int{2, h - 3} {
			t := c.m.Terrain(x, y)
			if !t.IsOcean() && t != maps.TerrainArctic {
				c.m.SetTerrain(x, y, maps.TerrainTundra)
			}
		}
	}
}

func (c *Classifier) freezeRow(y, bonus int, arctic bool) {
	for x := 0; x < c.m.Width; x++ {
		if c.m.Terrain(x, y) != maps.TerrainGrassland {
			continue
		}
		if c.hf.Get(x, y)+bonus <= c.r.Intn(max(c.maxval, 1)) {
			continue
		}
		if arctic {
			c.m.SetTerrain(x, y, maps.TerrainArctic)
		} else {
			c.m.SetTerrain(x, y, maps.TerrainTundra)
		}
	}
}

// MakeFair breaks up monotonous land: every tile outside the polar rows whose
// 5x5 neighbourhood is entirely grassland or plains becomes hills, and each
// of its land cardinal neighbours follows with a one in three chance.
func (c *Classifier) MakeFair() {
	for y := 2; y < c.m.Height-3; y++ {
		for x := 0; x < c.m.Width; x++ {
			if !c.isClean(x, y) {
				continue
			}
			c.m.SetTerrain(x, y, maps.TerrainHills)
			for _, d := range fairDirs {
				nx, ny, ok := c.m.Neighbor(x, y, d)
				if !ok {
					continue
				}
				if c.r.Intn(100) > 66 && !c.m.IsOcean(nx, ny) {
					c.m.SetTerrain(nx, ny, maps.TerrainHills)
				}
			}
		}
	}
}

// west, east, north, south
var fairDirs = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

func (c *Classifier) isClean(x, y int) bool {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			nx, ny, ok := c.m.Normalize(x+dx, y+dy)
			if !ok {
				continue
			}
			t := c.m.Terrain(nx, ny)
			if t != maps.TerrainGrassland && t != maps.TerrainPlains {
				return false
			}
		}
	}
	return true
}
