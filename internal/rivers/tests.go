package rivers

import "mapforge/pkg/maps"

// Test scores one candidate tile for the next river step. Lower is better.
// A fatal test aborts the river when no candidate scores zero.
type Test struct {
	Name  string
	Fatal bool
	Score func(rt *Router, x, y int) int
}

// Tests is the tie-break cascade in evaluation order.
var Tests = []Test{
	{Name: "blocked", Fatal: true, Score: testBlocked},
	{Name: "rivergrid", Fatal: true, Score: testRiverGrid},
	{Name: "highlands", Score: testHighlands},
	{Name: "adjacent_ocean", Score: testAdjacentOcean},
	{Name: "adjacent_river", Score: testAdjacentRiver},
	{Name: "adjacent_highlands", Score: testAdjacentHighlands},
	{Name: "swamp", Score: testSwamp},
	{Name: "adjacent_swamp", Score: testAdjacentSwamp},
	{Name: "height", Score: testHeight},
}

// testBlocked rejects blocked tiles and tiles with no unblocked way on.
func testBlocked(rt *Router, x, y int) int {
	if rt.blocked(x, y) {
		return 1
	}
	for _, p := range rt.m.Cardinal(x, y) {
		if !rt.blocked(p.X, p.Y) {
			return 0
		}
	}
	return 1
}

// testRiverGrid rejects tiles that would close a 2x2 block of river.
func testRiverGrid(rt *Router, x, y int) int {
	if rt.m.CountCardinal(x, y, maps.IsRiverTile) > 1 {
		return 1
	}
	return 0
}

func testHighlands(rt *Router, x, y int) int {
	switch rt.m.Terrain(x, y) {
	case maps.TerrainHills:
		return 1
	case maps.TerrainMountains:
		return 2
	}
	return 0
}

func testAdjacentOcean(rt *Router, x, y int) int {
	return 4 - rt.m.CountCardinal(x, y, maps.IsOceanTile)
}

func testAdjacentRiver(rt *Router, x, y int) int {
	return 4 - rt.m.CountCardinal(x, y, maps.IsRiverTile)
}

func testAdjacentHighlands(rt *Router, x, y int) int {
	return rt.m.CountCardinal(x, y, maps.IsTerrain(maps.TerrainHills)) +
		2*rt.m.CountCardinal(x, y, maps.IsTerrain(maps.TerrainMountains))
}

func testSwamp(rt *Router, x, y int) int {
	if rt.m.Terrain(x, y) != maps.TerrainSwamp {
		return 1
	}
	return 0
}

func testAdjacentSwamp(rt *Router, x, y int) int {
	return 4 - rt.m.CountCardinal(x, y, maps.IsTerrain(maps.TerrainSwamp))
}

func testHeight(rt *Router, x, y int) int {
	if rt.hf == nil {
		return 0
	}
	return rt.hf.Get(x, y)
}
