package client

import (
	"image/color"

	"mapforge/pkg/maps"
)

// TerrainColors are the flat tile colours of the map view.
var TerrainColors = [maps.NumTerrains]color.RGBA{
	maps.TerrainArctic:    {235, 240, 250, 255},
	maps.TerrainDesert:    {225, 200, 120, 255},
	maps.TerrainForest:    {30, 110, 40, 255},
	maps.TerrainGrassland: {110, 180, 70, 255},
	maps.TerrainHills:     {150, 140, 80, 255},
	maps.TerrainJungle:    {20, 140, 90, 255},
	maps.TerrainMountains: {120, 110, 110, 255},
	maps.TerrainOcean:     {30, 70, 150, 255},
	maps.TerrainPlains:    {180, 190, 90, 255},
	maps.TerrainRiver:     {60, 140, 220, 255},
	maps.TerrainSwamp:     {80, 110, 90, 255},
	maps.TerrainTundra:    {170, 180, 170, 255},
}

var (
	colorUnassigned = color.RGBA{255, 0, 255, 255}
	colorRiver      = color.RGBA{70, 150, 230, 255}
)

// continentColors cycle by continent id in the overlay.
var continentColors = []color.RGBA{
	{230, 25, 75, 255},
	{60, 180, 75, 255},
	{255, 225, 25, 255},
	{0, 130, 200, 255},
	{245, 130, 48, 255},
	{145, 30, 180, 255},
	{70, 240, 240, 255},
	{240, 50, 230, 255},
	{210, 245, 60, 255},
	{250, 190, 212, 255},
	{0, 128, 128, 255},
	{170, 110, 40, 255},
}

// PlayerColors mark start positions.
var PlayerColors = []color.RGBA{
	{255, 140, 0, 255},
	{0, 200, 200, 255},
	{50, 180, 50, 255},
	{220, 200, 50, 255},
	{160, 80, 200, 255},
	{200, 50, 50, 255},
	{80, 100, 200, 255},
	{240, 240, 240, 255},
}

// Overlay selects what is drawn on top of the terrain.
type Overlay struct {
	Continents bool
	Rivers     bool
}

// tileColor is the colour of a single tile under the overlay.
func tileColor(t *maps.Tile, o Overlay) color.RGBA {
	if !t.Terrain.Valid() {
		return colorUnassigned
	}
	c := TerrainColors[t.Terrain]
	if o.Rivers && t.Specials.Has(maps.SpecialRiver) {
		c = blend(c, colorRiver, 2)
	}
	if o.Continents && !t.Terrain.IsOcean() && t.Continent > 0 {
		c = blend(c, continentColors[(t.Continent-1)%len(continentColors)], 1)
	}
	return c
}

// blend mixes b into a with weight w/(w+1).
func blend(a, b color.RGBA, w int) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8((int(x) + int(y)*w) / (w + 1))
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}

// renderPixels writes one RGBA pixel per tile, row-major.
func renderPixels(m *maps.Map, o Overlay, buf []byte) []byte {
	n := m.NumTiles() * 4
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	for i := range m.Tiles {
		c := tileColor(&m.Tiles[i], o)
		buf[i*4] = c.R
		buf[i*4+1] = c.G
		buf[i*4+2] = c.B
		buf[i*4+3] = c.A
	}
	return buf
}

// fitScale is the largest whole tile size that fits the map in the area.
func fitScale(m *maps.Map, areaW, areaH int) int {
	return max(min(areaW/m.Width, areaH/m.Height), 1)
}
