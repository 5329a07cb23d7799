package maps

import (
	"fmt"
	"sort"
	"strings"
)

// Summary holds aggregate counts over a generated map.
type Summary struct {
	Tiles       int
	Land        int
	Counts      [NumTerrains]int
	Unassigned  int
	RiverTiles  int
	Huts        int
	Resources   int
	Continents  map[int]int
	StartCount  int
	LandPercent float64
}

// Summarize walks the whole map once and tallies terrain, overlays and
// continent sizes.
func Summarize(m *Map) Summary {
	s := Summary{
		Tiles:      m.NumTiles(),
		Continents: make(map[int]int),
		StartCount: len(m.StartPositions),
	}
	for i := range m.Tiles {
		t := &m.Tiles[i]
		if !t.Terrain.Valid() {
			s.Unassigned++
			continue
		}
		s.Counts[t.Terrain]++
		if !t.Terrain.IsOcean() {
			s.Land++
			if t.Continent != 0 {
				s.Continents[t.Continent]++
			}
		}
		if IsRiverTile(t) {
			s.RiverTiles++
		}
		if t.Specials.Has(SpecialHut) {
			s.Huts++
		}
		if t.Specials.Has(SpecialResources) {
			s.Resources++
		}
	}
	if s.Tiles > 0 {
		s.LandPercent = 100 * float64(s.Land) / float64(s.Tiles)
	}
	return s
}

func (s Summary) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Tiles: %d  Land: %d (%.1f%%)\n", s.Tiles, s.Land, s.LandPercent))
	sb.WriteString("Terrain:\n")
	for t := Terrain(0); t < TerrainLast; t++ {
		if s.Counts[t] == 0 {
			continue
		}
		pct := 100 * float64(s.Counts[t]) / float64(s.Tiles)
		sb.WriteString(fmt.Sprintf("  %-10s %6d (%5.1f%%)\n", t, s.Counts[t], pct))
	}
	if s.Unassigned > 0 {
		sb.WriteString(fmt.Sprintf("  %-10s %6d\n", TerrainLast, s.Unassigned))
	}
	sb.WriteString(fmt.Sprintf("Rivers: %d  Huts: %d  Resources: %d  Starts: %d\n",
		s.RiverTiles, s.Huts, s.Resources, s.StartCount))

	ids := make([]int, 0, len(s.Continents))
	for id := range s.Continents {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	sb.WriteString(fmt.Sprintf("Continents: %d\n", len(ids)))
	for _, id := range ids {
		sb.WriteString(fmt.Sprintf("  #%-3d %d tiles\n", id, s.Continents[id]))
	}
	return sb.String()
}
