package maps

import (
	"fmt"
	"strings"
)

// Debug returns a string visualization of the map. Start positions are
// drawn as player digits, huts as '^' and river overlays as '~'.
func (m *Map) Debug() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Map: %s (%s)\n", m.Name, m.ID))
	sb.WriteString(fmt.Sprintf("Size: %dx%d wrapx=%v\n", m.Width, m.Height, m.WrapX))
	sb.WriteString(fmt.Sprintf("Generator: %d seed=%d\n", m.Generator, m.Seed))
	sb.WriteString(fmt.Sprintf("Continents: %d\n\n", m.NumContinents))

	starts := make(map[Pos]int, len(m.StartPositions))
	for i, p := range m.StartPositions {
		starts[p] = i
	}

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			t := m.Tile(x, y)
			if i, ok := starts[Pos{x, y}]; ok {
				sb.WriteByte(byte('0' + i%10))
				continue
			}
			switch {
			case t.Specials.Has(SpecialHut):
				sb.WriteByte('^')
			case t.Specials.Has(SpecialRiver):
				sb.WriteByte('~')
			default:
				sb.WriteByte(t.Terrain.Symbol())
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ContinentGrid prints the continent id of every tile. Ocean is '.'.
func (m *Map) ContinentGrid() string {
	var sb strings.Builder

	sb.WriteString("Continent Grid:\n")
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			c := m.Tile(x, y).Continent
			if c == 0 {
				sb.WriteString("  .")
			} else {
				sb.WriteString(fmt.Sprintf("%3d", c))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
