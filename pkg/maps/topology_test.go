package maps

import (
	"fmt"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		wrap   bool
		x, y   int
		wantX  int
		wantOK bool
	}{
		{false, 0, 0, 0, true},
		{false, 9, 4, 9, true},
		{false, -1, 2, -1, false},
		{false, 10, 2, 10, false},
		{false, 3, -1, 3, false},
		{true, -1, 2, 9, true},
		{true, 10, 2, 0, true},
		{true, 23, 0, 3, true},
		{true, 3, 5, 3, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("wrap%v_%d_%d", tt.wrap, tt.x, tt.y), func(t *testing.T) {
			m := New(10, 5, tt.wrap)
			x, y, ok := m.Normalize(tt.x, tt.y)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (x != tt.wantX || y != tt.y) {
				t.Errorf("got (%d,%d), want (%d,%d)", x, y, tt.wantX, tt.y)
			}
		})
	}
}

func TestDistanceWraps(t *testing.T) {
	flat := New(20, 10, false)
	wrapped := New(20, 10, true)

	a, b := Pos{1, 2}, Pos{18, 4}
	if d := flat.Distance(a, b); d != 17 {
		t.Errorf("flat distance = %d, want 17", d)
	}
	if d := wrapped.Distance(a, b); d != 3 {
		t.Errorf("wrapped distance = %d, want 3", d)
	}
	if d := wrapped.SqDistance(a, b); d != 13 {
		t.Errorf("wrapped sq distance = %d, want 13", d)
	}
	if d := wrapped.Distance(b, a); d != 3 {
		t.Errorf("distance not symmetric: %d", d)
	}
}

func TestNeighborCounts(t *testing.T) {
	m := New(5, 5, false)
	for i := range m.Tiles {
		m.Tiles[i].Terrain = TerrainOcean
	}
	m.SetTerrain(2, 2, TerrainGrassland)
	m.SetTerrain(2, 1, TerrainHills)

	if got := len(m.Adjacent(0, 0)); got != 3 {
		t.Errorf("corner adjacent = %d, want 3", got)
	}
	if got := len(m.Cardinal(0, 2)); got != 3 {
		t.Errorf("edge cardinal = %d, want 3", got)
	}
	if got := m.CountAdjacent(2, 2, IsOceanTile); got != 7 {
		t.Errorf("ocean around center = %d, want 7", got)
	}
	if got := m.CountCardinal(2, 2, IsTerrain(TerrainHills)); got != 1 {
		t.Errorf("hills around center = %d, want 1", got)
	}
	if !m.IsCoastal(2, 2) {
		t.Error("center should be coastal")
	}
}

func TestNewFillsUnused(t *testing.T) {
	m := New(4, 3, true)
	s := Summarize(m)
	if s.Unassigned != 12 {
		t.Errorf("unassigned = %d, want 12", s.Unassigned)
	}
	if s.Land != 0 {
		t.Errorf("land = %d, want 0", s.Land)
	}
}
