// Package heightfield is the integer scratch grid shared by the diffusion
// based generators.
package heightfield

import "mapforge/pkg/maps"

// Field stores one height sample per tile in row-major order. Neighbour
// lookups go through the map topology so wrapping matches the tile grid.
type Field struct {
	W, H int
	data []int
	topo *maps.Map
}

// New allocates a zeroed field covering m.
func New(m *maps.Map) *Field {
	return &Field{W: m.Width, H: m.Height, data: make([]int, m.Width*m.Height), topo: m}
}

// Cells exposes the backing slice.
func (f *Field) Cells() []int { return f.data }

// Index returns the linear index for (x, y).
func (f *Field) Index(x, y int) int { return y*f.W + x }

// Get returns the height at (x, y).
func (f *Field) Get(x, y int) int { return f.data[f.Index(x, y)] }

// Set stores the height at (x, y).
func (f *Field) Set(x, y, v int) { f.data[f.Index(x, y)] = v }

// Add adds d to the height at (x, y).
func (f *Field) Add(x, y, d int) { f.data[f.Index(x, y)] += d }

// Smooth runs one diffusion pass. Every tile becomes
// (2*self + sum(neighbours) + noise) / (2 + neighbours), floored at zero,
// with noise uniform in [-30, 30]. Results go to a fresh buffer.
func (f *Field) Smooth(r maps.Intner) {
	next := make([]int, len(f.data))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			sum := 2 * f.Get(x, y)
			count := 2
			for _, d := range maps.Dirs8 {
				nx, ny, ok := f.topo.Neighbor(x, y, d)
				if !ok {
					continue
				}
				sum += f.Get(nx, ny)
				count++
			}
			sum += r.Intn(61) - 30
			if sum < 0 {
				sum = 0
			}
			next[f.Index(x, y)] = sum / count
		}
	}
	f.data = next
}

// Normalize shifts the field so its minimum is zero and returns the
// resulting maximum, the ceiling used for threshold math.
func (f *Field) Normalize() int {
	if len(f.data) == 0 {
		return 0
	}
	lo, hi := f.data[0], f.data[0]
	for _, v := range f.data {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	for i := range f.data {
		f.data[i] -= lo
	}
	return hi - lo
}
