package mapgen

import (
	"math"

	"github.com/aquilax/go-perlin"

	"mapforge/internal/heightfield"
	"mapforge/pkg/maps"
)

const (
	bumps       = 1500
	bumpHeight  = 5000
	smoothEvery = 100

	// continental bias added by the noise layer at full amplitude
	biasAmplitude = 60
)

// fractalHeights is generator 1: a latitude weighted random field, a
// low-frequency noise layer, then many tall bumps in the middle half of
// the map smoothed as they go.
func fractalHeights(m *maps.Map, r maps.Intner) *heightfield.Field {
	hf := heightfield.New(m)
	noise := perlin.NewPerlin(2, 2, 3, int64(r.Intn(math.MaxInt32)))

	for y := 0; y < m.Height; y++ {
		lat := (500 - abs(m.Height/2-y)) / 10
		for x := 0; x < m.Width; x++ {
			hf.Set(x, y, r.Intn(40)+lat+continentalBias(noise, m, x, y))
		}
	}

	for i := 0; i < bumps; i++ {
		x := m.Width/4 + r.Intn(m.Width/2)
		y := m.Height/4 + r.Intn(m.Height/2)
		hf.Add(x, y, r.Intn(bumpHeight))
		if i%smoothEvery == 0 {
			hf.Smooth(r)
		}
	}
	for i := 0; i < 3; i++ {
		hf.Smooth(r)
	}
	return hf
}

// continentalBias samples the noise so that wrapped maps have no seam: the
// x axis is mapped onto a circle.
func continentalBias(p *perlin.Perlin, m *maps.Map, x, y int) int {
	fy := float64(y) / float64(m.Height) * 3
	var n float64
	if m.WrapX {
		theta := 2 * math.Pi * float64(x) / float64(m.Width)
		n = p.Noise3D(math.Cos(theta)+1, math.Sin(theta)+1, fy)
	} else {
		n = p.Noise2D(float64(x)/float64(m.Width)*4, fy)
	}
	return int(n * biasAmplitude)
}

// Block grid of generator 5.
const (
	xDiv = 6
	yDiv = 5
)

// rect is one pending subdivision of generator 5.
type rect struct {
	step           int
	x0, y0, x1, y1 int
}

// midpointHeights is generator 5: midpoint displacement over a 6x5 grid of
// blocks. Edges on non-wrapping axes are pushed down, and the poles too
// when they must stay separate.
func midpointHeights(m *maps.Map, r maps.Intner, land int, separatePoles bool) *heightfield.Field {
	hf := heightfield.New(m)
	placed := make([]bool, m.NumTiles())

	xNoWrap, yNoWrap := 0, 1
	if !m.WrapX {
		xNoWrap = 1
	}
	xDiv2, yDiv2 := xDiv+xNoWrap, yDiv+yNoWrap
	xMax, yMax := m.Width-xNoWrap, m.Height-yNoWrap

	step := m.Width + m.Height
	avoidEdge := (50-land)*step/100 + step/3

	set := func(x, y, v int) {
		hf.Set(x, y, v)
		placed[hf.Index(x, y)] = true
	}

	for x := 0; x < xDiv2; x++ {
		for y := 0; y < yDiv2; y++ {
			set(x*xMax/xDiv, y*yMax/yDiv, r.Intn(2*step)-step)
		}
	}
	if xNoWrap == 1 {
		for y := 0; y < yDiv2; y++ {
			hf.Add(0, y*yMax/yDiv, -avoidEdge)
			hf.Add(xMax, y*yMax/yDiv, -avoidEdge)
		}
	}
	for x := 0; x < xDiv2; x++ {
		hf.Add(x*xMax/xDiv, 0, -avoidEdge)
		hf.Add(x*xMax/xDiv, yMax, -avoidEdge)
		if separatePoles {
			hf.Add(x*xMax/xDiv, yMax/yDiv, -avoidEdge/3)
			hf.Add(x*xMax/xDiv, yMax-yMax/yDiv, -avoidEdge/3)
		}
	}

	var stack []rect
	for x := 0; x < xDiv; x++ {
		for y := 0; y < yDiv; y++ {
			stack = append(stack[:0], rect{step, x * xMax / xDiv, y * yMax / yDiv,
				(x + 1) * xMax / xDiv, (y + 1) * yMax / yDiv})
			for len(stack) > 0 {
				b := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				stack = subdivide(hf, placed, r, b, stack)
			}
		}
	}

	for i, v := range hf.Cells() {
		hf.Cells()[i] = 8*v + r.Intn(4) - 2
	}
	return hf
}

// subdivide sets the unset midpoints of b and pushes its four quarters so
// that they pop in the order north-west, south-west, north-east, south-east.
func subdivide(hf *heightfield.Field, placed []bool, r maps.Intner, b rect, stack []rect) []rect {
	if b.y1-b.y0 <= 0 || b.x1-b.x0 <= 0 || (b.y1-b.y0 == 1 && b.x1-b.x0 == 1) {
		return stack
	}
	x1w, y1w := b.x1, b.y1
	if x1w == hf.W {
		x1w = 0
	}
	if y1w == hf.H {
		y1w = 0
	}

	v00, v01 := hf.Get(b.x0, b.y0), hf.Get(b.x0, y1w)
	v10, v11 := hf.Get(x1w, b.y0), hf.Get(x1w, y1w)

	// the displacement is only drawn for points not yet set
	mid := func(x, y, avg int) {
		i := hf.Index(x, y)
		if placed[i] {
			return
		}
		hf.Set(x, y, avg+r.Intn(b.step)-b.step/2)
		placed[i] = true
	}
	xm, ym := (b.x0+b.x1)/2, (b.y0+b.y1)/2
	mid(xm, b.y0, (v00+v10)/2)
	mid(xm, y1w, (v01+v11)/2)
	mid(b.x0, ym, (v00+v01)/2)
	mid(x1w, ym, (v10+v11)/2)
	mid(xm, ym, (v00+v01+v10+v11)/4)

	next := 2 * b.step / 3
	return append(stack,
		rect{next, xm, ym, b.x1, b.y1},
		rect{next, xm, b.y0, b.x1, ym},
		rect{next, b.x0, ym, xm, b.y1},
		rect{next, b.x0, b.y0, xm, ym},
	)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
