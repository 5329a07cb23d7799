package continents

import "mapforge/pkg/maps"

// Tracker numbers continents as tiles become known one at a time, the way a
// player discovers the map. Ids stay dense: when two known regions turn out
// to touch, the larger id is folded into the smaller and the highest id in
// use moves into the freed slot.
type Tracker struct {
	m   *maps.Map
	ids []int
	max int
}

// NewTracker creates a tracker over m with nothing known.
func NewTracker(m *maps.Map) *Tracker {
	return &Tracker{m: m, ids: make([]int, m.NumTiles())}
}

// Continent returns the tracked id at (x, y), 0 when unknown or ocean.
func (t *Tracker) Continent(x, y int) int {
	return t.ids[t.m.Index(x, y)]
}

// NumContinents returns the highest id in use.
func (t *Tracker) NumContinents() int { return t.max }

// Labels returns the tracked ids in row-major order.
func (t *Tracker) Labels() []int {
	return append([]int(nil), t.ids...)
}

// Reveal makes (x, y) known and returns its continent id.
func (t *Tracker) Reveal(x, y int) int {
	i := t.m.Index(x, y)
	if t.ids[i] != 0 || t.m.IsOcean(x, y) {
		return t.ids[i]
	}

	cont := 0
	for _, p := range t.m.Adjacent(x, y) {
		other := t.ids[t.m.Index(p.X, p.Y)]
		switch {
		case other == 0 || other == cont:
		case cont == 0:
			cont = other
			t.ids[i] = cont
		case cont < other:
			t.renumber(p.X, p.Y, cont)
			t.recycle(other)
			cont = t.ids[i]
		default:
			t.renumber(x, y, other)
			t.recycle(cont)
			cont = other
		}
	}

	if cont == 0 {
		t.max++
		t.ids[i] = t.max
	}
	return t.ids[i]
}

// renumber relabels the known region containing (x, y) to id.
func (t *Tracker) renumber(x, y, id int) {
	old := t.ids[t.m.Index(x, y)]
	if old == id {
		return
	}
	t.ids[t.m.Index(x, y)] = id
	stack := []maps.Pos{{X: x, Y: y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range t.m.Adjacent(p.X, p.Y) {
			j := t.m.Index(n.X, n.Y)
			if t.ids[j] != old {
				continue
			}
			t.ids[j] = id
			stack = append(stack, n)
		}
	}
}

// recycle frees id by moving the highest id into it.
func (t *Tracker) recycle(id int) {
	if id != t.max {
		for i, v := range t.ids {
			if v == t.max {
				t.ids[i] = id
			}
		}
	}
	t.max--
}
