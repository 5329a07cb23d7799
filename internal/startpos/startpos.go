// Package startpos picks fair, well separated starting tiles for players.
package startpos

import (
	"fmt"
	"io"
	"log"

	"mapforge/pkg/maps"
)

// MaxTries is the hard ceiling on random draws during placement.
const MaxTries = 10_000_000

// Island is the start budget of one continent.
type Island struct {
	Goodies  int
	Starters int
}

// Placement is the outcome of a successful allocation.
type Placement struct {
	Positions []maps.Pos
	// Distance is the separation in force when the last player was placed.
	// Every pair on the same continent is at least this far apart.
	Distance int
	Tries    int
	// Starters is the per-continent allocation before placement began.
	Starters map[int]int
}

// Allocator places players on a finished map.
type Allocator struct {
	m     *maps.Map
	rules *maps.Ruleset
	r     maps.Intner
	log   *log.Logger

	// FirstCont is the lowest continent id that may host a player. It is 3
	// when ids 1 and 2 are reserved for the poles.
	FirstCont int

	// ValidContinent optionally vetoes continents as starting areas.
	ValidContinent func(id int) bool
}

// New creates an allocator.
func New(m *maps.Map, rules *maps.Ruleset, r maps.Intner, firstCont int, logger *log.Logger) *Allocator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if firstCont < 1 {
		firstCont = 1
	}
	return &Allocator{m: m, rules: rules, r: r, log: logger, FirstCont: firstCont}
}

// Allocate computes the goodies budget, solves the fair share and places
// players. When preset already provides enough starters (island generators
// decide them while building) the budget step is skipped, unless one of its
// starting continents has no tile a player could start on.
func (a *Allocator) Allocate(players int, preset []Island) (*Placement, error) {
	sites := a.Sites()
	islands := preset
	if totalStarters(preset, a.FirstCont) < players || !hostsStarters(preset, sites) {
		if preset != nil {
			a.log.Printf("startpos: preset starters do not fit the map, recomputing")
		}
		islands = a.SetupIslands()
		// with no site anywhere the raw budget stands and placement relaxes
		if anySite(sites) {
			for c := range islands {
				if sites[c] == 0 {
					islands[c].Goodies = 0
				}
			}
		}
		if _, err := SolveFairShare(islands, a.FirstCont, players); err != nil {
			return nil, err
		}
	}
	return a.Place(islands, players)
}

// Sites counts, per continent, the tiles that pass the start tile rules.
func (a *Allocator) Sites() []int {
	sites := make([]int, a.m.NumContinents+1)
	for y := 0; y < a.m.Height; y++ {
		for x := 0; x < a.m.Width; x++ {
			pos := maps.Pos{X: x, Y: y}
			if a.goodSite(pos) {
				sites[a.m.At(pos).Continent]++
			}
		}
	}
	return sites
}

// hostsStarters reports whether every continent given starters has a site.
func hostsStarters(islands []Island, sites []int) bool {
	for c, isl := range islands {
		if isl.Starters > 0 && (c >= len(sites) || sites[c] == 0) {
			return false
		}
	}
	return true
}

func anySite(sites []int) bool {
	for _, n := range sites {
		if n > 0 {
			return true
		}
	}
	return false
}

// cityRadius is the footprint a future city works: 5x5 minus the corners.
var cityRadius = func() [][2]int {
	var out [][2]int
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if abs(dx) == 2 && abs(dy) == 2 {
				continue
			}
			out = append(out, [2]int{dx, dy})
		}
	}
	return out
}()

// SetupIslands sums tile goodness per continent. A tile counts towards every
// startable continent that has a tile within city radius of it, once per
// continent.
func (a *Allocator) SetupIslands() []Island {
	islands := make([]Island, a.m.NumContinents+1)
	conts := make([]int, 0, len(cityRadius))

	for y := 0; y < a.m.Height; y++ {
		for x := 0; x < a.m.Width; x++ {
			conts = conts[:0]
			for _, d := range cityRadius {
				nx, ny, ok := a.m.Normalize(x+d[0], y+d[1])
				if !ok {
					continue
				}
				c := a.m.Continent(nx, ny)
				if !a.startable(c) || contains(conts, c) {
					continue
				}
				conts = append(conts, c)
			}
			if len(conts) == 0 {
				continue
			}
			good := a.rules.Goodness(a.m.Tile(x, y))
			for _, c := range conts {
				islands[c].Goodies += good
			}
		}
	}
	return islands
}

func (a *Allocator) startable(c int) bool {
	if c < a.FirstCont || c > a.m.NumContinents {
		return false
	}
	return a.ValidContinent == nil || a.ValidContinent(c)
}

// SolveFairShare finds the largest per-player goodies floor that still gives
// players starting slots and stores the resulting starters per continent.
// It returns the floor.
func SolveFairShare(islands []Island, firstCont, players int) (int, error) {
	mingood := 0
	for i := firstCont; i < len(islands); i++ {
		mingood = max(mingood, islands[i].Goodies)
	}
	if mingood == 0 {
		return 0, fmt.Errorf("%w for %d players with current land settings: no continent has usable land", ErrNoFairShare, players)
	}

	for {
		starters := 0
		for i := firstCont; i < len(islands); i++ {
			starters += islands[i].Goodies / mingood
		}
		if starters >= players {
			break
		}
		oldmin := mingood
		mingood = 0
		for i := firstCont; i < len(islands); i++ {
			g := islands[i].Goodies
			mingood = max(mingood, g/(g/oldmin+1))
		}
		if mingood == 0 {
			return 0, fmt.Errorf("%w for %d players with current land settings", ErrNoFairShare, players)
		}
	}

	for i := range islands {
		islands[i].Starters = 0
		if i >= firstCont {
			islands[i].Starters = islands[i].Goodies / mingood
		}
	}
	return mingood, nil
}

// Place draws random tiles until every player has a start. Draws on
// continents with free slots are rejected when the tile is unsuitable or
// closer than the current separation to a start on the same continent;
// after enough rejections the separation shrinks by one.
func (a *Allocator) Place(islands []Island, players int) (*Placement, error) {
	if len(islands) <= a.m.NumContinents {
		panic(fmt.Sprintf("startpos: %d island records for %d continents", len(islands), a.m.NumContinents))
	}
	free := make([]int, len(islands))
	p := &Placement{Starters: make(map[int]int)}
	for i, isl := range islands {
		free[i] = isl.Starters
		if isl.Starters > 0 {
			p.Starters[i] = isl.Starters
			a.log.Printf("startpos: continent %d: %d goodies, %d starters", i, isl.Goodies, isl.Starters)
		}
	}
	if sum := totalStarters(islands, 0); sum < players {
		panic(fmt.Sprintf("startpos: %d starters for %d players", sum, players))
	}

	dist := min(40, a.m.Width/2, a.m.Height/2)
	rejects := 0
	relaxed := false
	for len(p.Positions) < players {
		if p.Tries >= MaxTries {
			p.Distance = dist
			return p, fmt.Errorf("%w after %d tries placing %d of %d players", ErrPlacementStuck, p.Tries, len(p.Positions), players)
		}
		p.Tries++

		pos := a.m.RandPos(a.r)
		c := a.m.Continent(pos.X, pos.Y)
		if free[c] == 0 {
			continue
		}
		rejects++
		if a.acceptable(pos, p.Positions, dist, relaxed) {
			free[c]--
			p.Positions = append(p.Positions, pos)
			continue
		}
		if rejects > 900-dist*9 {
			switch {
			case dist > 1:
				dist--
			case !relaxed:
				// last resort: any land tile of the continent will do
				a.log.Printf("startpos: no start tile left, dropping the tile rules")
				relaxed = true
			}
			rejects = 0
		}
	}
	p.Distance = dist
	return p, nil
}

// goodSite checks the start tile rules: open terrain, no hut, a startable
// continent and not on the coast.
func (a *Allocator) goodSite(pos maps.Pos) bool {
	t := a.m.At(pos)
	switch t.Terrain {
	case maps.TerrainGrassland, maps.TerrainPlains, maps.TerrainHills:
	default:
		return false
	}
	if t.Specials.Has(maps.SpecialHut) {
		return false
	}
	if !a.startable(t.Continent) {
		return false
	}
	return !a.m.IsCoastal(pos.X, pos.Y)
}

// acceptable checks a candidate against the start tile rules, or only
// against land once relaxed, and against the separation from starts on its
// continent.
func (a *Allocator) acceptable(pos maps.Pos, placed []maps.Pos, dist int, relaxed bool) bool {
	t := a.m.At(pos)
	if relaxed {
		if t.Terrain.IsOcean() || !a.startable(t.Continent) {
			return false
		}
	} else if !a.goodSite(pos) {
		return false
	}
	for _, q := range placed {
		if a.m.At(q).Continent == t.Continent && a.m.Distance(pos, q) < dist {
			return false
		}
	}
	return true
}

func totalStarters(islands []Island, from int) int {
	n := 0
	for i := from; i < len(islands); i++ {
		n += islands[i].Starters
	}
	return n
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
