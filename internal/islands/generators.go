package islands

import "mapforge/internal/terrain"

// worldMass is the land budget for a world that keeps spares rows and
// columns free of land.
func (b *Builder) worldMass(spares int) int {
	return (b.m.Height - 6 - spares) * b.p.Land * (b.m.Width - spares) / 100
}

// Generator2 makes one big island per player plus one medium and one small
// island each. The big islands must come out at 95% of their size; when
// they do not, the world is restarted with big islands one percent smaller.
// It reports false when the settings need generator 1 instead.
func (b *Builder) Generator2() bool {
	if b.p.Land > 85 {
		return false
	}
	const spares = 1
	totalWeight := 100 * b.p.Players
	bigFrac, midFrac, smallFrac := 70, 20, 10
	mass := b.worldMass(spares)

	for done := false; !done && bigFrac > midFrac; {
		done = true
		b.InitWorld(mass)
		for i := b.p.Players; i > 0; i-- {
			if !b.MakeIsland(bigFrac*mass/totalWeight, 1, 95) {
				bigFrac--
				smallFrac++
				b.log.Printf("islands: island too small, retrying with smaller big islands")
				done = false
				break
			}
		}
	}
	if bigFrac <= midFrac {
		b.log.Printf("islands: could not make adequately big islands")
		return false
	}

	for i := b.p.Players; i > 0; i-- {
		b.MakeIsland(midFrac*mass/totalWeight, 0, 0)
	}
	for i := b.p.Players; i > 0; i-- {
		b.MakeIsland(smallFrac*mass/totalWeight, 0, 0)
	}
	terrain.MakePlains(b.m, b.r)

	if b.checkMass > b.m.Width+b.m.Height+totalWeight {
		b.log.Printf("islands: %d mass left unplaced", b.checkMass)
	}
	return true
}

const (
	maxMassDiv6   = 20
	gen3BigLoops  = 500
	gen3TotalLoop = 1500
)

// Generator3 makes roughly equal islands, one per player first and then
// smaller ones until the land budget is used. It reports false when the
// map is too small or too crowded, in which case generator 2 applies.
func (b *Builder) Generator3() bool {
	if b.p.Land > 80 || b.m.Width < 40 || b.m.Height < 40 {
		return false
	}
	const spares = 1
	players := b.p.Players
	bigIslands := players

	landMass := b.m.Width * (b.m.Height - 6) * b.p.Land / 100
	// leave room for the poles
	if landMass > 3*b.m.Height+players*3 {
		landMass -= 3 * b.m.Height
	}

	islandMass := landMass / (3 * bigIslands)
	if islandMass < 4*maxMassDiv6 {
		islandMass = landMass / (2 * bigIslands)
	}
	if islandMass < 3*maxMassDiv6 && players*2 < landMass {
		islandMass = landMass / bigIslands
	}
	islandMass = min(max(islandMass, 2), maxMassDiv6*6)

	b.InitWorld(b.worldMass(spares))

	j := 0
	for b.isleIndex-2 <= bigIslands && b.checkMass > islandMass {
		if j++; j >= gen3BigLoops {
			b.log.Printf("islands: generator 3 did not place all big islands")
			break
		}
		b.MakeIsland(islandMass, 1, 0)
	}

	islandMass = max(islandMass*11/8, 2)
	for b.checkMass > islandMass {
		if j++; j >= gen3TotalLoop {
			b.log.Printf("islands: generator 3 left %d mass unplaced", b.checkMass)
			break
		}
		var size int
		if j < 1000 {
			size = b.r.Intn((islandMass+1)/2+1) + islandMass/2
		} else {
			size = b.r.Intn((islandMass+1)/2 + 1)
		}
		starters := 0
		if b.isleIndex-2 <= players {
			starters = 1
		}
		b.MakeIsland(max(size, 2), starters, 0)
	}
	terrain.MakePlains(b.m, b.r)
	return true
}

// Generator4 pairs players on shared islands; with an odd player count one
// island hosts three. It reports false for fewer than two players or more
// than 80% land, in which case generator 3 applies.
func (b *Builder) Generator4() bool {
	players := b.p.Players
	if players < 2 || b.p.Land > 80 {
		return false
	}

	bigWeight := 70
	switch {
	case b.p.Land > 60:
		bigWeight = 30
	case b.p.Land > 40:
		bigWeight = 50
	}
	spares := (b.p.Land - 5) / 30
	mass := b.worldMass(spares)
	totalWeight := (30 + bigWeight) * players

	b.InitWorld(mass)

	i := players / 2
	if players%2 == 1 {
		b.MakeIsland(bigWeight*3*mass/totalWeight, 3, 0)
	} else {
		i++
	}
	for i--; i > 0; i-- {
		b.MakeIsland(bigWeight*2*mass/totalWeight, 2, 0)
	}
	for i := players; i > 0; i-- {
		b.MakeIsland(20*mass/totalWeight, 0, 0)
	}
	for i := players; i > 0; i-- {
		b.MakeIsland(10*mass/totalWeight, 0, 0)
	}
	terrain.MakePlains(b.m, b.r)
	return true
}
