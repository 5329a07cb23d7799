package maps

// Terrain identifies the base terrain type of a tile.
type Terrain uint8

const (
	TerrainArctic Terrain = iota
	TerrainDesert
	TerrainForest
	TerrainGrassland
	TerrainHills
	TerrainJungle
	TerrainMountains
	TerrainOcean
	TerrainPlains
	TerrainRiver
	TerrainSwamp
	TerrainTundra

	// TerrainLast is the "unused" pseudo-type. Fresh maps are filled with it
	// so an unclassified tile is detectable after generation.
	TerrainLast
)

// NumTerrains is the number of real terrain types.
const NumTerrains = int(TerrainLast)

var terrainNames = [...]string{
	TerrainArctic:    "arctic",
	TerrainDesert:    "desert",
	TerrainForest:    "forest",
	TerrainGrassland: "grassland",
	TerrainHills:     "hills",
	TerrainJungle:    "jungle",
	TerrainMountains: "mountains",
	TerrainOcean:     "ocean",
	TerrainPlains:    "plains",
	TerrainRiver:     "river",
	TerrainSwamp:     "swamp",
	TerrainTundra:    "tundra",
	TerrainLast:      "unused",
}

// Symbols used by Map.Debug and the JSON export.
var terrainSymbols = [...]byte{
	TerrainArctic:    'a',
	TerrainDesert:    'd',
	TerrainForest:    'f',
	TerrainGrassland: 'g',
	TerrainHills:     'h',
	TerrainJungle:    'j',
	TerrainMountains: 'm',
	TerrainOcean:     '.',
	TerrainPlains:    'p',
	TerrainRiver:     'r',
	TerrainSwamp:     's',
	TerrainTundra:    't',
	TerrainLast:      '?',
}

func (t Terrain) String() string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return "invalid"
}

// Symbol returns the single character used for t in text dumps.
func (t Terrain) Symbol() byte {
	if int(t) < len(terrainSymbols) {
		return terrainSymbols[t]
	}
	return '?'
}

// Valid reports whether t is a real terrain type.
func (t Terrain) Valid() bool {
	return t < TerrainLast
}

// IsOcean reports whether t is a water terrain.
func (t Terrain) IsOcean() bool {
	return t == TerrainOcean
}

// ParseTerrain converts a terrain name back to its Terrain.
func ParseTerrain(name string) (Terrain, bool) {
	for i, n := range terrainNames {
		if n == name && Terrain(i) != TerrainLast {
			return Terrain(i), true
		}
	}
	return TerrainLast, false
}

// TerrainFromSymbol converts a dump symbol back to its Terrain.
func TerrainFromSymbol(c byte) (Terrain, bool) {
	for i, s := range terrainSymbols {
		if s == c && Terrain(i) != TerrainLast {
			return Terrain(i), true
		}
	}
	return TerrainLast, false
}

// Special is a bitset of tile overlays.
type Special uint16

const (
	SpecialResource1 Special = 1 << iota
	SpecialRoad
	SpecialIrrigation
	SpecialRailroad
	SpecialMine
	SpecialPollution
	SpecialHut
	SpecialFortress
	SpecialResource2
	SpecialRiver
	SpecialFarmland
	SpecialAirbase
	SpecialFallout

	// SpecialResources matches either ruleset-defined resource slot.
	SpecialResources = SpecialResource1 | SpecialResource2
)

var specialNames = []struct {
	s    Special
	name string
}{
	{SpecialResource1, "resource1"},
	{SpecialRoad, "road"},
	{SpecialIrrigation, "irrigation"},
	{SpecialRailroad, "railroad"},
	{SpecialMine, "mine"},
	{SpecialPollution, "pollution"},
	{SpecialHut, "hut"},
	{SpecialFortress, "fortress"},
	{SpecialResource2, "resource2"},
	{SpecialRiver, "river"},
	{SpecialFarmland, "farmland"},
	{SpecialAirbase, "airbase"},
	{SpecialFallout, "fallout"},
}

// Has reports whether any bit of o is set in s.
func (s Special) Has(o Special) bool {
	return s&o != 0
}

// Names lists the names of the set bits in declaration order.
func (s Special) Names() []string {
	var out []string
	for _, sn := range specialNames {
		if s&sn.s != 0 {
			out = append(out, sn.name)
		}
	}
	return out
}

// ParseSpecials converts names back into a bitset. Unknown names are ignored.
func ParseSpecials(names []string) Special {
	var s Special
	for _, n := range names {
		for _, sn := range specialNames {
			if sn.name == n {
				s |= sn.s
			}
		}
	}
	return s
}
