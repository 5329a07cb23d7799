package maps

import (
	"encoding/json"
	"fmt"
)

// TerrainRule is the per-terrain entry of a ruleset file.
type TerrainRule struct {
	Name             string `json:"name"`
	MiningResult     string `json:"mining_result"`
	IrrigationResult string `json:"irrigation_result"`
	TransformResult  string `json:"transform_result"`
	Special1         string `json:"special_1"`
	Special2         string `json:"special_2"`

	// Goodness is the start-position desirability of a plain tile;
	// SpecialGoodness applies when the tile carries a resource or river.
	Goodness        int `json:"goodness"`
	SpecialGoodness int `json:"special_goodness"`
}

// RawRuleset is the format stored in JSON files.
type RawRuleset struct {
	Name     string        `json:"name"`
	Terrains []TerrainRule `json:"terrains"`
}

// Ruleset is the read-only terrain table consumed by the generator.
type Ruleset struct {
	Name string

	rules      [NumTerrains]TerrainRule
	mining     [NumTerrains]Terrain
	irrigation [NumTerrains]Terrain
	transform  [NumTerrains]Terrain
}

// Rule returns the raw entry for t.
func (r *Ruleset) Rule(t Terrain) TerrainRule {
	return r.rules[r.check(t)]
}

// MiningResult is the terrain t turns into when mined, or TerrainLast.
func (r *Ruleset) MiningResult(t Terrain) Terrain {
	return r.mining[r.check(t)]
}

// IrrigationResult is the terrain t turns into when irrigated, or TerrainLast.
func (r *Ruleset) IrrigationResult(t Terrain) Terrain {
	return r.irrigation[r.check(t)]
}

// TransformResult is the terrain t turns into when transformed, or TerrainLast.
func (r *Ruleset) TransformResult(t Terrain) Terrain {
	return r.transform[r.check(t)]
}

// HasSpecial1 reports whether t defines a first resource.
func (r *Ruleset) HasSpecial1(t Terrain) bool {
	return r.rules[r.check(t)].Special1 != ""
}

// HasSpecial2 reports whether t defines a second resource.
func (r *Ruleset) HasSpecial2(t Terrain) bool {
	return r.rules[r.check(t)].Special2 != ""
}

// SpecialName returns the display name of the resource s on terrain t.
func (r *Ruleset) SpecialName(t Terrain, s Special) string {
	rule := r.rules[r.check(t)]
	switch {
	case s.Has(SpecialResource1):
		return rule.Special1
	case s.Has(SpecialResource2):
		return rule.Special2
	}
	return ""
}

// Goodness scores a tile for start-position fairness.
func (r *Ruleset) Goodness(tile *Tile) int {
	rule := r.rules[r.check(tile.Terrain)]
	if tile.Specials.Has(SpecialResources | SpecialRiver) {
		return rule.SpecialGoodness
	}
	return rule.Goodness
}

// SetGoodness overrides the desirability scores of t.
func (r *Ruleset) SetGoodness(t Terrain, plain, special int) {
	i := r.check(t)
	r.rules[i].Goodness = plain
	r.rules[i].SpecialGoodness = special
}

// Clone returns an independent copy of r.
func (r *Ruleset) Clone() *Ruleset {
	c := *r
	return &c
}

func (r *Ruleset) check(t Terrain) Terrain {
	if !t.Valid() {
		panic(fmt.Sprintf("maps: no ruleset entry for terrain %d", t))
	}
	return t
}

// DefaultRuleset returns the embedded classic ruleset.
func DefaultRuleset() *Ruleset {
	r, err := LoadRuleset("terrain.json")
	if err != nil {
		panic(fmt.Sprintf("maps: embedded ruleset: %v", err))
	}
	return r
}

// LoadRulesetJSON parses a ruleset from JSON bytes.
func LoadRulesetJSON(data []byte) (*Ruleset, error) {
	var raw RawRuleset
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse ruleset JSON: %w", err)
	}
	if err := validateRuleset(&raw); err != nil {
		return nil, fmt.Errorf("invalid ruleset: %w", err)
	}
	return buildRuleset(&raw), nil
}

func buildRuleset(raw *RawRuleset) *Ruleset {
	r := &Ruleset{Name: raw.Name}
	for _, rule := range raw.Terrains {
		t, _ := ParseTerrain(rule.Name)
		r.rules[t] = rule
		r.mining[t] = resultTerrain(rule.MiningResult)
		r.irrigation[t] = resultTerrain(rule.IrrigationResult)
		r.transform[t] = resultTerrain(rule.TransformResult)
	}
	return r
}

func resultTerrain(name string) Terrain {
	if name == "" {
		return TerrainLast
	}
	t, _ := ParseTerrain(name)
	return t
}

// validateRuleset checks a raw ruleset for errors.
func validateRuleset(raw *RawRuleset) error {
	if raw.Name == "" {
		return fmt.Errorf("ruleset name is required")
	}
	var seen [NumTerrains]bool
	for _, rule := range raw.Terrains {
		t, ok := ParseTerrain(rule.Name)
		if !ok {
			return fmt.Errorf("unknown terrain %q", rule.Name)
		}
		if seen[t] {
			return fmt.Errorf("terrain %q listed twice", rule.Name)
		}
		seen[t] = true
		for _, res := range []string{rule.MiningResult, rule.IrrigationResult, rule.TransformResult} {
			if res == "" {
				continue
			}
			if _, ok := ParseTerrain(res); !ok {
				return fmt.Errorf("terrain %q: unknown result %q", rule.Name, res)
			}
		}
		if rule.Goodness < 0 || rule.SpecialGoodness < 0 {
			return fmt.Errorf("terrain %q: negative goodness", rule.Name)
		}
	}
	for t, ok := range seen {
		if !ok {
			return fmt.Errorf("terrain %q missing", Terrain(t))
		}
	}
	return nil
}
