package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"mapforge/internal/database"
	"mapforge/internal/mapgen"
	"mapforge/internal/rivers"
	"mapforge/internal/rng"
	"mapforge/pkg/maps"
)

func main() {
	d := mapgen.DefaultParams()
	var p mapgen.Params

	flag.IntVar(&p.Width, "width", d.Width, "Map width in tiles")
	flag.IntVar(&p.Height, "height", d.Height, "Map height in tiles")
	flag.BoolVar(&p.WrapX, "wrapx", d.WrapX, "Wrap the map east to west")
	flag.IntVar(&p.Generator, "gen", d.Generator, "Generator 1-5")
	flag.Uint64Var(&p.Seed, "seed", 0, "Map seed (0 = random)")
	flag.IntVar(&p.Players, "players", d.Players, "Number of start positions")
	flag.IntVar(&p.Land, "land", d.Land, "Land percentage of the map")
	flag.IntVar(&p.Mountains, "mountains", d.Mountains, "Mountains: per mille of all tiles (gen 1, 5), percent of land (gen 2-4)")
	flag.IntVar(&p.Deserts, "deserts", d.Deserts, "Deserts: seed count (gen 1, 5), percent of land (gen 2-4)")
	flag.IntVar(&p.Forest, "forest", d.Forest, "Forest: per mille of all tiles (gen 1, 5), percent of land (gen 2-4)")
	flag.IntVar(&p.Swamp, "swamp", d.Swamp, "Swamp: per mille of all tiles (gen 1, 5), percent of land (gen 2-4)")
	flag.IntVar(&p.Grass, "grass", d.Grass, "Grassland share used when normalising the densities")
	flag.IntVar(&p.Rivers, "rivers", d.Rivers, "River amount (0-1000); percent of land for gen 2-4")
	flag.IntVar(&p.Huts, "huts", d.Huts, "Huts per 2000 tiles (0-500)")
	flag.IntVar(&p.Riches, "riches", d.Riches, "Special resources per 1000 land or coastal tiles (0-1000)")
	flag.BoolVar(&p.SeparatePoles, "poles", d.SeparatePoles, "Keep the poles apart from the continents")
	flag.BoolVar(&p.RemoveTinyIslands, "notiny", d.RemoveTinyIslands, "Remove one-tile islands")
	riverTerrain := flag.Bool("river-terrain", false, "Store rivers as terrain instead of an overlay")
	flag.BoolVar(&p.Verbose, "v", false, "Log generation details to stderr")

	settings := flag.String("settings", "", `Compact settings, e.g. "gen=3 seed=42 size=80x50"; overrides flags`)
	rules := flag.String("rules", "", "Terrain ruleset JSON file (default: built in)")
	out := flag.String("out", "", "Write the map as JSON to this file")
	dbPath := flag.String("db", "", "Store the map in this database")
	name := flag.String("name", "", "Name of the stored map")
	ascii := flag.Bool("ascii", false, "Print the map as text")
	continentGrid := flag.Bool("continents", false, "Print the continent grid")
	quiet := flag.Bool("q", false, "Do not print the summary")
	flag.Parse()

	if *riverTerrain {
		p.RiverMode = rivers.ModeTerrain
	}
	if *settings != "" {
		parsed, err := mapgen.ParseSettings(*settings, p)
		if err != nil {
			log.Fatalf("Bad -settings: %v", err)
		}
		p = parsed
	}

	ctx := mapgen.NewContext(p)
	if *rules != "" {
		rs, err := loadRules(*rules)
		if err != nil {
			log.Fatalf("Failed to load ruleset: %v", err)
		}
		ctx.Rules = rs
	}

	var db *database.DB
	// fatalf closes the store first; log.Fatalf skips deferred calls.
	fatalf := func(format string, args ...any) {
		if db != nil {
			if err := db.Close(); err != nil {
				log.Printf("Failed to close database: %v", err)
			}
		}
		log.Fatalf(format, args...)
	}
	if *dbPath != "" {
		var err error
		db, err = database.New(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
		ctx.Diagnostics = db
	}

	start := time.Now()
	res, err := ctx.Generate(rng.New(uint64(time.Now().UnixNano())))
	if err != nil {
		if db != nil {
			log.Printf("Map state saved to %s for inspection", *dbPath)
		}
		fatalf("Map generation failed: %v", err)
	}
	elapsed := time.Since(start)

	if len(res.Fallbacks) > 0 {
		log.Printf("Generator %d unsuitable for these settings, used %d (chain %v)", res.Requested, res.Generator, res.Fallbacks)
	}

	if *out != "" {
		data, err := res.Map.ToJSON()
		if err != nil {
			fatalf("Failed to encode map: %v", err)
		}
		if err := os.WriteFile(*out, data, 0644); err != nil {
			fatalf("Failed to write %s: %v", *out, err)
		}
		log.Printf("Wrote %s", *out)
	}

	if db != nil {
		p.Seed = res.Seed
		id, err := db.SaveMap(res, p, *name)
		if err != nil {
			fatalf("Failed to store map: %v", err)
		}
		log.Printf("Stored map %s", id)
	}

	if *ascii {
		fmt.Print(res.Map.Debug())
	}
	if *continentGrid {
		fmt.Print(res.Map.ContinentGrid())
	}
	if !*quiet {
		p.Seed = res.Seed
		fmt.Printf("%s\n", p)
		fmt.Printf("Generated in %s, start distance %d, %d tiny islands removed\n",
			elapsed.Round(time.Millisecond), res.Placement.Distance, res.TinyIslands)
		fmt.Print(maps.Summarize(res.Map))
	}
}

// loadRules reads a ruleset file from disk, falling back to the built-in
// rulesets by name.
func loadRules(name string) (*maps.Ruleset, error) {
	data, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		return maps.LoadRuleset(name)
	}
	if err != nil {
		return nil, err
	}
	return maps.LoadRulesetJSON(data)
}
