package main

import (
	"flag"
	"log"

	"mapforge/internal/client"
	"mapforge/internal/mapgen"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	profile := flag.String("profile", "", "Profile name for separate config (e.g., wide, islands)")
	server := flag.String("server", "", "Map server address; generates locally when empty")
	settings := flag.String("settings", "", `Start with these settings, e.g. "gen=3 seed=42 size=80x50"`)
	flag.Parse()

	client.SetProfile(*profile)

	var opts client.Options
	opts.Server = *server
	if *settings != "" {
		p, err := mapgen.ParseSettings(*settings, mapgen.DefaultParams())
		if err != nil {
			log.Fatalf("Bad -settings: %v", err)
		}
		opts.Params = &p
	}

	viewer, err := client.NewViewer(opts)
	if err != nil {
		log.Fatalf("Failed to create viewer: %v", err)
	}
	defer viewer.Close()

	ebiten.SetWindowSize(client.ScreenWidth, client.ScreenHeight)
	ebiten.SetWindowTitle("mapforge")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
