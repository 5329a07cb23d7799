package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"mapforge/internal/server"
)

func main() {
	port := flag.String("port", "30000", "Server port")
	dbPath := flag.String("db", "data/maps.db", "Database path; empty disables map storage")
	seed := flag.Uint64("seed", 0, "Seed for maps requested without one (0 = time based)")
	verbose := flag.Bool("v", false, "Log generation details")
	flag.Parse()

	// Use PORT env var if set (required for Render.com and similar platforms)
	actualPort := *port
	if envPort := os.Getenv("PORT"); envPort != "" {
		actualPort = envPort
		log.Printf("Using PORT from environment: %s", actualPort)
	}

	// Use DB_PATH env var if set, for cloud deployments with persistent disks
	actualDBPath := *dbPath
	if envDBPath, ok := os.LookupEnv("DB_PATH"); ok {
		actualDBPath = envDBPath
		log.Printf("Using DB_PATH from environment: %q", actualDBPath)
	}

	actualSeed := *seed
	if envSeed := os.Getenv("MAPFORGE_SEED"); envSeed != "" {
		v, err := strconv.ParseUint(envSeed, 10, 64)
		if err != nil {
			log.Fatalf("Invalid MAPFORGE_SEED %q: %v", envSeed, err)
		}
		actualSeed = v
		log.Printf("Using MAPFORGE_SEED from environment: %d", actualSeed)
	}
	if actualSeed == 0 {
		actualSeed = uint64(time.Now().UnixNano())
	}

	cfg := server.Config{
		Addr:    ":" + actualPort,
		DBPath:  actualDBPath,
		Seed:    actualSeed,
		Verbose: *verbose,
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Handle shutdown gracefully
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("Mapforge server running on %s", cfg.Addr)
	if cfg.DBPath != "" {
		log.Printf("Database: %s", cfg.DBPath)
	}

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
