// Package main provides a CLI for seeding the local development database
// with player profiles so the archivist API can be exercised without going
// through registration first.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/player"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/storage/sqlite"
)

func main() {
	var dbPath string
	var players string
	var count int
	var prefix string
	var verbose bool

	flag.StringVar(&dbPath, "db", filepath.Join("data", "archivist.db"), "sqlite database path")
	flag.StringVar(&players, "players", "", "comma-separated player ids to seed")
	flag.IntVar(&count, "count", 0, "number of numbered players to seed")
	flag.StringVar(&prefix, "prefix", "player", "id prefix for numbered players")
	flag.BoolVar(&verbose, "v", false, "verbose output")
	flag.Parse()

	ids := collectIDs(players, count, prefix)
	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "Error: nothing to seed; pass -players or -count")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: create storage dir: %v\n", err)
			os.Exit(1)
		}
	}
	store, err := sqlite.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	seeded := 0
	for _, id := range ids {
		profile, err := player.NewProfile(id, time.Now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: profile %q: %v\n", id, err)
			os.Exit(1)
		}
		stored, err := store.Ensure(ctx, profile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: seed %q: %v\n", id, err)
			os.Exit(1)
		}
		seeded++
		if verbose {
			fmt.Printf("  %s (tier %d, streak %d)\n", stored.PlayerID, stored.DifficultyTier, stored.CurrentStreak)
		}
	}

	fmt.Printf("Seeded %d player profile(s) into %s\n", seeded, dbPath)
}

func collectIDs(players string, count int, prefix string) []string {
	var ids []string
	for _, id := range strings.Split(players, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	for i := 1; i <= count; i++ {
		ids = append(ids, fmt.Sprintf("%s-%d", prefix, i))
	}
	return ids
}
