// Package main wires the archivist HTTP service process lifecycle.
//
// It reads config from flags/env and runs the archivist server until
// shutdown.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	archivistcmd "github.com/Julienne-Malabago/Archivist-of-Moirai/internal/cmd/archivist"
)

func main() {
	cfg, err := archivistcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[ARCHIVIST] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := archivistcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
