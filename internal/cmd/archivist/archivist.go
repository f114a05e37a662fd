// Package archivist parses command flags and launches the archivist service.
package archivist

import (
	"context"
	"flag"
	"log"

	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/platform/config"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/platform/otel"
	server "github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/app"
)

// Config holds archivist command configuration.
type Config struct {
	Port int `env:"ARCHIVIST_PORT" envDefault:"8080"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The archivist HTTP server port")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the archivist service.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "archivist")
	if err != nil {
		log.Printf("otel setup: %v", err)
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("otel shutdown: %v", err)
			}
		}()
	}

	return server.Run(ctx, cfg.Port)
}
