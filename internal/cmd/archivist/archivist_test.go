package archivist

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("archivist", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("ARCHIVIST_PORT", "9002")

	fs := flag.NewFlagSet("archivist", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9002 {
		t.Fatalf("expected env port 9002, got %d", cfg.Port)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("ARCHIVIST_PORT", "9002")

	fs := flag.NewFlagSet("archivist", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-port", "9010"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9010 {
		t.Fatalf("expected port override 9010, got %d", cfg.Port)
	}
}
