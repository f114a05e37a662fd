package config

import "testing"

func TestParseEnv(t *testing.T) {
	t.Setenv("ARCHIVIST_TEST_NAME", "moirai")
	t.Setenv("ARCHIVIST_TEST_PORT", "9099")

	var cfg struct {
		Name string `env:"ARCHIVIST_TEST_NAME"`
		Port int    `env:"ARCHIVIST_TEST_PORT" envDefault:"8080"`
	}
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Name != "moirai" {
		t.Fatalf("expected name moirai, got %q", cfg.Name)
	}
	if cfg.Port != 9099 {
		t.Fatalf("expected port 9099, got %d", cfg.Port)
	}
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg struct {
		Port int `env:"ARCHIVIST_TEST_UNSET_PORT" envDefault:"8080"`
	}
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
}
