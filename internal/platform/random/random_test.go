package random

import "testing"

func TestNewSeed(t *testing.T) {
	first, err := NewSeed()
	if err != nil {
		t.Fatalf("new seed: %v", err)
	}
	second, err := NewSeed()
	if err != nil {
		t.Fatalf("new seed: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct seeds, got %d twice", first)
	}
}

func TestNewSourceBounds(t *testing.T) {
	src, err := NewSource()
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	for range 1000 {
		got := src.Intn(3)
		if got < 0 || got > 2 {
			t.Fatalf("Intn(3) out of range: %d", got)
		}
	}
}
