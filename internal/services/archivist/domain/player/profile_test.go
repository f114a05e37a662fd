package player

import (
	"errors"
	"testing"
	"time"
)

func TestNewProfile(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }

	profile, err := NewProfile("scribe-1", now)
	if err != nil {
		t.Fatalf("new profile: %v", err)
	}
	if profile.PlayerID != "scribe-1" {
		t.Fatalf("expected player id scribe-1, got %q", profile.PlayerID)
	}
	if profile.DifficultyTier != 1 {
		t.Fatalf("expected tier 1, got %d", profile.DifficultyTier)
	}
	if profile.CurrentScore != 0 || profile.CurrentStreak != 0 || profile.HighestStreak != 0 {
		t.Fatalf("expected zeroed counters, got %+v", profile)
	}
	if !profile.CreatedAt.Equal(now()) || !profile.UpdatedAt.Equal(now()) {
		t.Fatalf("expected timestamps from clock, got %+v", profile)
	}
}

func TestNewProfileTrimsID(t *testing.T) {
	profile, err := NewProfile("  scribe-2  ", nil)
	if err != nil {
		t.Fatalf("new profile: %v", err)
	}
	if profile.PlayerID != "scribe-2" {
		t.Fatalf("expected trimmed id, got %q", profile.PlayerID)
	}
}

func TestNewProfileEmptyID(t *testing.T) {
	if _, err := NewProfile("   ", nil); !errors.Is(err, ErrEmptyPlayerID) {
		t.Fatalf("expected ErrEmptyPlayerID, got %v", err)
	}
}
