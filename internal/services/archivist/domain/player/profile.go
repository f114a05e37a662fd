// Package player defines the durable progression record kept per player.
package player

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyPlayerID indicates a missing player identifier.
var ErrEmptyPlayerID = errors.New("player id is required")

// Profile is the durable progression record for one player.
//
// Invariants: HighestStreak >= CurrentStreak after any update; DifficultyTier
// and CurrentScore never decrease over the profile's lifetime.
type Profile struct {
	PlayerID       string
	CurrentScore   int
	CurrentStreak  int
	HighestStreak  int
	DifficultyTier int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewProfile creates a fresh profile at tier 1 for a player.
func NewProfile(playerID string, now func() time.Time) (Profile, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return Profile{}, ErrEmptyPlayerID
	}
	if now == nil {
		now = time.Now
	}

	createdAt := now().UTC()
	return Profile{
		PlayerID:       playerID,
		CurrentScore:   0,
		CurrentStreak:  0,
		HighestStreak:  0,
		DifficultyTier: 1,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}, nil
}
