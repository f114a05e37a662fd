// Package progression computes score, streak, and difficulty updates from a
// classification outcome.
//
// Resolve is pure: it performs no I/O, consults no clock or random source,
// and identical inputs always yield identical outputs.
package progression

import (
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/axiom"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/player"
)

// BaseScore is the score awarded per difficulty tier for a correct
// classification.
const BaseScore = 100

// StreakPerTier is the streak length that promotes the player one tier.
const StreakPerTier = 5

// Resolve applies the progression rules to a profile for one classification.
//
// A correct guess adds BaseScore times the current tier, extends the streak,
// and promotes the tier when the new streak reaches a positive multiple of
// StreakPerTier. An incorrect guess resets the streak and leaves score,
// highest streak, and tier untouched. Score and tier never decrease.
func Resolve(profile player.Profile, secret, guessed axiom.Axiom) (bool, player.Profile) {
	isCorrect := guessed == secret

	updated := profile
	if isCorrect {
		updated.CurrentScore = profile.CurrentScore + BaseScore*profile.DifficultyTier
		updated.CurrentStreak = profile.CurrentStreak + 1
	} else {
		updated.CurrentStreak = 0
	}

	updated.HighestStreak = max(profile.HighestStreak, updated.CurrentStreak)

	if updated.CurrentStreak > 0 && updated.CurrentStreak%StreakPerTier == 0 {
		updated.DifficultyTier = profile.DifficultyTier + 1
	}

	return isCorrect, updated
}
