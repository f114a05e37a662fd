// Package storage declares the persistence interfaces for the Archivist
// engine and the sentinel errors shared by all drivers.
package storage

import (
	"context"
	"errors"

	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/player"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/round"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ProfileStore persists durable player progression records.
type ProfileStore interface {
	// Get returns the profile for a player, or ErrNotFound.
	Get(ctx context.Context, playerID string) (player.Profile, error)

	// Update overwrites the stored progression fields for an existing
	// profile. Returns ErrNotFound when no profile exists.
	Update(ctx context.Context, profile player.Profile) error

	// Ensure creates the profile when absent and returns the stored record.
	// Existing profiles are returned unchanged, so Ensure is idempotent and
	// never lowers any progression field.
	Ensure(ctx context.Context, profile player.Profile) (player.Profile, error)
}

// SessionStore keeps the transient challenge session per player.
//
// Each operation is independently atomic; multi-operation sequences carry the
// per-player race window accepted by the engine (overlapping requests for a
// single player may overwrite or consume each other's sessions).
type SessionStore interface {
	// Put stores the session for its player, unconditionally replacing any
	// unconsumed prior session.
	Put(ctx context.Context, session round.Session) error

	// Get returns the session for a player without consuming it, or
	// ErrNotFound.
	Get(ctx context.Context, playerID string) (round.Session, error)

	// Consume atomically reads and deletes the session for a player.
	// Returns ErrNotFound when no session exists, including on a repeat
	// call after a session was already consumed.
	Consume(ctx context.Context, playerID string) (round.Session, error)

	// Delete removes the session for a player. Deleting a missing session
	// is not an error.
	Delete(ctx context.Context, playerID string) error

	// Close releases driver resources.
	Close() error
}
