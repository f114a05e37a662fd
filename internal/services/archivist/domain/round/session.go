// Package round defines the ephemeral challenge session created for each
// generated fragment.
package round

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/platform/id"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/axiom"
)

var (
	// ErrEmptyPlayerID indicates a missing player ID.
	ErrEmptyPlayerID = errors.New("player id is required")
	// ErrInvalidSecretAxiom indicates the secret axiom is outside the fixed set.
	ErrInvalidSecretAxiom = errors.New("secret axiom is invalid")
)

// Session holds the withheld material for one round. At most one session
// exists per player at a time; creating a new one replaces the prior session.
// Sessions are consumed (read once, then deleted) and never mutated in place.
type Session struct {
	PlayerID       string
	SecretAxiom    axiom.Axiom
	RevelationText string
	FragmentID     string
	CreatedAt      time.Time
}

// CreateSessionInput describes the material needed to open a session.
type CreateSessionInput struct {
	PlayerID       string
	SecretAxiom    axiom.Axiom
	RevelationText string
}

// CreateSession creates a session with a fresh opaque fragment id and a
// creation timestamp.
func CreateSession(input CreateSessionInput, now func() time.Time, idGenerator func() (string, error)) (Session, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateSessionInput(input)
	if err != nil {
		return Session{}, err
	}

	fragmentID, err := idGenerator()
	if err != nil {
		return Session{}, fmt.Errorf("generate fragment id: %w", err)
	}

	return Session{
		PlayerID:       normalized.PlayerID,
		SecretAxiom:    normalized.SecretAxiom,
		RevelationText: normalized.RevelationText,
		FragmentID:     fragmentID,
		CreatedAt:      now().UTC(),
	}, nil
}

// NormalizeCreateSessionInput trims and validates session input.
func NormalizeCreateSessionInput(input CreateSessionInput) (CreateSessionInput, error) {
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.PlayerID == "" {
		return CreateSessionInput{}, ErrEmptyPlayerID
	}
	if !input.SecretAxiom.Valid() {
		return CreateSessionInput{}, ErrInvalidSecretAxiom
	}
	// Revelation text may be placeholder prose; empty is allowed.
	return input, nil
}
