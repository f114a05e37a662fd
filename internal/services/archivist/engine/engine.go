// Package engine orchestrates the challenge round lifecycle: session
// creation against the fragment weaver, single-use session consumption, and
// progression updates on classification.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	apperrors "github.com/Julienne-Malabago/Archivist-of-Moirai/internal/platform/errors"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/platform/id"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/platform/random"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/axiom"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/deception"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/player"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/progression"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/round"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/storage"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/weaver"
)

// Placeholder is the substitute content stored when fragment generation
// fails. The round still proceeds; only the prose is replaced, never the
// secret axiom.
type Placeholder struct {
	Fragment       string `env:"ARCHIVIST_PLACEHOLDER_FRAGMENT"`
	RevelationText string `env:"ARCHIVIST_PLACEHOLDER_REVELATION"`
}

// DefaultPlaceholder returns the stock placeholder prose.
func DefaultPlaceholder() Placeholder {
	return Placeholder{
		Fragment:       "The Weaver's loom stands silent; no fragment could be drawn from the threads.",
		RevelationText: "The Archive could not reach the Weaver, so this round carries no revelation.",
	}
}

// Source yields pseudo-random integers for axiom selection.
type Source interface {
	Intn(n int) int
}

// Config holds the engine's injected dependencies.
type Config struct {
	Profiles    storage.ProfileStore
	Sessions    storage.SessionStore
	Generator   weaver.Generator // nil is treated as an unavailable weaver
	Random      Source
	Clock       func() time.Time
	IDGenerator func() (string, error)
	Placeholder Placeholder
	Logger      *slog.Logger
}

// Engine is the session and progression engine.
//
// Requests are handled independently with no per-player serialization:
// overlapping CreateSession and Classify calls for one player can overwrite
// or consume each other's sessions, and concurrent profile updates follow
// read-modify-write semantics. Callers are expected not to overlap requests
// for a single player.
type Engine struct {
	profiles    storage.ProfileStore
	sessions    storage.SessionStore
	generator   weaver.Generator
	random      Source
	clock       func() time.Time
	idGenerator func() (string, error)
	placeholder Placeholder
	logger      *slog.Logger
}

// New creates an engine with the given dependencies. Profiles and Sessions
// are required; the remaining fields default to production implementations.
func New(cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Random == nil {
		if src, err := random.NewSource(); err == nil {
			cfg.Random = src
		} else {
			cfg.Random = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = id.NewID
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Placeholder == (Placeholder{}) {
		cfg.Placeholder = DefaultPlaceholder()
	}

	return &Engine{
		profiles:    cfg.Profiles,
		sessions:    cfg.Sessions,
		generator:   cfg.Generator,
		random:      cfg.Random,
		clock:       cfg.Clock,
		idGenerator: cfg.IDGenerator,
		placeholder: cfg.Placeholder,
		logger:      cfg.Logger,
	}
}

// Verdict is the result of classifying a fragment.
type Verdict struct {
	IsCorrect      bool
	TrueAxiom      axiom.Axiom
	RevelationText string
	Profile        player.Profile
}

// CreateSession picks a secret axiom, generates (or substitutes) fragment
// content, and persists a challenge session for the player, unconditionally
// replacing any unconsumed prior session. Only the fragment text is
// returned; the secret axiom and revelation stay server-side.
func (e *Engine) CreateSession(ctx context.Context, playerID string, difficultyTier int) (string, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return "", apperrors.New(apperrors.CodePlayerIDEmpty, "player id is required")
	}
	if difficultyTier < 1 {
		difficultyTier = 1
	}

	secret := axiom.Pick(e.random)
	directive := deception.ForTier(difficultyTier)

	result := weaver.Result{
		Fragment:       e.placeholder.Fragment,
		RevelationText: e.placeholder.RevelationText,
	}
	if e.generator == nil {
		e.logger.Warn("weaver not configured, using placeholder content", "player_id", playerID)
	} else if generated, err := e.generator.Generate(ctx, secret, difficultyTier, directive); err != nil {
		// Generation failures are soft: the round proceeds on placeholder
		// prose and the secret axiom stands.
		e.logger.Warn("fragment generation failed, using placeholder content",
			"player_id", playerID,
			"difficulty_tier", difficultyTier,
			"error", err,
		)
	} else {
		result = generated
	}

	session, err := round.CreateSession(round.CreateSessionInput{
		PlayerID:       playerID,
		SecretAxiom:    secret,
		RevelationText: result.RevelationText,
	}, e.clock, e.idGenerator)
	if err != nil {
		return "", err
	}

	if err := e.sessions.Put(ctx, session); err != nil {
		// Generated content is discarded, not retried.
		e.logger.Error("persist session failed", "player_id", playerID, "error", err)
		return "", apperrors.Wrap(apperrors.CodeStoreUnavailable, "persist session", err)
	}

	return result.Fragment, nil
}

// ConsumeSession atomically reads and deletes the player's session.
// Consumption is single-use: a repeat call fails with SESSION_NOT_FOUND.
func (e *Engine) ConsumeSession(ctx context.Context, playerID string) (round.Session, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return round.Session{}, apperrors.New(apperrors.CodePlayerIDEmpty, "player id is required")
	}

	session, err := e.sessions.Consume(ctx, playerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return round.Session{}, apperrors.New(apperrors.CodeSessionNotFound, "no active fragment session")
		}
		return round.Session{}, apperrors.Wrap(apperrors.CodeStoreUnavailable, "consume session", err)
	}
	return session, nil
}

// Classify consumes the player's session, scores the guess, persists the
// updated profile, and returns the verdict with the revelation.
func (e *Engine) Classify(ctx context.Context, playerID string, guessed axiom.Axiom) (Verdict, error) {
	if !guessed.Valid() {
		return Verdict{}, apperrors.New(apperrors.CodeAxiomUnknown, "guessed axiom is not in the fixed set")
	}

	session, err := e.ConsumeSession(ctx, playerID)
	if err != nil {
		return Verdict{}, err
	}

	profile, err := e.profiles.Get(ctx, session.PlayerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Verdict{}, apperrors.New(apperrors.CodeProfileNotFound, "player profile not found")
		}
		return Verdict{}, apperrors.Wrap(apperrors.CodeStoreUnavailable, "load profile", err)
	}

	isCorrect, updated := progression.Resolve(profile, session.SecretAxiom, guessed)

	if err := e.profiles.Update(ctx, updated); err != nil {
		e.logger.Error("persist profile failed", "player_id", session.PlayerID, "error", err)
		return Verdict{}, apperrors.Wrap(apperrors.CodeStoreUnavailable, "persist profile", err)
	}

	return Verdict{
		IsCorrect:      isCorrect,
		TrueAxiom:      session.SecretAxiom,
		RevelationText: session.RevelationText,
		Profile:        updated,
	}, nil
}

// RegisterPlayer creates the player's profile when absent and returns the
// stored record. Registration is idempotent and never lowers progression.
func (e *Engine) RegisterPlayer(ctx context.Context, playerID string) (player.Profile, error) {
	fresh, err := player.NewProfile(playerID, e.clock)
	if err != nil {
		return player.Profile{}, apperrors.Wrap(apperrors.CodePlayerIDEmpty, "register player", err)
	}

	stored, err := e.profiles.Ensure(ctx, fresh)
	if err != nil {
		return player.Profile{}, apperrors.Wrap(apperrors.CodeStoreUnavailable, "ensure profile", err)
	}
	return stored, nil
}

// GetProfile returns the player's progression record.
func (e *Engine) GetProfile(ctx context.Context, playerID string) (player.Profile, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Profile{}, apperrors.New(apperrors.CodePlayerIDEmpty, "player id is required")
	}

	profile, err := e.profiles.Get(ctx, playerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return player.Profile{}, apperrors.New(apperrors.CodeProfileNotFound, "player profile not found")
		}
		return player.Profile{}, apperrors.Wrap(apperrors.CodeStoreUnavailable, "load profile", err)
	}
	return profile, nil
}
