// Package sqlite provides the SQLite-backed player profile store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/platform/storage/sqlitemigrate"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/player"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/storage"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for player profiles.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store at the provided path and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Get returns the profile for a player, or storage.ErrNotFound.
func (s *Store) Get(ctx context.Context, playerID string) (player.Profile, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Profile{}, player.ErrEmptyPlayerID
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT player_id, current_score, current_streak, highest_streak, difficulty_tier, created_at, updated_at
FROM player_profiles
WHERE player_id = ?`, playerID)

	var profile player.Profile
	var createdAt, updatedAt int64
	err := row.Scan(
		&profile.PlayerID,
		&profile.CurrentScore,
		&profile.CurrentStreak,
		&profile.HighestStreak,
		&profile.DifficultyTier,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return player.Profile{}, storage.ErrNotFound
		}
		return player.Profile{}, fmt.Errorf("query profile: %w", err)
	}

	profile.CreatedAt = fromMillis(createdAt)
	profile.UpdatedAt = fromMillis(updatedAt)
	return profile, nil
}

// Update overwrites the progression fields of an existing profile in a single
// statement. Concurrent read-modify-write sequences against the same player
// can still lose an update; see the engine's concurrency notes.
func (s *Store) Update(ctx context.Context, profile player.Profile) error {
	playerID := strings.TrimSpace(profile.PlayerID)
	if playerID == "" {
		return player.ErrEmptyPlayerID
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE player_profiles
SET current_score = ?, current_streak = ?, highest_streak = ?, difficulty_tier = ?, updated_at = ?
WHERE player_id = ?`,
		profile.CurrentScore,
		profile.CurrentStreak,
		profile.HighestStreak,
		profile.DifficultyTier,
		toMillis(time.Now()),
		playerID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Ensure creates the profile when absent and returns the stored record.
func (s *Store) Ensure(ctx context.Context, profile player.Profile) (player.Profile, error) {
	playerID := strings.TrimSpace(profile.PlayerID)
	if playerID == "" {
		return player.Profile{}, player.ErrEmptyPlayerID
	}

	createdAt := profile.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO player_profiles (player_id, current_score, current_streak, highest_streak, difficulty_tier, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (player_id) DO NOTHING`,
		playerID,
		profile.CurrentScore,
		profile.CurrentStreak,
		profile.HighestStreak,
		profile.DifficultyTier,
		toMillis(createdAt),
		toMillis(createdAt),
	)
	if err != nil {
		return player.Profile{}, fmt.Errorf("ensure profile: %w", err)
	}

	return s.Get(ctx, playerID)
}
