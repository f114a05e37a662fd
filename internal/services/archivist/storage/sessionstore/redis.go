package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/axiom"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/round"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/storage"
)

const sessionKeyPrefix = "archivist:session:"

// redisStore keeps one session per player under a TTL-bounded key.
// Consume uses GETDEL, so the read and the delete are a single atomic
// round trip even across processes.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// sessionRecord is the JSON shape persisted to Redis.
type sessionRecord struct {
	PlayerID       string    `json:"player_id"`
	SecretAxiom    string    `json:"secret_axiom"`
	RevelationText string    `json:"revelation_text"`
	FragmentID     string    `json:"fragment_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func sessionKey(playerID string) string {
	return sessionKeyPrefix + playerID
}

func encodeSession(session round.Session) ([]byte, error) {
	record := sessionRecord{
		PlayerID:       session.PlayerID,
		SecretAxiom:    session.SecretAxiom.String(),
		RevelationText: session.RevelationText,
		FragmentID:     session.FragmentID,
		CreatedAt:      session.CreatedAt,
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return encoded, nil
}

func decodeSession(raw string) (round.Session, error) {
	var record sessionRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return round.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}

	secret, err := axiom.Parse(record.SecretAxiom)
	if err != nil {
		return round.Session{}, fmt.Errorf("decode secret axiom: %w", err)
	}

	return round.Session{
		PlayerID:       record.PlayerID,
		SecretAxiom:    secret,
		RevelationText: record.RevelationText,
		FragmentID:     record.FragmentID,
		CreatedAt:      record.CreatedAt,
	}, nil
}

// Put implements storage.SessionStore.
func (s *redisStore) Put(ctx context.Context, session round.Session) error {
	playerID := strings.TrimSpace(session.PlayerID)
	if playerID == "" {
		return round.ErrEmptyPlayerID
	}

	encoded, err := encodeSession(session)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, sessionKey(playerID), encoded, s.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Get implements storage.SessionStore.
func (s *redisStore) Get(ctx context.Context, playerID string) (round.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(strings.TrimSpace(playerID))).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return round.Session{}, storage.ErrNotFound
		}
		return round.Session{}, fmt.Errorf("get session: %w", err)
	}
	return decodeSession(raw)
}

// Consume implements storage.SessionStore.
func (s *redisStore) Consume(ctx context.Context, playerID string) (round.Session, error) {
	raw, err := s.client.GetDel(ctx, sessionKey(strings.TrimSpace(playerID))).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return round.Session{}, storage.ErrNotFound
		}
		return round.Session{}, fmt.Errorf("consume session: %w", err)
	}
	return decodeSession(raw)
}

// Delete implements storage.SessionStore.
func (s *redisStore) Delete(ctx context.Context, playerID string) error {
	if err := s.client.Del(ctx, sessionKey(strings.TrimSpace(playerID))).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close implements storage.SessionStore.
func (s *redisStore) Close() error {
	return s.client.Close()
}
