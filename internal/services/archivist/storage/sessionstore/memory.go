package sessionstore

import (
	"context"
	"strings"
	"sync"

	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/round"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/storage"
)

// memoryStore keeps sessions in a mutex-guarded map. Consume holds the lock
// across the read and the delete, so it is atomic per process.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]round.Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]round.Session)}
}

// Put implements storage.SessionStore.
func (s *memoryStore) Put(_ context.Context, session round.Session) error {
	playerID := strings.TrimSpace(session.PlayerID)
	if playerID == "" {
		return round.ErrEmptyPlayerID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[playerID] = session
	return nil
}

// Get implements storage.SessionStore.
func (s *memoryStore) Get(_ context.Context, playerID string) (round.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[strings.TrimSpace(playerID)]
	if !exists {
		return round.Session{}, storage.ErrNotFound
	}
	return session, nil
}

// Consume implements storage.SessionStore.
func (s *memoryStore) Consume(_ context.Context, playerID string) (round.Session, error) {
	playerID = strings.TrimSpace(playerID)

	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[playerID]
	if !exists {
		return round.Session{}, storage.ErrNotFound
	}
	delete(s.sessions, playerID)
	return session, nil
}

// Delete implements storage.SessionStore.
func (s *memoryStore) Delete(_ context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, strings.TrimSpace(playerID))
	return nil
}

// Close implements storage.SessionStore.
func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]round.Session)
	return nil
}
