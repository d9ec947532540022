package session

import (
	"context"
	"sync"
	"time"

	"askboard/internal/identity/models"
	"askboard/pkg/platform/sentinel"
)

// InMemoryStore keeps sessions in a map. Expired entries are dropped lazily
// on lookup rather than by a background sweeper.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func New() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]models.Session)}
}

func (s *InMemoryStore) Create(_ context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *InMemoryStore) FindByToken(_ context.Context, token string) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return models.Session{}, sentinel.ErrNotFound
	}
	if session.Expired(time.Now()) {
		delete(s.sessions, token)
		return models.Session{}, sentinel.ErrNotFound
	}
	return session, nil
}

// Delete removes the session. Deleting an absent token reports not-found so
// logout can surface store-level failures distinctly from success.
func (s *InMemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.sessions, token)
	return nil
}
