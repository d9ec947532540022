package user

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"askboard/internal/identity/models"
	"askboard/pkg/platform/sentinel"
)

// InMemoryStore keeps users in a map. It backs tests and single-process
// deployments; the postgres store is the production implementation.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func New() *InMemoryStore {
	return &InMemoryStore{users: make(map[string]models.User)}
}

// Create inserts the user, generating its id. Username and email uniqueness
// is enforced case-insensitively, matching the postgres unique indexes.
func (s *InMemoryStore) Create(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, user.Username) || strings.EqualFold(existing.Email, user.Email) {
			return models.User{}, sentinel.ErrConflict
		}
	}
	user.ID = uuid.NewString()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return models.User{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return models.User{}, sentinel.ErrNotFound
}
