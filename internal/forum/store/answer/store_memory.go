package answer

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"askboard/internal/forum/models"
	"askboard/pkg/platform/sentinel"
)

// InMemoryStore keeps answers in a map keyed by answer id.
type InMemoryStore struct {
	mu      sync.RWMutex
	answers map[string]models.Answer
}

func New() *InMemoryStore {
	return &InMemoryStore{answers: make(map[string]models.Answer)}
}

func (s *InMemoryStore) Create(_ context.Context, answer models.Answer) (models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	answer.ID = uuid.NewString()
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = time.Now()
	}
	s.answers[answer.ID] = answer
	return answer, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (models.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if answer, ok := s.answers[id]; ok {
		return answer, nil
	}
	return models.Answer{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.answers[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.answers, id)
	return nil
}

// ListByQuestion returns the question's answers ordered by created_at ascending.
func (s *InMemoryStore) ListByQuestion(_ context.Context, questionID string) ([]models.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var answers []models.Answer
	for _, answer := range s.answers {
		if answer.QuestionID == questionID {
			answers = append(answers, answer)
		}
	}
	sort.Slice(answers, func(i, j int) bool {
		return answers[i].CreatedAt.Before(answers[j].CreatedAt)
	})
	return answers, nil
}

// DeleteByQuestion removes every answer referencing the question. Zero
// matches is a no-op, which keeps the cascade retryable.
func (s *InMemoryStore) DeleteByQuestion(_ context.Context, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, answer := range s.answers {
		if answer.QuestionID == questionID {
			delete(s.answers, id)
		}
	}
	return nil
}
