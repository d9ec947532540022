package question

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"askboard/internal/forum/models"
	"askboard/pkg/platform/sentinel"
)

// InMemoryStore keeps questions in a map. It intentionally favors clarity
// over performance.
type InMemoryStore struct {
	mu        sync.RWMutex
	questions map[string]models.Question
}

func New() *InMemoryStore {
	return &InMemoryStore{questions: make(map[string]models.Question)}
}

// Create inserts the question, generating its surrogate id and timestamp.
func (s *InMemoryStore) Create(_ context.Context, question models.Question) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	question.ID = uuid.NewString()
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now()
	}
	s.questions[question.ID] = question
	return question, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if question, ok := s.questions[id]; ok {
		return question, nil
	}
	return models.Question{}, sentinel.ErrNotFound
}

// Update replaces title and body. OwnerID and CreatedAt are never written.
func (s *InMemoryStore) Update(_ context.Context, question models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.questions[question.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	existing.Title = question.Title
	existing.Body = question.Body
	s.questions[question.ID] = existing
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.questions, id)
	return nil
}

// ListNewestFirst returns all questions ordered by created_at descending.
func (s *InMemoryStore) ListNewestFirst(_ context.Context) ([]models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	questions := make([]models.Question, 0, len(s.questions))
	for _, question := range s.questions {
		questions = append(questions, question)
	}
	sort.Slice(questions, func(i, j int) bool {
		return questions[i].CreatedAt.After(questions[j].CreatedAt)
	})
	return questions, nil
}
