package service

import (
	"context"
	"errors"
	"strings"

	"askboard/internal/forum/guard"
	"askboard/internal/forum/models"
	"askboard/internal/platform/metrics"
	"askboard/pkg/domain"
	dErrors "askboard/pkg/domain-errors"
	"askboard/pkg/platform/sentinel"
)

type QuestionStore interface {
	Create(ctx context.Context, question models.Question) (models.Question, error)
	FindByID(ctx context.Context, id string) (models.Question, error)
	Update(ctx context.Context, question models.Question) error
	Delete(ctx context.Context, id string) error
	ListNewestFirst(ctx context.Context) ([]models.Question, error)
}

type AnswerStore interface {
	Create(ctx context.Context, answer models.Answer) (models.Answer, error)
	FindByID(ctx context.Context, id string) (models.Answer, error)
	Delete(ctx context.Context, id string) error
	ListByQuestion(ctx context.Context, questionID string) ([]models.Answer, error)
	DeleteByQuestion(ctx context.Context, questionID string) error
}

// UserDirectory supplies author usernames for listing payloads.
type UserDirectory interface {
	Username(ctx context.Context, userID string) (string, error)
}

// Service orchestrates the question/answer lifecycle: it loads resources,
// consults the ownership guard, and coordinates the cascade delete. The
// principal is always an explicit parameter; nothing here reads ambient
// session state.
type Service struct {
	questions QuestionStore
	answers   AnswerStore
	directory UserDirectory
	tx        ForumTx
	metrics   *metrics.Metrics
}

func New(questions QuestionStore, answers AnswerStore, directory UserDirectory, tx ForumTx, m *metrics.Metrics) *Service {
	return &Service{
		questions: questions,
		answers:   answers,
		directory: directory,
		tx:        tx,
		metrics:   m,
	}
}

// ListQuestions returns every question, newest first, with author usernames.
// No ownership filter: all authenticated users see all questions.
func (s *Service) ListQuestions(ctx context.Context, principal domain.Principal) ([]models.QuestionWithAuthor, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	questions, err := s.questions.ListNewestFirst(ctx)
	if err != nil {
		return nil, storeFailure(err, "failed to list questions")
	}

	usernames := make(map[string]string)
	out := make([]models.QuestionWithAuthor, 0, len(questions))
	for _, question := range questions {
		username, err := s.username(ctx, usernames, question.OwnerID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.QuestionWithAuthor{Question: question, AuthorUsername: username})
	}
	return out, nil
}

// CreateQuestion persists a new question owned by the principal. The title
// must be non-blank; the body may be any string, including empty.
func (s *Service) CreateQuestion(ctx context.Context, principal domain.Principal, title, body string) (models.Question, error) {
	if err := requirePrincipal(principal); err != nil {
		return models.Question{}, err
	}
	if strings.TrimSpace(title) == "" {
		return models.Question{}, dErrors.New(dErrors.CodeValidation, "title must not be empty")
	}

	question, err := s.questions.Create(ctx, models.Question{
		OwnerID: principal.ID,
		Title:   title,
		Body:    body,
	})
	if err != nil {
		return models.Question{}, storeFailure(err, "failed to create question")
	}
	if s.metrics != nil {
		s.metrics.QuestionsCreated.Inc()
	}
	return question, nil
}

// GetQuestionWithAnswers loads one question and its answers ordered oldest
// first. Any authenticated user may view any question.
func (s *Service) GetQuestionWithAnswers(ctx context.Context, principal domain.Principal, questionID string) (models.QuestionWithAuthor, []models.AnswerWithAuthor, error) {
	if err := requirePrincipal(principal); err != nil {
		return models.QuestionWithAuthor{}, nil, err
	}

	question, err := s.loadQuestion(ctx, questionID)
	if err != nil {
		return models.QuestionWithAuthor{}, nil, err
	}
	answers, err := s.answers.ListByQuestion(ctx, questionID)
	if err != nil {
		return models.QuestionWithAuthor{}, nil, storeFailure(err, "failed to list answers")
	}

	usernames := make(map[string]string)
	author, err := s.username(ctx, usernames, question.OwnerID)
	if err != nil {
		return models.QuestionWithAuthor{}, nil, err
	}
	out := make([]models.AnswerWithAuthor, 0, len(answers))
	for _, answer := range answers {
		username, err := s.username(ctx, usernames, answer.OwnerID)
		if err != nil {
			return models.QuestionWithAuthor{}, nil, err
		}
		out = append(out, models.AnswerWithAuthor{Answer: answer, AuthorUsername: username})
	}
	return models.QuestionWithAuthor{Question: question, AuthorUsername: author}, out, nil
}

// UpdateQuestion replaces title and body in place. Existence is checked
// before ownership so not-found and forbidden stay distinguishable; owner_id
// and created_at are never touched regardless of payload.
func (s *Service) UpdateQuestion(ctx context.Context, principal domain.Principal, questionID, title, body string) (models.Question, error) {
	if err := requirePrincipal(principal); err != nil {
		return models.Question{}, err
	}
	if strings.TrimSpace(title) == "" {
		return models.Question{}, dErrors.New(dErrors.CodeValidation, "title must not be empty")
	}

	question, err := s.loadQuestion(ctx, questionID)
	if err != nil {
		return models.Question{}, err
	}
	if guard.Authorize(principal, question.OwnerID) != guard.Allowed {
		return models.Question{}, dErrors.New(dErrors.CodeForbidden, "only the question's owner may edit it")
	}

	question.Title = title
	question.Body = body
	if err := s.questions.Update(ctx, question); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Question{}, notFoundQuestion()
		}
		return models.Question{}, storeFailure(err, "failed to update question")
	}
	return question, nil
}

// CreateAnswer posts an answer against an existing question. Anyone
// authenticated may answer; the existence check defends the answer's
// referential invariant.
func (s *Service) CreateAnswer(ctx context.Context, principal domain.Principal, questionID, answerText string) (models.Answer, error) {
	if err := requirePrincipal(principal); err != nil {
		return models.Answer{}, err
	}
	if strings.TrimSpace(answerText) == "" {
		return models.Answer{}, dErrors.New(dErrors.CodeValidation, "answer text must not be empty")
	}

	if _, err := s.loadQuestion(ctx, questionID); err != nil {
		return models.Answer{}, err
	}

	answer, err := s.answers.Create(ctx, models.Answer{
		QuestionID: questionID,
		OwnerID:    principal.ID,
		AnswerText: answerText,
	})
	if err != nil {
		return models.Answer{}, storeFailure(err, "failed to create answer")
	}
	if s.metrics != nil {
		s.metrics.AnswersCreated.Inc()
	}
	return answer, nil
}

// DeleteAnswer removes a single answer. The parent question is never touched.
func (s *Service) DeleteAnswer(ctx context.Context, principal domain.Principal, answerID string) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}

	answer, err := s.answers.FindByID(ctx, answerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "answer not found")
		}
		return storeFailure(err, "failed to load answer")
	}
	if guard.Authorize(principal, answer.OwnerID) != guard.Allowed {
		return dErrors.New(dErrors.CodeForbidden, "only the answer's owner may delete it")
	}

	if err := s.answers.Delete(ctx, answerID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "answer not found")
		}
		return storeFailure(err, "failed to delete answer")
	}
	return nil
}

func (s *Service) loadQuestion(ctx context.Context, questionID string) (models.Question, error) {
	question, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Question{}, notFoundQuestion()
		}
		return models.Question{}, storeFailure(err, "failed to load question")
	}
	return question, nil
}

func (s *Service) username(ctx context.Context, cache map[string]string, userID string) (string, error) {
	if username, ok := cache[userID]; ok {
		return username, nil
	}
	username, err := s.directory.Username(ctx, userID)
	if err != nil {
		// Users are never deleted, so a missing author should not take the
		// whole listing down; render it nameless and move on.
		if errors.Is(err, sentinel.ErrNotFound) {
			cache[userID] = ""
			return "", nil
		}
		return "", storeFailure(err, "failed to load author")
	}
	cache[userID] = username
	return username, nil
}

func requirePrincipal(principal domain.Principal) error {
	if principal.IsZero() {
		return dErrors.New(dErrors.CodeUnauthenticated, "authentication required")
	}
	return nil
}

func notFoundQuestion() error {
	return dErrors.New(dErrors.CodeNotFound, "question not found")
}

func storeFailure(err error, message string) error {
	if errors.Is(err, sentinel.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, message)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, message)
}
