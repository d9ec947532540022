package service

import (
	"context"
	"errors"

	"askboard/internal/forum/guard"
	"askboard/pkg/domain"
	dErrors "askboard/pkg/domain-errors"
	"askboard/pkg/platform/sentinel"
)

// DeleteQuestion removes a question together with every answer referencing
// it. The ownership check happens outside the transaction (existence first,
// then the guard); the two deletions then run inside the ForumTx boundary so
// no reader sees the question gone while its answers remain.
func (s *Service) DeleteQuestion(ctx context.Context, principal domain.Principal, questionID string) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}

	question, err := s.loadQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if guard.Authorize(principal, question.OwnerID) != guard.Allowed {
		return dErrors.New(dErrors.CodeForbidden, "only the question's owner may delete it")
	}

	if err := s.deleteQuestionCascade(ctx, questionID); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.CascadeDeletes.Inc()
	}
	return nil
}

// deleteQuestionCascade deletes answers first, then the question. If a crash
// lands between the two steps, re-running the cascade is safe: the answer
// deletion is a no-op on an already-answer-less question and the flow
// proceeds to the question. Once the question row is also gone the rerun
// reports not-found and writes nothing.
func (s *Service) deleteQuestionCascade(ctx context.Context, questionID string) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context, questions QuestionStore, answers AnswerStore) error {
		if err := answers.DeleteByQuestion(ctx, questionID); err != nil {
			return err
		}
		return questions.Delete(ctx, questionID)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return notFoundQuestion()
		}
		if dErrors.HasCode(err, dErrors.CodeTimeout) {
			return err
		}
		return storeFailure(err, "failed to delete question")
	}
	return nil
}
