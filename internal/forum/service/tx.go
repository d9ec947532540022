package service

import (
	"context"
	"sync"
	"time"

	dErrors "askboard/pkg/domain-errors"
)

// ForumTx provides the atomic boundary for the cascade delete. Implementations
// wrap a database transaction or, in-memory, a coarse lock; either way a
// reader never observes the question gone while its answers remain. The
// context handed to fn carries whatever the implementation needs to route
// store calls through the transaction.
type ForumTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, questions QuestionStore, answers AnswerStore) error) error
}

// defaultTxTimeout bounds how long a cascade may hold the boundary.
const defaultTxTimeout = 5 * time.Second

// MemoryTx serializes cascades over the in-memory stores with one mutex.
// Contention is not a concern at the scale the memory stores serve.
type MemoryTx struct {
	mu        sync.Mutex
	questions QuestionStore
	answers   AnswerStore
	timeout   time.Duration
}

func NewMemoryTx(questions QuestionStore, answers AnswerStore) *MemoryTx {
	return &MemoryTx{questions: questions, answers: answers}
}

func (t *MemoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context, questions QuestionStore, answers AnswerStore) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx, t.questions, t.answers)
}
