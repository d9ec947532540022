package main

import (
	"context"
	"database/sql"
	"time"

	forumservice "askboard/internal/forum/service"
	dErrors "askboard/pkg/domain-errors"
	txcontext "askboard/pkg/platform/tx"
)

const defaultForumTxTimeout = 5 * time.Second

// forumPostgresTx runs the cascade delete inside one SQL transaction. The
// transaction travels to the stores through the context, so the same store
// instances serve both transactional and plain calls.
type forumPostgresTx struct {
	db        *sql.DB
	questions forumservice.QuestionStore
	answers   forumservice.AnswerStore
	timeout   time.Duration
}

func newForumPostgresTx(db *sql.DB, questions forumservice.QuestionStore, answers forumservice.AnswerStore) *forumPostgresTx {
	return &forumPostgresTx{db: db, questions: questions, answers: answers}
}

func (t *forumPostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context, questions forumservice.QuestionStore, answers forumservice.AnswerStore) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultForumTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx), t.questions, t.answers); err != nil {
		return err
	}
	return tx.Commit()
}
