package answer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"askboard/internal/forum/models"
	"askboard/pkg/platform/sentinel"
	txcontext "askboard/pkg/platform/tx"
)

// PostgresStore persists answers in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE answers (
//	    id          UUID PRIMARY KEY,
//	    question_id UUID NOT NULL REFERENCES questions (id),
//	    owner_id    UUID NOT NULL REFERENCES users (id),
//	    answer_text TEXT NOT NULL,
//	    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//	CREATE INDEX answers_question_id_idx ON answers (question_id, created_at);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, answer models.Answer) (models.Answer, error) {
	answer.ID = uuid.NewString()
	err := s.execer(ctx).QueryRowContext(ctx,
		`INSERT INTO answers (id, question_id, owner_id, answer_text)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		answer.ID, answer.QuestionID, answer.OwnerID, answer.AnswerText,
	).Scan(&answer.CreatedAt)
	if err != nil {
		return models.Answer{}, fmt.Errorf("insert answer: %w", err)
	}
	return answer, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (models.Answer, error) {
	var answer models.Answer
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT id, question_id, owner_id, answer_text, created_at FROM answers WHERE id = $1`, id,
	).Scan(&answer.ID, &answer.QuestionID, &answer.OwnerID, &answer.AnswerText, &answer.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Answer{}, sentinel.ErrNotFound
		}
		return models.Answer{}, fmt.Errorf("find answer: %w", err)
	}
	return answer, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	result, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM answers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete answer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListByQuestion(ctx context.Context, questionID string) ([]models.Answer, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT id, question_id, owner_id, answer_text, created_at
		 FROM answers WHERE question_id = $1 ORDER BY created_at ASC`, questionID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var answers []models.Answer
	for rows.Next() {
		var answer models.Answer
		if err := rows.Scan(&answer.ID, &answer.QuestionID, &answer.OwnerID, &answer.AnswerText, &answer.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, answer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}
	return answers, nil
}

// DeleteByQuestion removes every answer referencing the question. Deleting
// zero rows is not an error; the cascade relies on that for retries.
func (s *PostgresStore) DeleteByQuestion(ctx context.Context, questionID string) error {
	if _, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM answers WHERE question_id = $1`, questionID); err != nil {
		return fmt.Errorf("delete answers by question: %w", err)
	}
	return nil
}
