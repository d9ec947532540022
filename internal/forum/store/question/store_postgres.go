package question

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

// PostgresStore persists questions in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE questions (
//	    id         UUID PRIMARY KEY,
//	    owner_id   UUID NOT NULL REFERENCES users (id),
//	    title      TEXT NOT NULL,
//	    body       TEXT NOT NULL DEFAULT '',
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
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

// execer picks the ambient transaction when the cascade delete opened one.
func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, question models.Question) (models.Question, error) {
	question.ID = uuid.NewString()
	err := s.execer(ctx).QueryRowContext(ctx,
		`INSERT INTO questions (id, owner_id, title, body)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		question.ID, question.OwnerID, question.Title, question.Body,
	).Scan(&question.CreatedAt)
	if err != nil {
		return models.Question{}, fmt.Errorf("insert question: %w", err)
	}
	return question, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (models.Question, error) {
	var question models.Question
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT id, owner_id, title, body, created_at FROM questions WHERE id = $1`, id,
	).Scan(&question.ID, &question.OwnerID, &question.Title, &question.Body, &question.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Question{}, sentinel.ErrNotFound
		}
		return models.Question{}, fmt.Errorf("find question: %w", err)
	}
	return question, nil
}

// Update writes title and body only; owner_id and created_at stay untouched.
func (s *PostgresStore) Update(ctx context.Context, question models.Question) error {
	result, err := s.execer(ctx).ExecContext(ctx,
		`UPDATE questions SET title = $1, body = $2 WHERE id = $3`,
		question.Title, question.Body, question.ID)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	return requireRow(result)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	result, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return requireRow(result)
}

func (s *PostgresStore) ListNewestFirst(ctx context.Context) ([]models.Question, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT id, owner_id, title, body, created_at FROM questions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var question models.Question
		if err := rows.Scan(&question.ID, &question.OwnerID, &question.Title, &question.Body, &question.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return questions, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
