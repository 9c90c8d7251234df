package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"magnetlab_backend/internal/qualification/domain"
	"magnetlab_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const formNotFoundMsg = "qualification form not found"

// Form is a reusable, named set of qualification questions.
type Form struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	QuestionCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const formColumns = `f.id, f.user_id, f.name,
	(SELECT COUNT(*) FROM qualification_questions q WHERE q.form_id = f.id),
	f.created_at, f.updated_at`

func scanForm(row rowScanner) (Form, error) {
	var f Form
	err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.QuestionCount, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

// GetForm returns a form owned by userID.
func (r *Repository) GetForm(ctx context.Context, id, userID uuid.UUID) (Form, error) {
	f, err := scanForm(r.pool.QueryRow(ctx, `
		SELECT `+formColumns+`
		FROM qualification_forms f
		WHERE f.id = $1 AND f.user_id = $2
	`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Form{}, apperr.NotFound(formNotFoundMsg)
	}
	if err != nil {
		return Form{}, fmt.Errorf("failed to get qualification form: %w", err)
	}
	return f, nil
}

// ListForms returns all forms owned by userID, newest first.
func (r *Repository) ListForms(ctx context.Context, userID uuid.UUID) ([]Form, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+formColumns+`
		FROM qualification_forms f
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list qualification forms: %w", err)
	}
	defer rows.Close()

	forms := make([]Form, 0)
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan qualification form: %w", err)
		}
		forms = append(forms, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate qualification forms: %w", err)
	}
	return forms, nil
}

// CreateForm inserts a form together with its initial questions in one
// transaction.
func (r *Repository) CreateForm(ctx context.Context, userID uuid.UUID, name string, questions []domain.Question) (Form, []domain.Question, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Form{}, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var f Form
	err = tx.QueryRow(ctx, `
		INSERT INTO qualification_forms (user_id, name)
		VALUES ($1, $2)
		RETURNING id, user_id, name, created_at, updated_at
	`, userID, name).Scan(&f.ID, &f.UserID, &f.Name, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return Form{}, nil, fmt.Errorf("failed to create qualification form: %w", err)
	}

	created := make([]domain.Question, 0, len(questions))
	for i, q := range questions {
		q.FormID = &f.ID
		q.FunnelPageID = nil
		q.QuestionOrder = i
		saved, err := insertQuestion(ctx, tx, q)
		if err != nil {
			return Form{}, nil, err
		}
		created = append(created, saved)
	}

	if err := tx.Commit(ctx); err != nil {
		return Form{}, nil, fmt.Errorf("failed to commit qualification form: %w", err)
	}
	f.QuestionCount = len(created)
	return f, created, nil
}

// RenameForm changes the name of a form owned by userID.
func (r *Repository) RenameForm(ctx context.Context, id, userID uuid.UUID, name string) (Form, error) {
	f, err := scanForm(r.pool.QueryRow(ctx, `
		WITH updated AS (
			UPDATE qualification_forms
			SET name = $3, updated_at = now()
			WHERE id = $1 AND user_id = $2
			RETURNING id, user_id, name, created_at, updated_at
		)
		SELECT f.id, f.user_id, f.name,
			(SELECT COUNT(*) FROM qualification_questions q WHERE q.form_id = f.id),
			f.created_at, f.updated_at
		FROM updated f
	`, id, userID, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return Form{}, apperr.NotFound(formNotFoundMsg)
	}
	if err != nil {
		return Form{}, fmt.Errorf("failed to rename qualification form: %w", err)
	}
	return f, nil
}

// DeleteForm removes a form and its questions. Funnels that referenced it fall
// back to their legacy questions.
func (r *Repository) DeleteForm(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM qualification_forms WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete qualification form: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(formNotFoundMsg)
	}
	return nil
}
