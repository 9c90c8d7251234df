package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"magnetlab_backend/internal/qualification/domain"
	"magnetlab_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const questionNotFoundMsg = "question not found"

const questionColumns = `id, funnel_page_id, form_id, question_text, question_order, answer_type,
	qualifying_answer, options, placeholder, is_required, created_at`

// Repository provides database operations for qualification questions and forms.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new qualification repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (domain.Question, error) {
	var (
		q          domain.Question
		answerType string
		options    []byte
	)
	if err := row.Scan(
		&q.ID,
		&q.FunnelPageID,
		&q.FormID,
		&q.QuestionText,
		&q.QuestionOrder,
		&answerType,
		&q.QualifyingAnswer,
		&options,
		&q.Placeholder,
		&q.IsRequired,
		&q.CreatedAt,
	); err != nil {
		return domain.Question{}, err
	}
	q.AnswerType = domain.AnswerType(answerType)
	q.Options = []string{}
	if len(options) > 0 {
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return domain.Question{}, fmt.Errorf("decode question options: %w", err)
		}
	}
	return q, nil
}

func encodeOptions(options []string) ([]byte, error) {
	if options == nil {
		options = []string{}
	}
	return json.Marshal(options)
}

func (r *Repository) listQuestions(ctx context.Context, query string, arg uuid.UUID) ([]domain.Question, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}
	return questions, nil
}

// ListByFunnel returns the legacy questions attached directly to a funnel page.
func (r *Repository) ListByFunnel(ctx context.Context, funnelPageID uuid.UUID) ([]domain.Question, error) {
	return r.listQuestions(ctx, `
		SELECT `+questionColumns+`
		FROM qualification_questions
		WHERE funnel_page_id = $1
		ORDER BY question_order ASC, created_at ASC
	`, funnelPageID)
}

// ListByForm returns the questions of a reusable form in display order.
func (r *Repository) ListByForm(ctx context.Context, formID uuid.UUID) ([]domain.Question, error) {
	return r.listQuestions(ctx, `
		SELECT `+questionColumns+`
		FROM qualification_questions
		WHERE form_id = $1
		ORDER BY question_order ASC, created_at ASC
	`, formID)
}

// GetQuestion returns a question by ID.
func (r *Repository) GetQuestion(ctx context.Context, id uuid.UUID) (domain.Question, error) {
	q, err := scanQuestion(r.pool.QueryRow(ctx, `
		SELECT `+questionColumns+`
		FROM qualification_questions
		WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, apperr.NotFound(questionNotFoundMsg)
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// CreateQuestion inserts a question owned by q.FunnelPageID or q.FormID.
func (r *Repository) CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	return insertQuestion(ctx, r.pool, q)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertQuestion(ctx context.Context, db queryRower, q domain.Question) (domain.Question, error) {
	options, err := encodeOptions(q.Options)
	if err != nil {
		return domain.Question{}, err
	}

	created, err := scanQuestion(db.QueryRow(ctx, `
		INSERT INTO qualification_questions (
			funnel_page_id, form_id, question_text, question_order, answer_type,
			qualifying_answer, options, placeholder, is_required
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+questionColumns,
		q.FunnelPageID, q.FormID, q.QuestionText, q.QuestionOrder, string(q.AnswerType),
		q.QualifyingAnswer, options, q.Placeholder, q.IsRequired,
	))
	if err != nil {
		return domain.Question{}, fmt.Errorf("failed to create question: %w", err)
	}
	return created, nil
}

// UpdateQuestion overwrites the editable fields of a question.
func (r *Repository) UpdateQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	options, err := encodeOptions(q.Options)
	if err != nil {
		return domain.Question{}, err
	}

	updated, err := scanQuestion(r.pool.QueryRow(ctx, `
		UPDATE qualification_questions
		SET question_text = $2,
			question_order = $3,
			answer_type = $4,
			qualifying_answer = $5,
			options = $6,
			placeholder = $7,
			is_required = $8
		WHERE id = $1
		RETURNING `+questionColumns,
		q.ID, q.QuestionText, q.QuestionOrder, string(q.AnswerType),
		q.QualifyingAnswer, options, q.Placeholder, q.IsRequired,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, apperr.NotFound(questionNotFoundMsg)
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("failed to update question: %w", err)
	}
	return updated, nil
}

// DeleteQuestion removes a question. Lead answers keyed by its ID are kept.
func (r *Repository) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM qualification_questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(questionNotFoundMsg)
	}
	return nil
}

// SetQuestionOrder moves one question of a form to a new display position.
func (r *Repository) SetQuestionOrder(ctx context.Context, formID, questionID uuid.UUID, order int) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE qualification_questions
		SET question_order = $3
		WHERE id = $2 AND form_id = $1
	`, formID, questionID, order)
	if err != nil {
		return fmt.Errorf("failed to reorder question: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(questionNotFoundMsg)
	}
	return nil
}
