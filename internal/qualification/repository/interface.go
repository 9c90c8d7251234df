package repository

import (
	"context"

	"magnetlab_backend/internal/qualification/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces
// =====================================

// QuestionReader provides read-only access to qualification questions.
type QuestionReader interface {
	ListByFunnel(ctx context.Context, funnelPageID uuid.UUID) ([]domain.Question, error)
	ListByForm(ctx context.Context, formID uuid.UUID) ([]domain.Question, error)
	GetQuestion(ctx context.Context, id uuid.UUID) (domain.Question, error)
}

// QuestionWriter provides write operations for qualification questions.
type QuestionWriter interface {
	CreateQuestion(ctx context.Context, q domain.Question) (domain.Question, error)
	UpdateQuestion(ctx context.Context, q domain.Question) (domain.Question, error)
	DeleteQuestion(ctx context.Context, id uuid.UUID) error
	SetQuestionOrder(ctx context.Context, formID, questionID uuid.UUID, order int) error
}

// FormReader provides owner-scoped read access to qualification forms.
type FormReader interface {
	GetForm(ctx context.Context, id, userID uuid.UUID) (Form, error)
	ListForms(ctx context.Context, userID uuid.UUID) ([]Form, error)
}

// FormWriter provides owner-scoped write operations for qualification forms.
type FormWriter interface {
	CreateForm(ctx context.Context, userID uuid.UUID, name string, questions []domain.Question) (Form, []domain.Question, error)
	RenameForm(ctx context.Context, id, userID uuid.UUID, name string) (Form, error)
	DeleteForm(ctx context.Context, id, userID uuid.UUID) error
}

// =====================================
// Composite Interface
// =====================================

// QualificationRepository defines the complete interface for qualification data operations.
type QualificationRepository interface {
	QuestionReader
	QuestionWriter
	FormReader
	FormWriter
}

// Ensure Repository implements QualificationRepository
var _ QualificationRepository = (*Repository)(nil)
