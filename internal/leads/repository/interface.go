package repository

import (
	"context"

	"github.com/google/uuid"
)

// LeadReader loads leads.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, params ListParams) ([]Lead, int, error)
	CountByVerdict(ctx context.Context, funnelPageID uuid.UUID) (VerdictCounts, error)
}

// LeadWriter creates leads and records qualification outcomes.
type LeadWriter interface {
	Create(ctx context.Context, params CreateParams) (Lead, error)
	// SaveQualification overwrites the verdict and raw answers in a single
	// statement. Concurrent submissions for one lead are last write wins.
	SaveQualification(ctx context.Context, id uuid.UUID, qualified bool, answers map[string]bool) (Lead, error)
}

// LeadRepository is the full persistence port of the leads module.
type LeadRepository interface {
	LeadReader
	LeadWriter
}

var _ LeadRepository = (*Repository)(nil)
