package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"magnetlab_backend/platform/apperr"
	"magnetlab_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	funnelNotFoundMsg = "funnel page not found"
	slugConstraint    = "funnel_pages_user_slug_key"
	slugConflictMsg   = "a funnel page with this slug already exists"
	funnelPageColumns = `id, user_id, slug, optin_headline, optin_subline, optin_button_text,
	thankyou_headline, thankyou_subline, calendly_url, rejection_message,
	qualification_form_id, published, published_at, created_at, updated_at`
)

// FunnelPage represents the funnel page database model
type FunnelPage struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	Slug                string
	OptinHeadline       string
	OptinSubline        *string
	OptinButtonText     *string
	ThankyouHeadline    *string
	ThankyouSubline     *string
	CalendlyURL         *string
	RejectionMessage    *string
	QualificationFormID *uuid.UUID
	Published           bool
	PublishedAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// FunnelReader provides read-only access to funnel pages.
type FunnelReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (FunnelPage, error)
	GetOwned(ctx context.Context, id, userID uuid.UUID) (FunnelPage, error)
	GetPublishedBySlug(ctx context.Context, userID uuid.UUID, slug string) (FunnelPage, error)
	List(ctx context.Context, userID uuid.UUID) ([]FunnelPage, error)
}

// FunnelWriter provides write operations for funnel pages.
type FunnelWriter interface {
	Create(ctx context.Context, page FunnelPage) (FunnelPage, error)
	Update(ctx context.Context, page FunnelPage) (FunnelPage, error)
	SetPublished(ctx context.Context, id, userID uuid.UUID, published bool) (FunnelPage, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// FunnelRepository combines the funnel page read and write operations.
type FunnelRepository interface {
	FunnelReader
	FunnelWriter
}

// Ensure Repository implements FunnelRepository
var _ FunnelRepository = (*Repository)(nil)

// Repository provides database operations for funnel pages
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new funnel page repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanFunnelPage(row pgx.Row) (FunnelPage, error) {
	var p FunnelPage
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Slug,
		&p.OptinHeadline,
		&p.OptinSubline,
		&p.OptinButtonText,
		&p.ThankyouHeadline,
		&p.ThankyouSubline,
		&p.CalendlyURL,
		&p.RejectionMessage,
		&p.QualificationFormID,
		&p.Published,
		&p.PublishedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *Repository) getOne(ctx context.Context, op, query string, args ...any) (FunnelPage, error) {
	page, err := scanFunnelPage(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return FunnelPage{}, apperr.NotFound(funnelNotFoundMsg)
	}
	if err != nil {
		return FunnelPage{}, fmt.Errorf("failed to %s: %w", op, err)
	}
	return page, nil
}

// GetByID returns a funnel page regardless of owner.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (FunnelPage, error) {
	return r.getOne(ctx, "get funnel page", `
		SELECT `+funnelPageColumns+` FROM funnel_pages WHERE id = $1
	`, id)
}

// GetOwned returns a funnel page only when it belongs to userID.
func (r *Repository) GetOwned(ctx context.Context, id, userID uuid.UUID) (FunnelPage, error) {
	return r.getOne(ctx, "get funnel page", `
		SELECT `+funnelPageColumns+` FROM funnel_pages WHERE id = $1 AND user_id = $2
	`, id, userID)
}

// GetPublishedBySlug returns a published page addressed by owner and slug.
func (r *Repository) GetPublishedBySlug(ctx context.Context, userID uuid.UUID, slug string) (FunnelPage, error) {
	return r.getOne(ctx, "get published funnel page", `
		SELECT `+funnelPageColumns+`
		FROM funnel_pages
		WHERE user_id = $1 AND slug = $2 AND published = true
	`, userID, slug)
}

// List returns all funnel pages of userID, newest first.
func (r *Repository) List(ctx context.Context, userID uuid.UUID) ([]FunnelPage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+funnelPageColumns+`
		FROM funnel_pages
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list funnel pages: %w", err)
	}
	defer rows.Close()

	pages := make([]FunnelPage, 0)
	for rows.Next() {
		page, err := scanFunnelPage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan funnel page: %w", err)
		}
		pages = append(pages, page)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate funnel pages: %w", err)
	}
	return pages, nil
}

// Create inserts a draft funnel page. A duplicate slug for the same owner is
// reported as a conflict.
func (r *Repository) Create(ctx context.Context, page FunnelPage) (FunnelPage, error) {
	created, err := scanFunnelPage(r.pool.QueryRow(ctx, `
		INSERT INTO funnel_pages (
			user_id, slug, optin_headline, optin_subline, optin_button_text,
			thankyou_headline, thankyou_subline, calendly_url, rejection_message,
			qualification_form_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+funnelPageColumns,
		page.UserID, page.Slug, page.OptinHeadline, page.OptinSubline, page.OptinButtonText,
		page.ThankyouHeadline, page.ThankyouSubline, page.CalendlyURL, page.RejectionMessage,
		page.QualificationFormID,
	))
	if db.IsUniqueViolation(err, slugConstraint) {
		return FunnelPage{}, apperr.Conflict(slugConflictMsg)
	}
	if err != nil {
		return FunnelPage{}, fmt.Errorf("failed to create funnel page: %w", err)
	}
	return created, nil
}

// Update overwrites the editable content of an owned page. Publish state is
// changed only through SetPublished.
func (r *Repository) Update(ctx context.Context, page FunnelPage) (FunnelPage, error) {
	updated, err := scanFunnelPage(r.pool.QueryRow(ctx, `
		UPDATE funnel_pages
		SET slug = $3,
			optin_headline = $4,
			optin_subline = $5,
			optin_button_text = $6,
			thankyou_headline = $7,
			thankyou_subline = $8,
			calendly_url = $9,
			rejection_message = $10,
			qualification_form_id = $11,
			updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+funnelPageColumns,
		page.ID, page.UserID, page.Slug, page.OptinHeadline, page.OptinSubline, page.OptinButtonText,
		page.ThankyouHeadline, page.ThankyouSubline, page.CalendlyURL, page.RejectionMessage,
		page.QualificationFormID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return FunnelPage{}, apperr.NotFound(funnelNotFoundMsg)
	}
	if db.IsUniqueViolation(err, slugConstraint) {
		return FunnelPage{}, apperr.Conflict(slugConflictMsg)
	}
	if err != nil {
		return FunnelPage{}, fmt.Errorf("failed to update funnel page: %w", err)
	}
	return updated, nil
}

// SetPublished flips the publish flag. published_at is stamped on the first
// publish only and kept on republish and unpublish.
func (r *Repository) SetPublished(ctx context.Context, id, userID uuid.UUID, published bool) (FunnelPage, error) {
	updated, err := scanFunnelPage(r.pool.QueryRow(ctx, `
		UPDATE funnel_pages
		SET published = $3,
			published_at = CASE WHEN $3 THEN COALESCE(published_at, now()) ELSE published_at END,
			updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+funnelPageColumns,
		id, userID, published,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return FunnelPage{}, apperr.NotFound(funnelNotFoundMsg)
	}
	if err != nil {
		return FunnelPage{}, fmt.Errorf("failed to set funnel publish state: %w", err)
	}
	return updated, nil
}

// Delete removes an owned funnel page with its legacy questions and leads.
func (r *Repository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM funnel_pages WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete funnel page: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(funnelNotFoundMsg)
	}
	return nil
}
