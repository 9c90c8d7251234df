package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"magnetlab_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	resourceNotFoundMsg = "resource not found"
	resourceColumns     = "id, user_id, title, description, resource_type, url, file_key, click_count, created_at"
)

const (
	TypeLink = "link"
	TypeFile = "file"
)

// Resource is a lead magnet asset: either an external link or an uploaded file.
type Resource struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Title        string
	Description  *string
	ResourceType string
	URL          *string
	FileKey      *string
	ClickCount   int64
	CreatedAt    time.Time
}

// ResourceRepository is the persistence port of the library module.
type ResourceRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]Resource, error)
	GetOwned(ctx context.Context, id, userID uuid.UUID) (Resource, error)
	Create(ctx context.Context, res Resource) (Resource, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	IncrementClicks(ctx context.Context, id uuid.UUID) error
}

var _ ResourceRepository = (*Repository)(nil)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanResource(row pgx.Row) (Resource, error) {
	var r Resource
	err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Description, &r.ResourceType, &r.URL, &r.FileKey, &r.ClickCount, &r.CreatedAt)
	return r, err
}

func (r *Repository) List(ctx context.Context, userID uuid.UUID) ([]Resource, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+resourceColumns+`
		FROM library_resources
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	resources := make([]Resource, 0)
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resources: %w", err)
	}
	return resources, nil
}

func (r *Repository) GetOwned(ctx context.Context, id, userID uuid.UUID) (Resource, error) {
	res, err := scanResource(r.pool.QueryRow(ctx, `
		SELECT `+resourceColumns+`
		FROM library_resources
		WHERE id = $1 AND user_id = $2
	`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Resource{}, apperr.NotFound(resourceNotFoundMsg)
	}
	if err != nil {
		return Resource{}, fmt.Errorf("failed to get resource: %w", err)
	}
	return res, nil
}

func (r *Repository) Create(ctx context.Context, res Resource) (Resource, error) {
	created, err := scanResource(r.pool.QueryRow(ctx, `
		INSERT INTO library_resources (user_id, title, description, resource_type, url, file_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+resourceColumns,
		res.UserID, res.Title, res.Description, res.ResourceType, res.URL, res.FileKey))
	if err != nil {
		return Resource{}, fmt.Errorf("failed to create resource: %w", err)
	}
	return created, nil
}

func (r *Repository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM library_resources WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourceNotFoundMsg)
	}
	return nil
}

// IncrementClicks bumps the click counter. Unknown ids are a no-op.
func (r *Repository) IncrementClicks(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `UPDATE library_resources SET click_count = click_count + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to increment resource clicks: %w", err)
	}
	return nil
}
