package exports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LeadRow is one exported lead joined with the funnel page it came from.
type LeadRow struct {
	ID          uuid.UUID
	FunnelSlug  string
	FunnelTitle string
	Email       string
	Name        *string
	Phone       *string
	Source      string
	UTMSource   *string
	UTMMedium   *string
	UTMCampaign *string
	Qualified   *bool
	QualifiedAt *time.Time
	CreatedAt   time.Time
}

// Filter selects the owner's leads captured within [From, To).
type Filter struct {
	OwnerID      uuid.UUID
	FunnelPageID *uuid.UUID
	From         time.Time
	To           time.Time
	Limit        int
}

// LeadReader lists lead rows for export.
type LeadReader interface {
	ListLeadRows(ctx context.Context, filter Filter) ([]LeadRow, error)
}

// Repository provides data access for export operations.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListLeadRows(ctx context.Context, filter Filter) ([]LeadRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.id, f.slug, f.optin_headline, l.email, l.name, l.phone, l.source,
			l.utm_source, l.utm_medium, l.utm_campaign, l.qualified, l.qualified_at, l.created_at
		FROM leads l
		JOIN funnel_pages f ON f.id = l.funnel_page_id
		WHERE l.user_id = $1
			AND ($2::uuid IS NULL OR l.funnel_page_id = $2)
			AND l.created_at >= $3 AND l.created_at < $4
		ORDER BY l.created_at DESC
		LIMIT $5
	`, filter.OwnerID, filter.FunnelPageID, filter.From, filter.To, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list export rows: %w", err)
	}
	defer rows.Close()

	result := make([]LeadRow, 0)
	for rows.Next() {
		var row LeadRow
		if err := rows.Scan(
			&row.ID, &row.FunnelSlug, &row.FunnelTitle, &row.Email, &row.Name, &row.Phone, &row.Source,
			&row.UTMSource, &row.UTMMedium, &row.UTMCampaign, &row.Qualified, &row.QualifiedAt, &row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan export row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
