package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Result types.
const (
	TypeFunnel   = "funnel"
	TypeLead     = "lead"
	TypeResource = "resource"
)

type SearchResult struct {
	ID           uuid.UUID
	Type         string
	Title        string
	Subtitle     string
	Status       string
	MatchedField string
	Score        float32
	CreatedAt    time.Time
	Total        int64
}

// Query scopes a search to one owner. Empty Types searches every kind.
type Query struct {
	OwnerID uuid.UUID
	Text    string
	Types   []string
	Limit   int
}

// Searcher runs an owner-scoped search over funnels, leads and resources.
type Searcher interface {
	GlobalSearch(ctx context.Context, q Query) ([]SearchResult, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GlobalSearch ranks exact matches above prefix matches above substring
// matches. $2 is the lowered query, $3 its LIKE prefix pattern and $4 its
// LIKE substring pattern. A NULL $6 disables the type filter.
func (r *Repository) GlobalSearch(ctx context.Context, q Query) ([]SearchResult, error) {
	querySQL := `
		WITH candidates AS (
			SELECT f.id, 'funnel' AS type, f.optin_headline AS title, '/' || f.slug AS subtitle,
				CASE WHEN f.published THEN 'published' ELSE 'draft' END AS status,
				CASE WHEN lower(f.slug) LIKE $4 ESCAPE '\' THEN 'slug' ELSE 'headline' END AS matched_field,
				GREATEST(rank_text(f.optin_headline, $2, $3, $4), rank_text(f.slug, $2, $3, $4)) AS rank,
				f.created_at
			FROM funnel_pages f
			WHERE f.user_id = $1
				AND (lower(f.optin_headline) LIKE $4 ESCAPE '\' OR lower(f.slug) LIKE $4 ESCAPE '\')
			UNION ALL
			SELECT l.id, 'lead', l.email, coalesce(f.optin_headline, ''),
				CASE WHEN l.qualified IS NULL THEN 'pending' WHEN l.qualified THEN 'qualified' ELSE 'disqualified' END,
				CASE WHEN lower(l.email) LIKE $4 ESCAPE '\' THEN 'email' ELSE 'name' END,
				GREATEST(rank_text(l.email, $2, $3, $4), rank_text(coalesce(l.name, ''), $2, $3, $4)),
				l.created_at
			FROM leads l
			JOIN funnel_pages f ON f.id = l.funnel_page_id
			WHERE l.user_id = $1
				AND (lower(l.email) LIKE $4 ESCAPE '\' OR lower(coalesce(l.name, '')) LIKE $4 ESCAPE '\')
			UNION ALL
			SELECT r.id, 'resource', r.title, coalesce(r.description, ''), r.resource_type, 'title',
				rank_text(r.title, $2, $3, $4), r.created_at
			FROM library_resources r
			WHERE r.user_id = $1 AND lower(r.title) LIKE $4 ESCAPE '\'
		)
		SELECT id, type, title, subtitle, status, matched_field, rank, created_at,
			COUNT(*) OVER() AS total
		FROM candidates
		WHERE $6::text[] IS NULL OR type = ANY($6::text[])
		ORDER BY rank DESC, created_at DESC
		LIMIT $5
	`

	var types []string
	if len(q.Types) > 0 {
		types = q.Types
	}

	needle := strings.ToLower(q.Text)
	escaped := escapeLike(needle)
	rows, err := r.pool.Query(ctx, querySQL, q.OwnerID, needle, escaped+"%", "%"+escaped+"%", q.Limit, types)
	if err != nil {
		return nil, fmt.Errorf("global search query failed: %w", err)
	}
	defer rows.Close()

	items := make([]SearchResult, 0)
	for rows.Next() {
		var item SearchResult
		if err := rows.Scan(
			&item.ID,
			&item.Type,
			&item.Title,
			&item.Subtitle,
			&item.Status,
			&item.MatchedField,
			&item.Score,
			&item.CreatedAt,
			&item.Total,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// escapeLike escapes LIKE metacharacters so the query matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
