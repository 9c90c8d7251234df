package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"magnetlab_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const msgLeadNotFound = "lead not found"

// Lead sources.
const (
	SourceOptin   = "optin"
	SourceWebhook = "webhook"
)

// Lead is a visitor who opted in on a funnel page. Qualified is nil until the
// visitor submitted qualification answers.
type Lead struct {
	ID           uuid.UUID
	FunnelPageID uuid.UUID
	UserID       uuid.UUID
	Email        string
	Name         *string
	Phone        *string
	UTMSource    *string
	UTMMedium    *string
	UTMCampaign  *string
	Source       string
	Qualified    *bool
	Answers      map[string]bool
	QualifiedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateParams holds the columns written when a lead is captured.
type CreateParams struct {
	FunnelPageID uuid.UUID
	UserID       uuid.UUID
	Email        string
	Name         *string
	Phone        *string
	UTMSource    *string
	UTMMedium    *string
	UTMCampaign  *string
	Source       string
}

// ListParams filters an owner's leads. Pending selects leads without a
// verdict and takes precedence over Qualified.
type ListParams struct {
	UserID       uuid.UUID
	FunnelPageID *uuid.UUID
	Qualified    *bool
	Pending      bool
	Offset       int
	Limit        int
}

// VerdictCounts splits a funnel's leads by qualification verdict.
type VerdictCounts struct {
	Total        int
	Qualified    int
	Disqualified int
	Pending      int
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, funnel_page_id, user_id, email, name, phone, utm_source, utm_medium, utm_campaign,
	source, qualified, qualification_answers, qualified_at, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	var answersJSON []byte
	if err := row.Scan(
		&lead.ID, &lead.FunnelPageID, &lead.UserID, &lead.Email, &lead.Name, &lead.Phone,
		&lead.UTMSource, &lead.UTMMedium, &lead.UTMCampaign, &lead.Source,
		&lead.Qualified, &answersJSON, &lead.QualifiedAt, &lead.CreatedAt, &lead.UpdatedAt,
	); err != nil {
		return Lead{}, err
	}
	if len(answersJSON) > 0 {
		if err := json.Unmarshal(answersJSON, &lead.Answers); err != nil {
			return Lead{}, fmt.Errorf("failed to decode qualification answers: %w", err)
		}
	}
	return lead, nil
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (Lead, error) {
	source := params.Source
	if source == "" {
		source = SourceOptin
	}
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		INSERT INTO leads (funnel_page_id, user_id, email, name, phone, utm_source, utm_medium, utm_campaign, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+leadColumns,
		params.FunnelPageID, params.UserID, params.Email, params.Name, params.Phone,
		params.UTMSource, params.UTMMedium, params.UTMCampaign, source,
	))
	if err != nil {
		return Lead{}, fmt.Errorf("failed to create lead: %w", err)
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, apperr.NotFound(msgLeadNotFound)
	}
	if err != nil {
		return Lead{}, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

func (r *Repository) SaveQualification(ctx context.Context, id uuid.UUID, qualified bool, answers map[string]bool) (Lead, error) {
	if answers == nil {
		answers = map[string]bool{}
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return Lead{}, fmt.Errorf("failed to encode qualification answers: %w", err)
	}

	lead, err := scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads
		SET qualified = $2, qualification_answers = $3, qualified_at = now(), updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, qualified, answersJSON,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, apperr.NotFound(msgLeadNotFound)
	}
	if err != nil {
		return Lead{}, fmt.Errorf("failed to save qualification: %w", err)
	}
	return lead, nil
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	whereClause, args := buildListWhere(params)

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM leads WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	argIdx := len(args) + 1
	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM leads
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

func buildListWhere(params ListParams) (string, []interface{}) {
	whereClauses := []string{"user_id = $1"}
	args := []interface{}{params.UserID}

	if params.FunnelPageID != nil {
		args = append(args, *params.FunnelPageID)
		whereClauses = append(whereClauses, fmt.Sprintf("funnel_page_id = $%d", len(args)))
	}
	switch {
	case params.Pending:
		whereClauses = append(whereClauses, "qualified IS NULL")
	case params.Qualified != nil:
		args = append(args, *params.Qualified)
		whereClauses = append(whereClauses, fmt.Sprintf("qualified = $%d", len(args)))
	}

	return strings.Join(whereClauses, " AND "), args
}

func (r *Repository) CountByVerdict(ctx context.Context, funnelPageID uuid.UUID) (VerdictCounts, error) {
	var counts VerdictCounts
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*)::int,
			COUNT(*) FILTER (WHERE qualified IS TRUE)::int,
			COUNT(*) FILTER (WHERE qualified IS FALSE)::int,
			COUNT(*) FILTER (WHERE qualified IS NULL)::int
		FROM leads
		WHERE funnel_page_id = $1
	`, funnelPageID).Scan(&counts.Total, &counts.Qualified, &counts.Disqualified, &counts.Pending)
	if err != nil {
		return VerdictCounts{}, fmt.Errorf("failed to count leads: %w", err)
	}
	return counts, nil
}
