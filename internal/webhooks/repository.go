// Package webhooks provides outbound webhook endpoints (GTM, CRM) and the
// signed inbound lead import.
package webhooks

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
	endpointNotFoundMsg = "webhook endpoint not found"
	endpointColumns     = "id, user_id, name, url, secret, event_types, is_active, created_at"
)

// Endpoint is an owner-registered receiver of outbound events.
type Endpoint struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Name       string
	URL        string
	Secret     string
	EventTypes []string
	IsActive   bool
	CreatedAt  time.Time
}

// Delivery is one recorded attempt to POST an event to an endpoint.
type Delivery struct {
	ID          uuid.UUID
	EndpointID  uuid.UUID
	EventID     uuid.UUID
	EventType   string
	StatusCode  *int
	Error       *string
	DeliveredAt time.Time
}

// EndpointStore is the persistence port of the webhooks module.
type EndpointStore interface {
	CreateEndpoint(ctx context.Context, ep Endpoint) (Endpoint, error)
	ListEndpoints(ctx context.Context, userID uuid.UUID) ([]Endpoint, error)
	GetEndpoint(ctx context.Context, id uuid.UUID) (Endpoint, error)
	DeleteEndpoint(ctx context.Context, id, userID uuid.UUID) error
	ListSubscribed(ctx context.Context, userID uuid.UUID, eventType string) ([]Endpoint, error)
	RecordDelivery(ctx context.Context, d Delivery) error
	ListDeliveries(ctx context.Context, endpointID, userID uuid.UUID, limit int) ([]Delivery, error)
}

var _ EndpointStore = (*Repository)(nil)

// Repository provides data access for webhook endpoints and deliveries.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new webhook repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanEndpoint(row pgx.Row) (Endpoint, error) {
	var ep Endpoint
	err := row.Scan(&ep.ID, &ep.UserID, &ep.Name, &ep.URL, &ep.Secret, &ep.EventTypes, &ep.IsActive, &ep.CreatedAt)
	return ep, err
}

func collectEndpoints(rows pgx.Rows) ([]Endpoint, error) {
	defer rows.Close()

	endpoints := make([]Endpoint, 0)
	for rows.Next() {
		ep, err := scanEndpoint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan webhook endpoint: %w", err)
		}
		endpoints = append(endpoints, ep)
	}
	return endpoints, rows.Err()
}

// CreateEndpoint stores a new endpoint.
func (r *Repository) CreateEndpoint(ctx context.Context, ep Endpoint) (Endpoint, error) {
	created, err := scanEndpoint(r.pool.QueryRow(ctx, `
		INSERT INTO webhook_endpoints (user_id, name, url, secret, event_types)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+endpointColumns,
		ep.UserID, ep.Name, ep.URL, ep.Secret, ep.EventTypes))
	if err != nil {
		return Endpoint{}, fmt.Errorf("failed to create webhook endpoint: %w", err)
	}
	return created, nil
}

// ListEndpoints returns all endpoints of an owner, newest first.
func (r *Repository) ListEndpoints(ctx context.Context, userID uuid.UUID) ([]Endpoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+endpointColumns+`
		FROM webhook_endpoints
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhook endpoints: %w", err)
	}
	return collectEndpoints(rows)
}

// GetEndpoint loads an endpoint regardless of owner. Used by the delivery worker.
func (r *Repository) GetEndpoint(ctx context.Context, id uuid.UUID) (Endpoint, error) {
	ep, err := scanEndpoint(r.pool.QueryRow(ctx, `
		SELECT `+endpointColumns+`
		FROM webhook_endpoints
		WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Endpoint{}, apperr.NotFound(endpointNotFoundMsg)
	}
	if err != nil {
		return Endpoint{}, fmt.Errorf("failed to get webhook endpoint: %w", err)
	}
	return ep, nil
}

// DeleteEndpoint removes an owner's endpoint together with its delivery log.
func (r *Repository) DeleteEndpoint(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM webhook_endpoints WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete webhook endpoint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(endpointNotFoundMsg)
	}
	return nil
}

// ListSubscribed returns the owner's active endpoints subscribed to eventType.
func (r *Repository) ListSubscribed(ctx context.Context, userID uuid.UUID, eventType string) ([]Endpoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+endpointColumns+`
		FROM webhook_endpoints
		WHERE user_id = $1 AND is_active = true AND $2 = ANY(event_types)
	`, userID, eventType)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribed webhook endpoints: %w", err)
	}
	return collectEndpoints(rows)
}

// RecordDelivery appends a row to the delivery log.
func (r *Repository) RecordDelivery(ctx context.Context, d Delivery) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO webhook_deliveries (endpoint_id, event_id, event_type, status_code, error)
		VALUES ($1, $2, $3, $4, $5)
	`, d.EndpointID, d.EventID, d.EventType, d.StatusCode, d.Error)
	if err != nil {
		return fmt.Errorf("failed to record webhook delivery: %w", err)
	}
	return nil
}

// ListDeliveries returns the latest attempts for an owner's endpoint.
func (r *Repository) ListDeliveries(ctx context.Context, endpointID, userID uuid.UUID, limit int) ([]Delivery, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.endpoint_id, d.event_id, d.event_type, d.status_code, d.error, d.delivered_at
		FROM webhook_deliveries d
		JOIN webhook_endpoints e ON e.id = d.endpoint_id
		WHERE d.endpoint_id = $1 AND e.user_id = $2
		ORDER BY d.delivered_at DESC
		LIMIT $3
	`, endpointID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhook deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := make([]Delivery, 0)
	for rows.Next() {
		var d Delivery
		if err := rows.Scan(&d.ID, &d.EndpointID, &d.EventID, &d.EventType, &d.StatusCode, &d.Error, &d.DeliveredAt); err != nil {
			return nil, fmt.Errorf("failed to scan webhook delivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}
