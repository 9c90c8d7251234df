package webhooks

import (
	"context"
	"fmt"
	"strings"

	"magnetlab_backend/internal/events"
	leadtransport "magnetlab_backend/internal/leads/transport"
	"magnetlab_backend/platform/apperr"
	"magnetlab_backend/platform/logger"
	"magnetlab_backend/platform/sanitize"

	"github.com/google/uuid"
)

const defaultDeliveryLimit = 50

// LeadImporter creates leads from inbound payloads. Satisfied by the leads service.
type LeadImporter interface {
	Import(ctx context.Context, req leadtransport.ImportLeadRequest) (*leadtransport.LeadResponse, error)
}

// Service manages webhook endpoints and inbound lead imports.
type Service struct {
	repo     EndpointStore
	importer LeadImporter
	log      *logger.Logger
}

// NewService creates a new webhooks service.
func NewService(repo EndpointStore, importer LeadImporter, log *logger.Logger) *Service {
	return &Service{repo: repo, importer: importer, log: log}
}

// CreateEndpoint registers a new endpoint with a freshly generated secret.
func (s *Service) CreateEndpoint(ctx context.Context, userID uuid.UUID, req CreateEndpointRequest) (Endpoint, error) {
	if err := ValidateTargetURL(req.URL); err != nil {
		return Endpoint{}, err
	}
	eventTypes, err := normalizeEventTypes(req.EventTypes)
	if err != nil {
		return Endpoint{}, err
	}

	secret, err := GenerateSecret()
	if err != nil {
		return Endpoint{}, apperr.Internal("failed to generate webhook secret", err)
	}

	return s.repo.CreateEndpoint(ctx, Endpoint{
		UserID:     userID,
		Name:       sanitize.Text(req.Name),
		URL:        strings.TrimSpace(req.URL),
		Secret:     secret,
		EventTypes: eventTypes,
	})
}

func (s *Service) ListEndpoints(ctx context.Context, userID uuid.UUID) ([]Endpoint, error) {
	return s.repo.ListEndpoints(ctx, userID)
}

func (s *Service) DeleteEndpoint(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteEndpoint(ctx, id, userID)
}

func (s *Service) ListDeliveries(ctx context.Context, userID, endpointID uuid.UUID) ([]Delivery, error) {
	return s.repo.ListDeliveries(ctx, endpointID, userID, defaultDeliveryLimit)
}

// SubscribedEndpoints returns the IDs of the owner's active endpoints for eventType.
func (s *Service) SubscribedEndpoints(ctx context.Context, ownerID uuid.UUID, eventType string) ([]uuid.UUID, error) {
	endpoints, err := s.repo.ListSubscribed(ctx, ownerID, eventType)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(endpoints))
	for _, ep := range endpoints {
		ids = append(ids, ep.ID)
	}
	return ids, nil
}

// ImportLead hands a verified inbound payload to the leads module.
func (s *Service) ImportLead(ctx context.Context, req leadtransport.ImportLeadRequest) (*leadtransport.LeadResponse, error) {
	lead, err := s.importer.Import(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("inbound lead imported", "leadId", lead.ID, "funnelPageId", req.FunnelPageID)
	return lead, nil
}

func normalizeEventTypes(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if !events.IsKnownEventType(t) {
			return nil, apperr.Validation(fmt.Sprintf("unknown event type %q", t))
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}
