// Package notification provides event handlers that turn lead events into
// background work: owner emails and outbound webhook deliveries.
// Domain modules publish events and never learn about email or webhooks.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"magnetlab_backend/internal/events"
	"magnetlab_backend/internal/scheduler"
	"magnetlab_backend/platform/config"
	"magnetlab_backend/platform/logger"

	"github.com/google/uuid"
)

// OwnerDirectory resolves where an owner's notifications go.
type OwnerDirectory interface {
	GetOwnerContact(ctx context.Context, userID uuid.UUID) (email string, name *string, err error)
}

// FunnelTitleReader names a funnel page in notification copy.
type FunnelTitleReader interface {
	GetFunnelTitle(ctx context.Context, funnelPageID uuid.UUID) (string, error)
}

// EndpointLister returns the owner's endpoints subscribed to an event type.
type EndpointLister interface {
	SubscribedEndpoints(ctx context.Context, ownerID uuid.UUID, eventType string) ([]uuid.UUID, error)
}

// WebhookEnvelope is the JSON body outbound endpoints receive.
type WebhookEnvelope struct {
	ID        uuid.UUID    `json:"id"`
	Type      string       `json:"type"`
	CreatedAt time.Time    `json:"createdAt"`
	Data      events.Event `json:"data"`
}

// Module handles all notification-related event subscriptions.
type Module struct {
	queue     scheduler.TaskEnqueuer
	owners    OwnerDirectory
	funnels   FunnelTitleReader
	endpoints EndpointLister
	cfg       config.NotificationConfig
	log       *logger.Logger
}

// New creates the notification module. queue may be nil when no task queue is
// configured; events are then logged and skipped.
func New(queue scheduler.TaskEnqueuer, owners OwnerDirectory, funnels FunnelTitleReader, endpoints EndpointLister, cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{
		queue:     queue,
		owners:    owners,
		funnels:   funnels,
		endpoints: endpoints,
		cfg:       cfg,
		log:       log,
	}
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCaptured{}.EventName(), m)
	bus.Subscribe(events.LeadQualified{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	if m.queue == nil {
		m.log.Debug("task queue not configured, skipping notification", "event", event.EventName(), "eventId", event.EventID())
		return nil
	}

	switch e := event.(type) {
	case events.LeadCaptured:
		return m.handleLeadCaptured(ctx, e)
	case events.LeadQualified:
		return m.handleLeadQualified(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleLeadCaptured(ctx context.Context, e events.LeadCaptured) error {
	leadName := ""
	if e.Name != nil {
		leadName = *e.Name
	}
	emailErr := m.enqueueOwnerEmail(ctx, scheduler.OwnerEmailLeadCaptured, e, e.OwnerID, e.FunnelPageID, e.Email, leadName)
	return errors.Join(emailErr, m.fanOutWebhooks(ctx, e, e.OwnerID))
}

func (m *Module) handleLeadQualified(ctx context.Context, e events.LeadQualified) error {
	var emailErr error
	if e.Qualified {
		emailErr = m.enqueueOwnerEmail(ctx, scheduler.OwnerEmailLeadQualified, e, e.OwnerID, e.FunnelPageID, e.Email, "")
	}
	return errors.Join(emailErr, m.fanOutWebhooks(ctx, e, e.OwnerID))
}

func (m *Module) enqueueOwnerEmail(ctx context.Context, kind string, event events.Event, ownerID, funnelPageID uuid.UUID, leadEmail, leadName string) error {
	toEmail, ownerName, err := m.owners.GetOwnerContact(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("resolve owner contact: %w", err)
	}

	title := ""
	if m.funnels != nil {
		if t, err := m.funnels.GetFunnelTitle(ctx, funnelPageID); err == nil {
			title = t
		} else {
			m.log.Warn("failed to resolve funnel title", "funnelPageId", funnelPageID, "error", err)
		}
	}

	payload := scheduler.OwnerEmailPayload{
		EventID:      event.EventID().String(),
		Kind:         kind,
		ToEmail:      toEmail,
		LeadEmail:    leadEmail,
		LeadName:     leadName,
		FunnelTitle:  title,
		DashboardURL: m.dashboardURL(),
	}
	if ownerName != nil {
		payload.OwnerName = *ownerName
	}

	if err := m.queue.EnqueueOwnerEmail(ctx, payload); err != nil {
		return fmt.Errorf("enqueue owner email: %w", err)
	}
	return nil
}

func (m *Module) fanOutWebhooks(ctx context.Context, event events.Event, ownerID uuid.UUID) error {
	endpointIDs, err := m.endpoints.SubscribedEndpoints(ctx, ownerID, event.EventName())
	if err != nil {
		return fmt.Errorf("list subscribed endpoints: %w", err)
	}
	if len(endpointIDs) == 0 {
		return nil
	}

	body, err := json.Marshal(WebhookEnvelope{
		ID:        event.EventID(),
		Type:      event.EventName(),
		CreatedAt: event.OccurredAt(),
		Data:      event,
	})
	if err != nil {
		return fmt.Errorf("encode webhook body: %w", err)
	}

	var errs []error
	for _, id := range endpointIDs {
		if err := m.queue.EnqueueWebhookDelivery(ctx, scheduler.WebhookDeliveryPayload{
			EventID:    event.EventID().String(),
			EndpointID: id.String(),
			EventType:  event.EventName(),
			Body:       body,
		}); err != nil {
			errs = append(errs, fmt.Errorf("enqueue webhook %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Module) dashboardURL() string {
	base := strings.TrimRight(m.cfg.GetAppBaseURL(), "/")
	if base == "" {
		return ""
	}
	return base + "/leads"
}

var _ events.Handler = (*Module)(nil)
