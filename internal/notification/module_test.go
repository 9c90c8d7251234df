package notification

import (
	"context"
	"encoding/json"
	"testing"

	"magnetlab_backend/internal/events"
	"magnetlab_backend/internal/scheduler"
	"magnetlab_backend/platform/logger"

	"github.com/google/uuid"
)

type testNotificationConfig struct{}

func (testNotificationConfig) GetAppBaseURL() string { return "https://app.example.com/" }

type recordingQueue struct {
	emails   []scheduler.OwnerEmailPayload
	webhooks []scheduler.WebhookDeliveryPayload
}

func (q *recordingQueue) EnqueueOwnerEmail(_ context.Context, p scheduler.OwnerEmailPayload) error {
	q.emails = append(q.emails, p)
	return nil
}

func (q *recordingQueue) EnqueueWebhookDelivery(_ context.Context, p scheduler.WebhookDeliveryPayload) error {
	q.webhooks = append(q.webhooks, p)
	return nil
}

type staticOwners struct{}

func (staticOwners) GetOwnerContact(context.Context, uuid.UUID) (string, *string, error) {
	name := "Jane"
	return "owner@example.com", &name, nil
}

type staticTitles struct{}

func (staticTitles) GetFunnelTitle(context.Context, uuid.UUID) (string, error) {
	return "Free audit", nil
}

type staticEndpoints map[string][]uuid.UUID

func (s staticEndpoints) SubscribedEndpoints(_ context.Context, _ uuid.UUID, eventType string) ([]uuid.UUID, error) {
	return s[eventType], nil
}

const testLeadEmail = "lead@example.com"

func TestLeadCapturedEnqueuesEmailAndWebhooks(t *testing.T) {
	queue := &recordingQueue{}
	crm, gtm := uuid.New(), uuid.New()
	m := New(queue, staticOwners{}, staticTitles{}, staticEndpoints{events.LeadCapturedName: {crm, gtm}}, testNotificationConfig{}, logger.Discard())

	name := "Visitor"
	ev := events.LeadCaptured{BaseEvent: events.NewBaseEvent(), LeadID: uuid.New(), OwnerID: uuid.New(), Email: testLeadEmail, Name: &name, Source: "optin"}
	if err := m.Handle(context.Background(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(queue.emails) != 1 {
		t.Fatalf("emails = %d", len(queue.emails))
	}
	got := queue.emails[0]
	if got.Kind != scheduler.OwnerEmailLeadCaptured || got.ToEmail != "owner@example.com" || got.OwnerName != "Jane" ||
		got.LeadName != "Visitor" || got.FunnelTitle != "Free audit" || got.DashboardURL != "https://app.example.com/leads" {
		t.Fatalf("unexpected email payload %+v", got)
	}

	if len(queue.webhooks) != 2 || queue.webhooks[0].EndpointID != crm.String() || queue.webhooks[1].EndpointID != gtm.String() {
		t.Fatalf("unexpected webhook payloads %+v", queue.webhooks)
	}

	var envelope map[string]any
	if err := json.Unmarshal(queue.webhooks[0].Body, &envelope); err != nil {
		t.Fatalf("body: %v", err)
	}
	if envelope["type"] != "lead.captured" || envelope["id"] != ev.ID.String() {
		t.Fatalf("unexpected envelope %v", envelope)
	}
	data, _ := envelope["data"].(map[string]any)
	if data["email"] != testLeadEmail {
		t.Fatalf("envelope data = %v", data)
	}
}

func TestLeadQualifiedEmailsOnlyQualified(t *testing.T) {
	queue := &recordingQueue{}
	endpoint := uuid.New()
	m := New(queue, staticOwners{}, nil, staticEndpoints{events.LeadQualifiedName: {endpoint}}, testNotificationConfig{}, logger.Discard())

	for _, qualified := range []bool{false, true} {
		ev := events.LeadQualified{BaseEvent: events.NewBaseEvent(), OwnerID: uuid.New(), Email: testLeadEmail, Qualified: qualified}
		if err := m.Handle(context.Background(), ev); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}

	if len(queue.emails) != 1 || queue.emails[0].Kind != scheduler.OwnerEmailLeadQualified {
		t.Fatalf("emails = %+v", queue.emails)
	}
	if len(queue.webhooks) != 2 {
		t.Fatalf("every verdict goes to webhooks, got %d", len(queue.webhooks))
	}
}

func TestHandleWithoutQueueSkips(t *testing.T) {
	m := New(nil, nil, nil, nil, testNotificationConfig{}, logger.Discard())

	ev := events.LeadCaptured{BaseEvent: events.NewBaseEvent(), Email: testLeadEmail}
	if err := m.Handle(context.Background(), ev); err != nil {
		t.Fatalf("expected skip, got %v", err)
	}
}

func TestRegisterHandlersSubscribesLeadEvents(t *testing.T) {
	queue := &recordingQueue{}
	bus := events.NewInMemoryBus(logger.Discard())
	m := New(queue, staticOwners{}, staticTitles{}, staticEndpoints{}, testNotificationConfig{}, logger.Discard())
	m.RegisterHandlers(bus)

	if err := bus.PublishSync(context.Background(), events.LeadCaptured{BaseEvent: events.NewBaseEvent(), Email: testLeadEmail}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(queue.emails) != 1 {
		t.Fatalf("emails = %d", len(queue.emails))
	}
}
