package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"magnetlab_backend/internal/email"
	"magnetlab_backend/internal/webhooks"
	"magnetlab_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type countingSender struct {
	email.NoopSender
	captured  int
	qualified int
	lastTo    string
}

func (s *countingSender) SendLeadCapturedEmail(_ context.Context, to string, _ email.LeadNotification) error {
	s.captured++
	s.lastTo = to
	return nil
}

func (s *countingSender) SendLeadQualifiedEmail(_ context.Context, to string, _ email.LeadNotification) error {
	s.qualified++
	s.lastTo = to
	return nil
}

type flakyDeliverer struct {
	failures int
	calls    []webhooks.OutboundEvent
}

func (d *flakyDeliverer) Deliver(_ context.Context, ev webhooks.OutboundEvent) error {
	d.calls = append(d.calls, ev)
	if d.failures > 0 {
		d.failures--
		return errors.New("endpoint answered 502")
	}
	return nil
}

func TestWebhookDeliveryIsIdempotentAcrossRetries(t *testing.T) {
	ledger, _ := newTestLedger(t)
	deliverer := &flakyDeliverer{failures: 1}
	p := NewProcessor(&countingSender{}, deliverer, ledger, logger.Discard())

	task, err := NewWebhookDeliveryTask(WebhookDeliveryPayload{
		EventID:    uuid.NewString(),
		EndpointID: uuid.NewString(),
		EventType:  "lead.captured",
		Body:       json.RawMessage(`{"type":"lead.captured"}`),
	})
	if err != nil {
		t.Fatalf("task: %v", err)
	}

	if err := p.HandleWebhookDelivery(context.Background(), task); err == nil {
		t.Fatal("first attempt should fail so the queue retries")
	}
	if err := p.HandleWebhookDelivery(context.Background(), task); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if err := p.HandleWebhookDelivery(context.Background(), task); err != nil {
		t.Fatalf("duplicate: %v", err)
	}

	if len(deliverer.calls) != 2 {
		t.Fatalf("expected 2 delivery attempts, got %d", len(deliverer.calls))
	}
	if string(deliverer.calls[1].Payload) != `{"type":"lead.captured"}` {
		t.Fatalf("payload = %s", deliverer.calls[1].Payload)
	}
}

func TestOwnerEmailRoutesByKind(t *testing.T) {
	ledger, _ := newTestLedger(t)
	sender := &countingSender{}
	p := NewProcessor(sender, &flakyDeliverer{}, ledger, logger.Discard())
	eventID := uuid.NewString()

	for _, kind := range []string{OwnerEmailLeadCaptured, OwnerEmailLeadQualified, OwnerEmailLeadQualified} {
		task, _ := NewOwnerEmailTask(OwnerEmailPayload{EventID: eventID, Kind: kind, ToEmail: "owner@example.com", LeadEmail: "lead@example.com"})
		if err := p.HandleOwnerEmail(context.Background(), task); err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
	}

	if sender.captured != 1 || sender.qualified != 1 || sender.lastTo != "owner@example.com" {
		t.Fatalf("captured=%d qualified=%d to=%q", sender.captured, sender.qualified, sender.lastTo)
	}
}

func TestMalformedTasksSkipRetry(t *testing.T) {
	ledger, _ := newTestLedger(t)
	p := NewProcessor(&countingSender{}, &flakyDeliverer{}, ledger, logger.Discard())

	cases := []struct {
		name   string
		handle func(context.Context, *asynq.Task) error
		task   *asynq.Task
	}{
		{"email garbage", p.HandleOwnerEmail, asynq.NewTask(TaskOwnerEmail, []byte(`{`))},
		{"email kind", p.HandleOwnerEmail, asynq.NewTask(TaskOwnerEmail, []byte(`{"eventId":"x","kind":"digest"}`))},
		{"webhook endpoint id", p.HandleWebhookDelivery, asynq.NewTask(TaskWebhookDelivery, []byte(`{"eventId":"`+uuid.NewString()+`","endpointId":"nope"}`))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.handle(context.Background(), tc.task); !errors.Is(err, asynq.SkipRetry) {
				t.Fatalf("expected SkipRetry, got %v", err)
			}
		})
	}
}
