package webhooks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"magnetlab_backend/platform/apperr"
	"magnetlab_backend/platform/logger"

	"github.com/google/uuid"
)

const maxErrorBodyBytes = 512

// OutboundEvent is one event addressed to one endpoint.
type OutboundEvent struct {
	EndpointID uuid.UUID
	EventID    uuid.UUID
	EventType  string
	Payload    []byte
}

// Deliverer POSTs signed events and records every attempt.
type Deliverer struct {
	repo   EndpointStore
	client *http.Client
	log    *logger.Logger
	now    func() time.Time
}

// NewDeliverer creates a deliverer with the given per-request timeout. Its
// client refuses to connect to internal addresses.
func NewDeliverer(repo EndpointStore, timeout time.Duration, log *logger.Logger) *Deliverer {
	return &Deliverer{
		repo:   repo,
		client: newGuardedClient(timeout),
		log:    log,
		now:    time.Now,
	}
}

// Deliver sends ev to its endpoint. Removed or paused endpoints are skipped
// without error. A transport failure or non-2xx answer is returned so the
// queue can retry.
func (d *Deliverer) Deliver(ctx context.Context, ev OutboundEvent) error {
	ep, err := d.repo.GetEndpoint(ctx, ev.EndpointID)
	if apperr.Is(err, apperr.KindNotFound) {
		d.log.Info("webhook endpoint gone, skipping delivery", "endpointId", ev.EndpointID, "eventId", ev.EventID)
		return nil
	}
	if err != nil {
		return err
	}
	if !ep.IsActive {
		return nil
	}

	status, sendErr := d.send(ctx, ep, ev)

	record := Delivery{EndpointID: ep.ID, EventID: ev.EventID, EventType: ev.EventType}
	if status != 0 {
		record.StatusCode = &status
	}
	if sendErr != nil {
		msg := sendErr.Error()
		record.Error = &msg
	}
	if err := d.repo.RecordDelivery(ctx, record); err != nil {
		d.log.DatabaseError("record webhook delivery", err)
	}

	if sendErr != nil {
		d.log.Warn("webhook delivery failed", "endpointId", ep.ID, "eventId", ev.EventID, "status", status, "error", sendErr)
	}
	return sendErr
}

func (d *Deliverer) send(ctx context.Context, ep Endpoint, ev OutboundEvent) (int, error) {
	ts := d.now().Unix()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(ev.Payload))
	if err != nil {
		return 0, fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "MagnetLab-Webhooks/1.0")
	req.Header.Set(EventHeader, ev.EventType)
	req.Header.Set(TimestampHeader, fmt.Sprintf("%d", ts))
	req.Header.Set(SignatureHeader, Sign(ep.Secret, ts, ev.Payload))

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return resp.StatusCode, fmt.Errorf("endpoint answered %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
