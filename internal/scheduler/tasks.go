package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskOwnerEmail = "notification.owner_email"

const TaskWebhookDelivery = "webhooks.deliver"

// Owner email kinds.
const (
	OwnerEmailLeadCaptured  = "lead_captured"
	OwnerEmailLeadQualified = "lead_qualified"
)

type OwnerEmailPayload struct {
	EventID      string `json:"eventId"`
	Kind         string `json:"kind"`
	ToEmail      string `json:"toEmail"`
	OwnerName    string `json:"ownerName,omitempty"`
	LeadEmail    string `json:"leadEmail"`
	LeadName     string `json:"leadName,omitempty"`
	FunnelTitle  string `json:"funnelTitle,omitempty"`
	DashboardURL string `json:"dashboardUrl,omitempty"`
}

// IdempotencyKey identifies one email across queue retries.
func (p OwnerEmailPayload) IdempotencyKey() string {
	return "email:" + p.EventID + ":" + p.Kind
}

type WebhookDeliveryPayload struct {
	EventID    string          `json:"eventId"`
	EndpointID string          `json:"endpointId"`
	EventType  string          `json:"eventType"`
	Body       json.RawMessage `json:"body"`
}

// IdempotencyKey identifies one event/endpoint pair across queue retries.
func (p WebhookDeliveryPayload) IdempotencyKey() string {
	return "webhook:" + p.EventID + ":" + p.EndpointID
}

func NewOwnerEmailTask(payload OwnerEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOwnerEmail, data), nil
}

func ParseOwnerEmailPayload(task *asynq.Task) (OwnerEmailPayload, error) {
	var payload OwnerEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return OwnerEmailPayload{}, err
	}
	return payload, nil
}

func NewWebhookDeliveryTask(payload WebhookDeliveryPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWebhookDelivery, data), nil
}

func ParseWebhookDeliveryPayload(task *asynq.Task) (WebhookDeliveryPayload, error) {
	var payload WebhookDeliveryPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return WebhookDeliveryPayload{}, err
	}
	return payload, nil
}
