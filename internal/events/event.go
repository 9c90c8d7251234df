// Package events holds the lead lifecycle events modules publish to each
// other. The bus itself lives in platform/events.
package events

import (
	"slices"

	"magnetlab_backend/platform/events"
	"magnetlab_backend/platform/logger"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus builds the process-local bus used by the API binary.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// Event names double as outbound webhook event types.
const (
	LeadCapturedName  = "lead.captured"
	LeadQualifiedName = "lead.qualified"
)

// KnownEventTypes lists the event names an outbound webhook may subscribe to.
var KnownEventTypes = []string{LeadCapturedName, LeadQualifiedName}

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCaptured is published when a visitor opts in or a lead is imported.
type LeadCaptured struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	FunnelPageID uuid.UUID `json:"funnelPageId"`
	OwnerID      uuid.UUID `json:"ownerId"`
	Email        string    `json:"email"`
	Name         *string   `json:"name,omitempty"`
	Source       string    `json:"source"`
}

func (e LeadCaptured) EventName() string { return LeadCapturedName }

// LeadQualified is published after a qualification verdict was persisted.
type LeadQualified struct {
	BaseEvent
	LeadID       uuid.UUID       `json:"leadId"`
	FunnelPageID uuid.UUID       `json:"funnelPageId"`
	OwnerID      uuid.UUID       `json:"ownerId"`
	Email        string          `json:"email"`
	Qualified    bool            `json:"qualified"`
	Answers      map[string]bool `json:"answers"`
}

func (e LeadQualified) EventName() string { return LeadQualifiedName }

// IsKnownEventType reports whether name is one of KnownEventTypes.
func IsKnownEventType(name string) bool {
	return slices.Contains(KnownEventTypes, name)
}
