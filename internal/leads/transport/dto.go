package transport

import (
	"time"

	"github.com/google/uuid"
)

// QualifyRequest carries a visitor's answers keyed by question id. Values
// that are not JSON booleans fail binding.
type QualifyRequest struct {
	LeadID       uuid.UUID       `json:"leadId" validate:"required"`
	FunnelPageID uuid.UUID       `json:"funnelPageId" validate:"required"`
	Answers      map[string]bool `json:"answers" validate:"required"`
}

// QualifyResponse is the routing payload for the visitor's client. Exactly
// one of CalendlyURL and RejectionMessage is set when the funnel configured a
// booking link.
type QualifyResponse struct {
	Qualified        bool    `json:"qualified"`
	CalendlyURL      *string `json:"calendlyUrl"`
	RejectionMessage *string `json:"rejectionMessage"`
}

// OptinRequest is submitted by a visitor on a published funnel page.
type OptinRequest struct {
	Email       string  `json:"email" validate:"required,email,max=254"`
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	UTMSource   *string `json:"utmSource,omitempty" validate:"omitempty,max=200"`
	UTMMedium   *string `json:"utmMedium,omitempty" validate:"omitempty,max=200"`
	UTMCampaign *string `json:"utmCampaign,omitempty" validate:"omitempty,max=200"`
}

// OptinResponse returns the new lead id the visitor's client qualifies with.
type OptinResponse struct {
	LeadID       uuid.UUID `json:"leadId"`
	FunnelPageID uuid.UUID `json:"funnelPageId"`
}

// ImportLeadRequest is one lead delivered by an inbound integration.
type ImportLeadRequest struct {
	FunnelPageID uuid.UUID `json:"funnelPageId" validate:"required"`
	OptinRequest
}

// ListLeadsRequest filters the owner's lead list.
type ListLeadsRequest struct {
	FunnelPageID string `form:"funnelPageId" validate:"omitempty,uuid"`
	Qualified    string `form:"qualified" validate:"omitempty,oneof=qualified disqualified pending"`
	Page         int    `form:"page" validate:"omitempty,min=1"`
	PageSize     int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type LeadResponse struct {
	ID           uuid.UUID       `json:"id"`
	FunnelPageID uuid.UUID       `json:"funnelPageId"`
	Email        string          `json:"email"`
	Name         *string         `json:"name,omitempty"`
	Phone        *string         `json:"phone,omitempty"`
	UTMSource    *string         `json:"utmSource,omitempty"`
	UTMMedium    *string         `json:"utmMedium,omitempty"`
	UTMCampaign  *string         `json:"utmCampaign,omitempty"`
	Source       string          `json:"source"`
	Qualified    *bool           `json:"qualified"`
	Verdict      string          `json:"verdict"`
	Answers      map[string]bool `json:"answers,omitempty"`
	QualifiedAt  *time.Time      `json:"qualifiedAt,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}
