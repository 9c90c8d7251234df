package transport

import (
	"time"

	qualtransport "magnetlab_backend/internal/qualification/transport"

	"github.com/google/uuid"
)

// CreateFunnelRequest is the request body for creating a funnel page.
type CreateFunnelRequest struct {
	Slug                *string    `json:"slug" validate:"omitempty,slug"`
	OptinHeadline       string     `json:"optinHeadline" validate:"max=200"`
	OptinSubline        *string    `json:"optinSubline" validate:"omitempty,max=500"`
	OptinButtonText     *string    `json:"optinButtonText" validate:"omitempty,max=60"`
	ThankyouHeadline    *string    `json:"thankyouHeadline" validate:"omitempty,max=200"`
	ThankyouSubline     *string    `json:"thankyouSubline" validate:"omitempty,max=500"`
	CalendlyURL         *string    `json:"calendlyUrl" validate:"omitempty,url,max=500"`
	RejectionMessage    *string    `json:"rejectionMessage" validate:"omitempty,max=1000"`
	QualificationFormID *uuid.UUID `json:"qualificationFormId"`
}

// UpdateFunnelRequest is the request body for patching a funnel page. An
// empty string clears an optional text field.
type UpdateFunnelRequest struct {
	Slug                    *string    `json:"slug" validate:"omitempty,slug"`
	OptinHeadline           *string    `json:"optinHeadline" validate:"omitempty,max=200"`
	OptinSubline            *string    `json:"optinSubline" validate:"omitempty,max=500"`
	OptinButtonText         *string    `json:"optinButtonText" validate:"omitempty,max=60"`
	ThankyouHeadline        *string    `json:"thankyouHeadline" validate:"omitempty,max=200"`
	ThankyouSubline         *string    `json:"thankyouSubline" validate:"omitempty,max=500"`
	CalendlyURL             *string    `json:"calendlyUrl" validate:"omitempty,url,max=500"`
	RejectionMessage        *string    `json:"rejectionMessage" validate:"omitempty,max=1000"`
	QualificationFormID     *uuid.UUID `json:"qualificationFormId"`
	DetachQualificationForm bool       `json:"detachQualificationForm"`
}

// PublishRequest is the request body for publishing or unpublishing.
type PublishRequest struct {
	Publish *bool `json:"publish" validate:"required"`
}

// BulkCreateRequest creates several funnel pages at once. Items are
// validated one by one so a bad item does not reject the batch.
type BulkCreateRequest struct {
	Pages []CreateFunnelRequest `json:"pages" validate:"required,min=1,max=50"`
}

// FunnelResponse is the owner-facing funnel page shape.
type FunnelResponse struct {
	ID                  uuid.UUID  `json:"id"`
	Slug                string     `json:"slug"`
	OptinHeadline       string     `json:"optinHeadline"`
	OptinSubline        *string    `json:"optinSubline"`
	OptinButtonText     *string    `json:"optinButtonText"`
	ThankyouHeadline    *string    `json:"thankyouHeadline"`
	ThankyouSubline     *string    `json:"thankyouSubline"`
	CalendlyURL         *string    `json:"calendlyUrl"`
	RejectionMessage    *string    `json:"rejectionMessage"`
	QualificationFormID *uuid.UUID `json:"qualificationFormId"`
	Published           bool       `json:"published"`
	PublishedAt         *time.Time `json:"publishedAt"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// FunnelListResponse lists funnel pages.
type FunnelListResponse struct {
	Funnels []FunnelResponse `json:"funnels"`
}

// PublishResponse is returned by the publish endpoint. PublicURL is null
// while the page is unpublished.
type PublishResponse struct {
	Funnel    FunnelResponse `json:"funnel"`
	PublicURL *string        `json:"publicUrl"`
}

// BulkItemResult reports the outcome of one bulk item.
type BulkItemResult struct {
	Index   int             `json:"index"`
	Success bool            `json:"success"`
	Funnel  *FunnelResponse `json:"funnel,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// BulkCreateResponse reports per-item results and counts.
type BulkCreateResponse struct {
	Created int              `json:"created"`
	Failed  int              `json:"failed"`
	Results []BulkItemResult `json:"results"`
}

// StatsResponse summarizes leads and questions of a funnel page.
type StatsResponse struct {
	FunnelPageID      uuid.UUID `json:"funnelPageId"`
	TotalLeads        int       `json:"totalLeads"`
	QualifiedLeads    int       `json:"qualifiedLeads"`
	DisqualifiedLeads int       `json:"disqualifiedLeads"`
	PendingLeads      int       `json:"pendingLeads"`
	QualificationRate float64   `json:"qualificationRate"`
	QuestionCount     int       `json:"questionCount"`
}

// PublicPageResponse is the visitor-facing page content. Routing targets
// (booking link, rejection message) are only revealed by qualification.
type PublicPageResponse struct {
	ID               uuid.UUID                      `json:"id"`
	Username         string                         `json:"username"`
	Slug             string                         `json:"slug"`
	OptinHeadline    string                         `json:"optinHeadline"`
	OptinSubline     *string                        `json:"optinSubline"`
	OptinButtonText  *string                        `json:"optinButtonText"`
	ThankyouHeadline *string                        `json:"thankyouHeadline"`
	ThankyouSubline  *string                        `json:"thankyouSubline"`
	Questions        []qualtransport.PublicQuestion `json:"questions"`
}
