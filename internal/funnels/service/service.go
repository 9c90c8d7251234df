// Package service implements funnel page authoring, the publish gate and the
// public page read.
package service

import (
	"context"
	"strings"

	"magnetlab_backend/internal/funnels/repository"
	"magnetlab_backend/internal/funnels/transport"
	qualdomain "magnetlab_backend/internal/qualification/domain"
	"magnetlab_backend/platform/apperr"
	"magnetlab_backend/platform/logger"
	"magnetlab_backend/platform/sanitize"
	"magnetlab_backend/platform/validator"

	"github.com/google/uuid"
)

const msgFormNotFound = "qualification form not found"

// UserDirectory resolves the public profile of funnel owners.
type UserDirectory interface {
	// GetUsername returns the owner's username, or nil when none is set.
	GetUsername(ctx context.Context, userID uuid.UUID) (*string, error)
	// FindUserIDByUsername returns an apperr NotFound error for unknown names.
	FindUserIDByUsername(ctx context.Context, username string) (uuid.UUID, error)
}

// QuestionCatalog exposes the qualification questions of a funnel page.
type QuestionCatalog interface {
	ResolveQuestions(ctx context.Context, funnelPageID uuid.UUID, formID *uuid.UUID) ([]qualdomain.Question, error)
	FormOwned(ctx context.Context, formID, userID uuid.UUID) (bool, error)
}

// LeadCounts are lead totals of a funnel page split by verdict.
type LeadCounts struct {
	Total        int
	Qualified    int
	Disqualified int
	Pending      int
}

// LeadCounter counts leads of a funnel page.
type LeadCounter interface {
	CountByVerdict(ctx context.Context, funnelPageID uuid.UUID) (LeadCounts, error)
}

// Config provides the settings the funnel service needs.
type Config interface {
	GetPublicBaseURL() string
}

// Service provides business logic for funnel pages
type Service struct {
	repo      repository.FunnelRepository
	users     UserDirectory
	questions QuestionCatalog
	leads     LeadCounter
	val       *validator.Validator
	cfg       Config
	log       *logger.Logger
}

// New creates a new funnel service
func New(repo repository.FunnelRepository, users UserDirectory, questions QuestionCatalog, val *validator.Validator, cfg Config, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		questions: questions,
		val:       val,
		cfg:       cfg,
		log:       log,
	}
}

// SetLeadCounter wires lead statistics once the leads module exists.
func (s *Service) SetLeadCounter(leads LeadCounter) {
	s.leads = leads
}

// GetByID returns a funnel page regardless of owner; used by other modules
// that serve anonymous visitors.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.FunnelPage, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the caller's funnel pages.
func (s *Service) List(ctx context.Context, userID uuid.UUID) (*transport.FunnelListResponse, error) {
	pages, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.FunnelResponse, 0, len(pages))
	for _, page := range pages {
		out = append(out, ToFunnelResponse(page))
	}
	return &transport.FunnelListResponse{Funnels: out}, nil
}

// Get returns one owned funnel page.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*transport.FunnelResponse, error) {
	page, err := s.repo.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	resp := ToFunnelResponse(page)
	return &resp, nil
}

// Create creates a draft funnel page.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.CreateFunnelRequest) (*transport.FunnelResponse, error) {
	page, err := s.buildPage(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, page)
	if err != nil {
		return nil, err
	}
	resp := ToFunnelResponse(created)
	return &resp, nil
}

// Update patches an owned funnel page.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req transport.UpdateFunnelRequest) (*transport.FunnelResponse, error) {
	page, err := s.repo.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Slug != nil {
		page.Slug = *req.Slug
	}
	if req.OptinHeadline != nil {
		page.OptinHeadline = sanitize.Text(*req.OptinHeadline)
	}
	if req.OptinSubline != nil {
		page.OptinSubline = sanitize.OptionalText(req.OptinSubline)
	}
	if req.OptinButtonText != nil {
		page.OptinButtonText = sanitize.OptionalText(req.OptinButtonText)
	}
	if req.ThankyouHeadline != nil {
		page.ThankyouHeadline = sanitize.OptionalText(req.ThankyouHeadline)
	}
	if req.ThankyouSubline != nil {
		page.ThankyouSubline = sanitize.OptionalText(req.ThankyouSubline)
	}
	if req.CalendlyURL != nil {
		page.CalendlyURL = optionalURL(req.CalendlyURL)
	}
	if req.RejectionMessage != nil {
		page.RejectionMessage = sanitize.OptionalText(req.RejectionMessage)
	}
	if req.DetachQualificationForm {
		page.QualificationFormID = nil
	} else if req.QualificationFormID != nil {
		if err := s.ensureFormOwned(ctx, *req.QualificationFormID, userID); err != nil {
			return nil, err
		}
		page.QualificationFormID = req.QualificationFormID
	}

	if page.Published && strings.TrimSpace(page.OptinHeadline) == "" {
		return nil, apperr.Validation(msgHeadlineRequired)
	}

	updated, err := s.repo.Update(ctx, page)
	if err != nil {
		return nil, err
	}
	resp := ToFunnelResponse(updated)
	return &resp, nil
}

// Delete deletes an owned funnel page.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, id, userID)
}

func (s *Service) buildPage(ctx context.Context, userID uuid.UUID, req transport.CreateFunnelRequest) (repository.FunnelPage, error) {
	headline := sanitize.Text(req.OptinHeadline)
	slug := ""
	if req.Slug != nil {
		slug = *req.Slug
	}
	if slug == "" {
		slug = Slugify(headline)
	}

	page := repository.FunnelPage{
		UserID:           userID,
		Slug:             slug,
		OptinHeadline:    headline,
		OptinSubline:     sanitize.OptionalText(req.OptinSubline),
		OptinButtonText:  sanitize.OptionalText(req.OptinButtonText),
		ThankyouHeadline: sanitize.OptionalText(req.ThankyouHeadline),
		ThankyouSubline:  sanitize.OptionalText(req.ThankyouSubline),
		CalendlyURL:      optionalURL(req.CalendlyURL),
		RejectionMessage: sanitize.OptionalText(req.RejectionMessage),
	}

	if req.QualificationFormID != nil {
		if err := s.ensureFormOwned(ctx, *req.QualificationFormID, userID); err != nil {
			return repository.FunnelPage{}, err
		}
		page.QualificationFormID = req.QualificationFormID
	}
	return page, nil
}

func (s *Service) ensureFormOwned(ctx context.Context, formID, userID uuid.UUID) error {
	owned, err := s.questions.FormOwned(ctx, formID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return apperr.Validation(msgFormNotFound)
	}
	return nil
}

func optionalURL(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ToFunnelResponse maps a funnel page to its owner-facing shape.
func ToFunnelResponse(p repository.FunnelPage) transport.FunnelResponse {
	return transport.FunnelResponse{
		ID:                  p.ID,
		Slug:                p.Slug,
		OptinHeadline:       p.OptinHeadline,
		OptinSubline:        p.OptinSubline,
		OptinButtonText:     p.OptinButtonText,
		ThankyouHeadline:    p.ThankyouHeadline,
		ThankyouSubline:     p.ThankyouSubline,
		CalendlyURL:         p.CalendlyURL,
		RejectionMessage:    p.RejectionMessage,
		QualificationFormID: p.QualificationFormID,
		Published:           p.Published,
		PublishedAt:         p.PublishedAt,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
