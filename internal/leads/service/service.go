package service

import (
	"context"
	"strings"

	"magnetlab_backend/internal/events"
	"magnetlab_backend/internal/leads/repository"
	"magnetlab_backend/internal/leads/transport"
	qualdomain "magnetlab_backend/internal/qualification/domain"
	"magnetlab_backend/platform/apperr"
	"magnetlab_backend/platform/logger"
	"magnetlab_backend/platform/phone"
	"magnetlab_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgLeadNotFound = "lead not found"
	msgNotPublished = "funnel page is not published"
	defaultPageSize = 25
)

// FunnelTarget is the slice of a funnel page that lead capture and
// qualification route on.
type FunnelTarget struct {
	ID                  uuid.UUID
	OwnerID             uuid.UUID
	Published           bool
	CalendlyURL         *string
	RejectionMessage    *string
	QualificationFormID *uuid.UUID
}

// FunnelLookup loads funnel pages regardless of owner. Unknown ids return an
// apperr NotFound error.
type FunnelLookup interface {
	GetFunnelTarget(ctx context.Context, funnelPageID uuid.UUID) (FunnelTarget, error)
}

// QuestionResolver returns the question set that applies to a funnel page.
type QuestionResolver interface {
	ResolveQuestions(ctx context.Context, funnelPageID uuid.UUID, formID *uuid.UUID) ([]qualdomain.Question, error)
}

// Service implements lead capture, qualification and listing.
type Service struct {
	repo      repository.LeadRepository
	funnels   FunnelLookup
	questions QuestionResolver
	eventBus  events.Bus
	log       *logger.Logger
}

// New creates a new leads service.
func New(repo repository.LeadRepository, funnels FunnelLookup, questions QuestionResolver, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		funnels:   funnels,
		questions: questions,
		eventBus:  eventBus,
		log:       log,
	}
}

// Capture records a visitor opt-in on a published funnel page.
func (s *Service) Capture(ctx context.Context, funnelPageID uuid.UUID, req transport.OptinRequest) (*transport.OptinResponse, error) {
	funnel, err := s.funnels.GetFunnelTarget(ctx, funnelPageID)
	if err != nil {
		return nil, err
	}
	if !funnel.Published {
		return nil, apperr.Forbidden(msgNotPublished)
	}

	lead, err := s.create(ctx, funnel, req, repository.SourceOptin)
	if err != nil {
		return nil, err
	}
	return &transport.OptinResponse{LeadID: lead.ID, FunnelPageID: lead.FunnelPageID}, nil
}

// Import records a lead delivered by an inbound integration. The funnel page
// does not need to be published.
func (s *Service) Import(ctx context.Context, req transport.ImportLeadRequest) (*transport.LeadResponse, error) {
	funnel, err := s.funnels.GetFunnelTarget(ctx, req.FunnelPageID)
	if err != nil {
		return nil, err
	}

	lead, err := s.create(ctx, funnel, req.OptinRequest, repository.SourceWebhook)
	if err != nil {
		return nil, err
	}
	resp := ToLeadResponse(lead)
	return &resp, nil
}

func (s *Service) create(ctx context.Context, funnel FunnelTarget, req transport.OptinRequest, source string) (repository.Lead, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return repository.Lead{}, apperr.Validation("email is required")
	}

	lead, err := s.repo.Create(ctx, repository.CreateParams{
		FunnelPageID: funnel.ID,
		UserID:       funnel.OwnerID,
		Email:        email,
		Name:         sanitize.OptionalText(req.Name),
		Phone:        normalizePhone(req.Phone),
		UTMSource:    sanitize.OptionalText(req.UTMSource),
		UTMMedium:    sanitize.OptionalText(req.UTMMedium),
		UTMCampaign:  sanitize.OptionalText(req.UTMCampaign),
		Source:       source,
	})
	if err != nil {
		return repository.Lead{}, err
	}

	s.eventBus.Publish(ctx, events.LeadCaptured{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		FunnelPageID: lead.FunnelPageID,
		OwnerID:      lead.UserID,
		Email:        lead.Email,
		Name:         lead.Name,
		Source:       lead.Source,
	})
	return lead, nil
}

// List returns the caller's leads, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, req transport.ListLeadsRequest) (*transport.LeadListResponse, error) {
	page := max(req.Page, 1)
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	params := repository.ListParams{
		UserID: userID,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	}
	if req.FunnelPageID != "" {
		id, err := uuid.Parse(req.FunnelPageID)
		if err != nil {
			return nil, apperr.BadRequest("invalid funnelPageId")
		}
		params.FunnelPageID = &id
	}
	if req.Qualified != "" {
		verdict, err := qualdomain.ParseVerdict(req.Qualified)
		if err != nil {
			return nil, apperr.BadRequest(err.Error())
		}
		params.Pending = verdict == qualdomain.NotEvaluated
		params.Qualified = verdict.Nullable()
	}

	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, ToLeadResponse(lead))
	}

	return &transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// CountByVerdict returns lead totals of a funnel page split by verdict.
func (s *Service) CountByVerdict(ctx context.Context, funnelPageID uuid.UUID) (repository.VerdictCounts, error) {
	return s.repo.CountByVerdict(ctx, funnelPageID)
}

func normalizePhone(raw *string) *string {
	if raw == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*raw)
	if normalized == "" {
		return nil
	}
	return &normalized
}

// ToLeadResponse maps a repository lead to its API shape.
func ToLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:           lead.ID,
		FunnelPageID: lead.FunnelPageID,
		Email:        lead.Email,
		Name:         lead.Name,
		Phone:        lead.Phone,
		UTMSource:    lead.UTMSource,
		UTMMedium:    lead.UTMMedium,
		UTMCampaign:  lead.UTMCampaign,
		Source:       lead.Source,
		Qualified:    lead.Qualified,
		Verdict:      qualdomain.VerdictFromNullable(lead.Qualified).String(),
		Answers:      lead.Answers,
		QualifiedAt:  lead.QualifiedAt,
		CreatedAt:    lead.CreatedAt,
	}
}
