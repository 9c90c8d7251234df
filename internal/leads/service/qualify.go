package service

import (
	"context"

	"magnetlab_backend/internal/events"
	"magnetlab_backend/internal/leads/transport"
	qualdomain "magnetlab_backend/internal/qualification/domain"
	"magnetlab_backend/platform/apperr"

	"github.com/google/uuid"
)

// DefaultRejectionMessage is shown to disqualified visitors when the owner
// did not configure a rejection message.
const DefaultRejectionMessage = "Thanks for your interest. This offer isn't the right fit for you at the moment."

// Qualify evaluates a visitor's answers against the funnel's question set,
// stores the verdict together with the raw answers and returns the routing
// payload. The funnel must be published and the lead must belong to it.
func (s *Service) Qualify(ctx context.Context, req transport.QualifyRequest) (*transport.QualifyResponse, error) {
	funnel, err := s.funnels.GetFunnelTarget(ctx, req.FunnelPageID)
	if err != nil {
		return nil, err
	}
	if !funnel.Published {
		return nil, apperr.Forbidden(msgNotPublished)
	}

	lead, err := s.repo.GetByID(ctx, req.LeadID)
	if err != nil {
		return nil, err
	}
	if lead.FunnelPageID != funnel.ID {
		return nil, apperr.NotFound(msgLeadNotFound)
	}

	questions, err := s.questions.ResolveQuestions(ctx, funnel.ID, funnel.QualificationFormID)
	if err != nil {
		return nil, apperr.Internal("failed to load qualification questions", err)
	}

	qualified := qualdomain.Evaluate(questions, canonicalAnswerKeys(req.Answers))

	if _, err := s.repo.SaveQualification(ctx, lead.ID, qualified, req.Answers); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}
		s.log.DatabaseError("save lead qualification", err)
		return nil, apperr.Internal("failed to save qualification", err)
	}

	s.log.LeadQualified(lead.ID.String(), funnel.ID.String(), qualified, len(questions))
	s.eventBus.Publish(ctx, events.LeadQualified{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		FunnelPageID: funnel.ID,
		OwnerID:      funnel.OwnerID,
		Email:        lead.Email,
		Qualified:    qualified,
		Answers:      req.Answers,
	})

	return routeFor(funnel, qualified), nil
}

// canonicalAnswerKeys rewrites question id keys to the lower-case form
// question ids are compared in. Keys that are not UUIDs are kept as sent.
// When the same id arrives in two spellings the canonical one wins.
func canonicalAnswerKeys(answers map[string]bool) map[string]bool {
	out := make(map[string]bool, len(answers))
	for key, answer := range answers {
		id, err := uuid.Parse(key)
		if err != nil {
			out[key] = answer
			continue
		}
		canonical := id.String()
		if _, sent := answers[canonical]; sent && key != canonical {
			continue
		}
		out[canonical] = answer
	}
	return out
}

func routeFor(funnel FunnelTarget, qualified bool) *transport.QualifyResponse {
	if qualified {
		return &transport.QualifyResponse{Qualified: true, CalendlyURL: funnel.CalendlyURL}
	}

	message := DefaultRejectionMessage
	if funnel.RejectionMessage != nil && *funnel.RejectionMessage != "" {
		message = *funnel.RejectionMessage
	}
	return &transport.QualifyResponse{Qualified: false, RejectionMessage: &message}
}
