package service

import (
	"context"
	"strings"

	"magnetlab_backend/internal/funnels/transport"
	qualtransport "magnetlab_backend/internal/qualification/transport"
	"magnetlab_backend/platform/apperr"
)

const msgPublicPageNotFound = "funnel page not found"

// PublicPage returns a published funnel page addressed by username and slug
// together with its resolved questions.
func (s *Service) PublicPage(ctx context.Context, username, slug string) (*transport.PublicPageResponse, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	ownerID, err := s.users.FindUserIDByUsername(ctx, username)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.NotFound(msgPublicPageNotFound)
	}
	if err != nil {
		return nil, err
	}

	page, err := s.repo.GetPublishedBySlug(ctx, ownerID, slug)
	if err != nil {
		return nil, err
	}

	questions, err := s.questions.ResolveQuestions(ctx, page.ID, page.QualificationFormID)
	if err != nil {
		return nil, err
	}

	return &transport.PublicPageResponse{
		ID:               page.ID,
		Username:         username,
		Slug:             page.Slug,
		OptinHeadline:    page.OptinHeadline,
		OptinSubline:     page.OptinSubline,
		OptinButtonText:  page.OptinButtonText,
		ThankyouHeadline: page.ThankyouHeadline,
		ThankyouSubline:  page.ThankyouSubline,
		Questions:        qualtransport.ToPublicQuestions(questions),
	}, nil
}
