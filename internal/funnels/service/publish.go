package service

import (
	"context"
	"strings"

	"magnetlab_backend/internal/funnels/repository"
	"magnetlab_backend/internal/funnels/transport"
	"magnetlab_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	msgUsernameRequired = "You need to set a username before publishing. Go to Settings to choose your public username."
	msgHeadlineRequired = "An opt-in headline is required before publishing"
)

// Publish flips a funnel page between draft and published.
//
// Publishing requires the owner to have a username (the public URL namespace)
// and the page to have a non-empty opt-in headline. publishedAt is stamped on
// the first publish and never overwritten. Unpublishing has no precondition
// beyond ownership.
func (s *Service) Publish(ctx context.Context, userID, id uuid.UUID, publish bool) (*transport.PublishResponse, error) {
	page, err := s.repo.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	var username string
	if publish {
		name, err := s.users.GetUsername(ctx, userID)
		if err != nil {
			return nil, err
		}
		if name == nil || strings.TrimSpace(*name) == "" {
			return nil, apperr.Validation(msgUsernameRequired)
		}
		if strings.TrimSpace(page.OptinHeadline) == "" {
			return nil, apperr.Validation(msgHeadlineRequired)
		}
		username = *name
	}

	updated, err := s.repo.SetPublished(ctx, page.ID, userID, publish)
	if err != nil {
		return nil, err
	}
	s.log.FunnelPublished(updated.ID.String(), userID.String(), updated.Published)

	resp := &transport.PublishResponse{Funnel: ToFunnelResponse(updated)}
	if updated.Published {
		url := s.PublicURL(username, updated.Slug)
		resp.PublicURL = &url
	}
	return resp, nil
}

// PublicURL composes the visitor-facing URL of a page.
func (s *Service) PublicURL(username, slug string) string {
	return strings.TrimRight(s.cfg.GetPublicBaseURL(), "/") + "/p/" + username + "/" + slug
}

func (s *Service) publishedURL(ctx context.Context, page repository.FunnelPage) (string, error) {
	if !page.Published {
		return "", apperr.Validation("funnel page is not published")
	}
	name, err := s.users.GetUsername(ctx, page.UserID)
	if err != nil {
		return "", err
	}
	if name == nil || *name == "" {
		return "", apperr.Validation(msgUsernameRequired)
	}
	return s.PublicURL(*name, page.Slug), nil
}
