package service

import (
	"context"
	"errors"

	"magnetlab_backend/internal/funnels/transport"
	"magnetlab_backend/platform/apperr"

	"github.com/google/uuid"
)

// BulkCreate creates each page independently. A failing item is reported in
// its result and never aborts or rolls back the other items.
func (s *Service) BulkCreate(ctx context.Context, userID uuid.UUID, req transport.BulkCreateRequest) *transport.BulkCreateResponse {
	resp := &transport.BulkCreateResponse{Results: make([]transport.BulkItemResult, 0, len(req.Pages))}

	for i, item := range req.Pages {
		result := transport.BulkItemResult{Index: i}

		created, err := s.createItem(ctx, userID, item)
		if err != nil {
			result.Error = bulkErrorMessage(err)
			resp.Failed++
			if apperr.GetKind(err) == apperr.KindUnknown {
				s.log.Error("bulk funnel item failed", "index", i, "error", err)
			}
		} else {
			result.Success = true
			result.Funnel = created
			resp.Created++
		}
		resp.Results = append(resp.Results, result)
	}
	return resp
}

func (s *Service) createItem(ctx context.Context, userID uuid.UUID, item transport.CreateFunnelRequest) (*transport.FunnelResponse, error) {
	if err := s.val.Struct(item); err != nil {
		return nil, apperr.Validation(err.Error())
	}
	return s.Create(ctx, userID, item)
}

func bulkErrorMessage(err error) string {
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) && domainErr.HTTPStatus() < 500 {
		return domainErr.Message
	}
	return "failed to create funnel page"
}
