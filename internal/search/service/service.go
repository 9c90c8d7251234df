package service

import (
	"context"
	"slices"
	"strings"

	"magnetlab_backend/internal/search/repository"
	"magnetlab_backend/internal/search/transport"
	"magnetlab_backend/platform/apperr"

	"github.com/google/uuid"
)

const defaultLimit = 10

var searchableTypes = []string{repository.TypeFunnel, repository.TypeLead, repository.TypeResource}

type Service struct {
	repo repository.Searcher
}

func New(repo repository.Searcher) *Service {
	return &Service{repo: repo}
}

func (s *Service) GlobalSearch(ctx context.Context, ownerID uuid.UUID, req transport.SearchRequest) (*transport.SearchResponse, error) {
	text := strings.TrimSpace(req.Query)
	if text == "" {
		return &transport.SearchResponse{Items: []transport.SearchHit{}}, nil
	}

	types, err := parseTypes(req.Types)
	if err != nil {
		return nil, err
	}

	q := repository.Query{OwnerID: ownerID, Text: text, Types: types, Limit: req.Limit}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}

	results, err := s.repo.GlobalSearch(ctx, q)
	if err != nil {
		return nil, apperr.Internal("search failed", err).WithOp("search.GlobalSearch")
	}

	resp := &transport.SearchResponse{Items: make([]transport.SearchHit, 0, len(results))}
	for _, r := range results {
		resp.Total = int(r.Total)
		resp.Items = append(resp.Items, toHit(r))
	}
	return resp, nil
}

// parseTypes splits a comma separated type filter, dropping duplicates.
func parseTypes(raw string) ([]string, error) {
	var types []string
	for part := range strings.SplitSeq(raw, ",") {
		t := strings.ToLower(strings.TrimSpace(part))
		if t == "" {
			continue
		}
		if !slices.Contains(searchableTypes, t) {
			return nil, apperr.Validation("unknown search type: " + t)
		}
		if !slices.Contains(types, t) {
			types = append(types, t)
		}
	}
	return types, nil
}

func toHit(r repository.SearchResult) transport.SearchHit {
	id := r.ID.String()
	return transport.SearchHit{
		ID:           id,
		Type:         r.Type,
		Title:        r.Title,
		Subtitle:     r.Subtitle,
		Status:       r.Status,
		Link:         dashboardLink(r.Type, id),
		Score:        float64(r.Score),
		MatchedField: r.MatchedField,
		CreatedAt:    r.CreatedAt,
	}
}

func dashboardLink(kind, id string) string {
	switch kind {
	case repository.TypeFunnel:
		return "/app/funnels/" + id
	case repository.TypeLead:
		return "/app/leads?lead=" + id
	case repository.TypeResource:
		return "/app/library"
	}
	return "/app"
}
