package service

import (
	"context"

	"magnetlab_backend/internal/funnels/transport"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Stats loads lead counts and the resolved question count concurrently.
func (s *Service) Stats(ctx context.Context, userID, id uuid.UUID) (*transport.StatsResponse, error) {
	page, err := s.repo.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	var (
		counts        LeadCounts
		questionCount int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if s.leads == nil {
			return nil
		}
		c, err := s.leads.CountByVerdict(gctx, page.ID)
		if err != nil {
			return err
		}
		counts = c
		return nil
	})
	g.Go(func() error {
		questions, err := s.questions.ResolveQuestions(gctx, page.ID, page.QualificationFormID)
		if err != nil {
			return err
		}
		questionCount = len(questions)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &transport.StatsResponse{
		FunnelPageID:      page.ID,
		TotalLeads:        counts.Total,
		QualifiedLeads:    counts.Qualified,
		DisqualifiedLeads: counts.Disqualified,
		PendingLeads:      counts.Pending,
		QuestionCount:     questionCount,
	}
	if evaluated := counts.Qualified + counts.Disqualified; evaluated > 0 {
		resp.QualificationRate = float64(counts.Qualified) / float64(evaluated)
	}
	return resp, nil
}
