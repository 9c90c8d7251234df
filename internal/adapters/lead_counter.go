package adapters

import (
	"context"

	funnelsvc "magnetlab_backend/internal/funnels/service"
	leadrepo "magnetlab_backend/internal/leads/repository"

	"github.com/google/uuid"
)

// VerdictCounter is the narrow interface of the leads service used for stats.
type VerdictCounter interface {
	CountByVerdict(ctx context.Context, funnelPageID uuid.UUID) (leadrepo.VerdictCounts, error)
}

// FunnelLeadCounter implements funnels/service.LeadCounter on top of the leads module.
type FunnelLeadCounter struct {
	leads VerdictCounter
}

func NewFunnelLeadCounter(leads VerdictCounter) *FunnelLeadCounter {
	return &FunnelLeadCounter{leads: leads}
}

func (a *FunnelLeadCounter) CountByVerdict(ctx context.Context, funnelPageID uuid.UUID) (funnelsvc.LeadCounts, error) {
	counts, err := a.leads.CountByVerdict(ctx, funnelPageID)
	if err != nil {
		return funnelsvc.LeadCounts{}, err
	}
	return funnelsvc.LeadCounts{
		Total:        counts.Total,
		Qualified:    counts.Qualified,
		Disqualified: counts.Disqualified,
		Pending:      counts.Pending,
	}, nil
}

var _ funnelsvc.LeadCounter = (*FunnelLeadCounter)(nil)
