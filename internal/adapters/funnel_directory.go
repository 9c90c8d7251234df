// Package adapters holds the anti-corruption layer between bounded contexts.
// Each adapter implements a consumer-owned port on top of another module's
// service so modules never import each other's internals.
package adapters

import (
	"context"

	funnelrepo "magnetlab_backend/internal/funnels/repository"
	leadsvc "magnetlab_backend/internal/leads/service"
	qualsvc "magnetlab_backend/internal/qualification/service"

	"github.com/google/uuid"
)

// FunnelPageReader is the narrow interface for loading a funnel page by ID
// regardless of owner.
type FunnelPageReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (funnelrepo.FunnelPage, error)
}

// FunnelDirectory exposes funnel pages to the qualification, leads and
// notification modules.
type FunnelDirectory struct {
	funnels FunnelPageReader
}

// NewFunnelDirectory creates a new funnel directory adapter.
func NewFunnelDirectory(funnels FunnelPageReader) *FunnelDirectory {
	return &FunnelDirectory{funnels: funnels}
}

// GetFunnelRef implements qualification/service.FunnelLookup.
func (a *FunnelDirectory) GetFunnelRef(ctx context.Context, funnelPageID uuid.UUID) (qualsvc.FunnelRef, error) {
	page, err := a.funnels.GetByID(ctx, funnelPageID)
	if err != nil {
		return qualsvc.FunnelRef{}, err
	}
	return qualsvc.FunnelRef{
		ID:                  page.ID,
		OwnerID:             page.UserID,
		Published:           page.Published,
		QualificationFormID: page.QualificationFormID,
	}, nil
}

// GetFunnelTarget implements leads/service.FunnelLookup.
func (a *FunnelDirectory) GetFunnelTarget(ctx context.Context, funnelPageID uuid.UUID) (leadsvc.FunnelTarget, error) {
	page, err := a.funnels.GetByID(ctx, funnelPageID)
	if err != nil {
		return leadsvc.FunnelTarget{}, err
	}
	return leadsvc.FunnelTarget{
		ID:                  page.ID,
		OwnerID:             page.UserID,
		Published:           page.Published,
		CalendlyURL:         page.CalendlyURL,
		RejectionMessage:    page.RejectionMessage,
		QualificationFormID: page.QualificationFormID,
	}, nil
}

// GetFunnelTitle implements notification.FunnelTitleReader.
func (a *FunnelDirectory) GetFunnelTitle(ctx context.Context, funnelPageID uuid.UUID) (string, error) {
	page, err := a.funnels.GetByID(ctx, funnelPageID)
	if err != nil {
		return "", err
	}
	return page.OptinHeadline, nil
}

var (
	_ qualsvc.FunnelLookup = (*FunnelDirectory)(nil)
	_ leadsvc.FunnelLookup = (*FunnelDirectory)(nil)
)
