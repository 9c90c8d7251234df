// Package adapter provides implementations of external interfaces that other domains need.
// This follows the Anti-Corruption Layer pattern - auth domain provides adapters
// that satisfy consumer-driven interfaces defined by other domains.
package adapter

import (
	"context"

	"magnetlab_backend/internal/auth/service"
	funnelsvc "magnetlab_backend/internal/funnels/service"

	"github.com/google/uuid"
)

// UserDirectoryAdapter exposes account lookups to the funnels and
// notification domains without leaking auth internals.
type UserDirectoryAdapter struct {
	svc *service.Service
}

// NewUserDirectoryAdapter creates a new adapter backed by the auth service.
func NewUserDirectoryAdapter(svc *service.Service) *UserDirectoryAdapter {
	return &UserDirectoryAdapter{svc: svc}
}

// GetUsername implements funnels/service.UserDirectory.
func (a *UserDirectoryAdapter) GetUsername(ctx context.Context, userID uuid.UUID) (*string, error) {
	return a.svc.GetUsername(ctx, userID)
}

// FindUserIDByUsername implements funnels/service.UserDirectory.
func (a *UserDirectoryAdapter) FindUserIDByUsername(ctx context.Context, username string) (uuid.UUID, error) {
	return a.svc.FindUserIDByUsername(ctx, username)
}

// GetOwnerContact returns the email address and display name of a funnel owner.
func (a *UserDirectoryAdapter) GetOwnerContact(ctx context.Context, userID uuid.UUID) (string, *string, error) {
	return a.svc.GetContact(ctx, userID)
}

// Ensure UserDirectoryAdapter implements funnels/service.UserDirectory
var _ funnelsvc.UserDirectory = (*UserDirectoryAdapter)(nil)
