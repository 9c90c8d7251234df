package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserReader loads accounts.
type UserReader interface {
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
}

// UserWriter creates and updates accounts.
type UserWriter interface {
	CreateUser(ctx context.Context, email, passwordHash string, name *string) (User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, name, username *string) (User, error)
}

// RefreshTokenStore persists hashed refresh tokens.
type RefreshTokenStore interface {
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

// AuthRepository defines the interface for authentication data operations.
type AuthRepository interface {
	UserReader
	UserWriter
	RefreshTokenStore
}

// Ensure Repository implements AuthRepository
var _ AuthRepository = (*Repository)(nil)
