package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"magnetlab_backend/platform/apperr"
	"magnetlab_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	constraintEmail    = "users_email_key"
	constraintUsername = "users_username_key"

	msgUserNotFound  = "user not found"
	msgEmailTaken    = "an account with this email already exists"
	msgUsernameTaken = "this username is already taken"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         *string
	Username     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const userColumns = `id, email, password_hash, name, username, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Username,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// mapWriteError turns unique index violations into Conflict errors.
func mapWriteError(err error, op string) error {
	switch {
	case db.IsUniqueViolation(err, constraintEmail):
		return apperr.Conflict(msgEmailTaken)
	case db.IsUniqueViolation(err, constraintUsername):
		return apperr.Conflict(msgUsernameTaken)
	case errors.Is(err, pgx.ErrNoRows):
		return apperr.NotFound(msgUserNotFound)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func (r *Repository) CreateUser(ctx context.Context, email, passwordHash string, name *string) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		email, passwordHash, name,
	))
	if err != nil {
		return User{}, mapWriteError(err, "create user")
	}
	return user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *Repository) GetUserByID(ctx context.Context, userID uuid.UUID) (User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *Repository) getUser(ctx context.Context, query string, arg any) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile overwrites name and username. Callers pass the merged values.
func (r *Repository) UpdateProfile(ctx context.Context, userID uuid.UUID, name, username *string) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $2, username = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		userID, name, username,
	))
	if err != nil {
		return User{}, mapWriteError(err, "update profile")
	}
	return user, nil
}

func (r *Repository) CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

func (r *Repository) GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error) {
	var userID uuid.UUID
	var expiresAt time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, expires_at FROM refresh_tokens
		WHERE token_hash = $1 AND revoked_at IS NULL
	`, tokenHash).Scan(&userID, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.UUID{}, time.Time{}, apperr.NotFound("refresh token not found")
	}
	if err != nil {
		return uuid.UUID{}, time.Time{}, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return userID, expiresAt, nil
}

func (r *Repository) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE token_hash = $1 AND revoked_at IS NULL
	`, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *Repository) RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE user_id = $1 AND revoked_at IS NULL
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return nil
}
