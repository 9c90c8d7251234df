package service

import (
	"context"
	"strings"
	"time"

	"magnetlab_backend/internal/auth/password"
	"magnetlab_backend/internal/auth/repository"
	"magnetlab_backend/internal/auth/token"
	"magnetlab_backend/internal/auth/transport"
	"magnetlab_backend/platform/apperr"
	"magnetlab_backend/platform/config"
	"magnetlab_backend/platform/logger"
	"magnetlab_backend/platform/sanitize"
	"magnetlab_backend/platform/validator"

	"github.com/google/uuid"
)

const (
	msgInvalidCredentials = "invalid credentials"
	msgTokenInvalid       = "token invalid"
	msgTokenExpired       = "token expired"
	msgInvalidUsername    = "username must be 3-30 characters: lowercase letters, digits and inner hyphens"
)

// Tokens is an issued access/refresh token pair.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

type Service struct {
	repo repository.AuthRepository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
	now  func() time.Time
}

func New(repo repository.AuthRepository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log, now: time.Now}
}

// SignUp creates an account and signs it in.
func (s *Service) SignUp(ctx context.Context, req transport.SignUpRequest) (Tokens, error) {
	email := normalizeEmail(req.Email)
	hash, err := password.Hash(req.Password)
	if err != nil {
		return Tokens{}, apperr.Internal("failed to hash password", err)
	}

	user, err := s.repo.CreateUser(ctx, email, hash, sanitize.OptionalText(req.Name))
	if err != nil {
		s.log.AuthEvent("sign_up", email, false, err.Error())
		return Tokens{}, err
	}

	s.log.AuthEvent("sign_up", email, true, "")
	return s.issueTokens(ctx, user.ID)
}

func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (Tokens, error) {
	email = normalizeEmail(email)
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.log.AuthEvent("sign_in", email, false, "unknown email")
			return Tokens{}, apperr.Unauthorized(msgInvalidCredentials)
		}
		return Tokens{}, err
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("sign_in", email, false, "password mismatch")
		return Tokens{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	s.log.AuthEvent("sign_in", email, true, "")
	return s.issueTokens(ctx, user.ID)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	hash := token.HashSHA256(refreshToken)
	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return Tokens{}, apperr.Unauthorized(msgTokenInvalid)
		}
		return Tokens{}, err
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return Tokens{}, err
	}
	if s.now().After(expiresAt) {
		return Tokens{}, apperr.Unauthorized(msgTokenExpired)
	}

	return s.issueTokens(ctx, userID)
}

func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(refreshToken))
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (*transport.ProfileResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

// UpdateMe patches name and username. A username conflict surfaces as 409.
func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, req transport.UpdateProfileRequest) (*transport.ProfileResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	name := user.Name
	if req.Name != nil {
		name = sanitize.OptionalText(req.Name)
	}
	username := user.Username
	if req.Username != nil {
		normalized := strings.ToLower(strings.TrimSpace(*req.Username))
		if !validator.IsUsername(normalized) {
			return nil, apperr.Validation(msgInvalidUsername)
		}
		username = &normalized
	}

	updated, err := s.repo.UpdateProfile(ctx, userID, name, username)
	if err != nil {
		return nil, err
	}
	return toProfile(updated), nil
}

// GetUsername returns the user's public namespace, or nil when unset.
func (s *Service) GetUsername(ctx context.Context, userID uuid.UUID) (*string, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Username, nil
}

// FindUserIDByUsername resolves a public namespace to its owner.
func (s *Service) FindUserIDByUsername(ctx context.Context, username string) (uuid.UUID, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return uuid.UUID{}, err
	}
	return user.ID, nil
}

// GetContact returns the address notifications for userID are sent to.
func (s *Service) GetContact(ctx context.Context, userID uuid.UUID) (email string, name *string, err error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	return user.Email, user.Name, nil
}

func (s *Service) issueTokens(ctx context.Context, userID uuid.UUID) (Tokens, error) {
	now := s.now()
	accessToken, err := token.SignAccessToken(userID, s.cfg.GetJWTAccessSecret(), s.cfg.GetAccessTokenTTL(), now)
	if err != nil {
		return Tokens{}, apperr.Internal("failed to sign access token", err)
	}

	refreshToken, err := token.GenerateRandomToken(token.RefreshTokenBytes)
	if err != nil {
		return Tokens{}, apperr.Internal("failed to generate refresh token", err)
	}

	expiresAt := now.Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, userID, token.HashSHA256(refreshToken), expiresAt); err != nil {
		return Tokens{}, err
	}

	return Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toProfile(user repository.User) *transport.ProfileResponse {
	return &transport.ProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
