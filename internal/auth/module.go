// Package auth provides the authentication bounded context module.
// This file defines the module that encapsulates all auth setup and route registration.
package auth

import (
	"magnetlab_backend/internal/auth/adapter"
	"magnetlab_backend/internal/auth/handler"
	"magnetlab_backend/internal/auth/repository"
	"magnetlab_backend/internal/auth/service"
	authvalidator "magnetlab_backend/internal/auth/validator"
	apphttp "magnetlab_backend/internal/http"
	"magnetlab_backend/platform/config"
	"magnetlab_backend/platform/logger"
	"magnetlab_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is the configuration the auth module reads.
type Config interface {
	config.AuthServiceConfig
	config.CookieConfig
}

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	Service *service.Service
	// Users answers account lookups for other domains.
	Users *adapter.UserDirectoryAdapter
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, cfg Config, log *logger.Logger) (*Module, error) {
	if err := authvalidator.Register(val); err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)

	return &Module{
		handler: handler.New(svc, cfg, val),
		Service: svc,
		Users:   adapter.NewUserDirectoryAdapter(svc),
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.API.Group("/auth")
	if ctx.AuthRateLimiter != nil {
		authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	}
	m.handler.RegisterRoutes(authGroup)

	// Protected user routes
	ctx.Protected.GET("/users/me", m.handler.GetMe)
	ctx.Protected.PATCH("/users/me", m.handler.UpdateMe)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
