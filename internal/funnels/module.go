// Package funnels provides the funnel page domain module.
package funnels

import (
	"magnetlab_backend/internal/funnels/handler"
	"magnetlab_backend/internal/funnels/repository"
	"magnetlab_backend/internal/funnels/service"
	apphttp "magnetlab_backend/internal/http"
	"magnetlab_backend/platform/logger"
	"magnetlab_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the funnels domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new funnels module with all dependencies wired.
// Lead statistics are attached later with Service.SetLeadCounter.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, cfg service.Config, users service.UserDirectory, questions service.QuestionCatalog, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, users, questions, val, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "funnels"
}

// RegisterRoutes registers the funnel routes under /api/funnel and the public
// page read under /api/public/p.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/p/:username/:slug", m.handler.PublicPage)
	m.handler.RegisterRoutes(ctx.Protected.Group("/funnel"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
