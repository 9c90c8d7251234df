// Package leads provides the lead capture and qualification module.
package leads

import (
	"magnetlab_backend/internal/events"
	apphttp "magnetlab_backend/internal/http"
	"magnetlab_backend/internal/leads/handler"
	"magnetlab_backend/internal/leads/repository"
	"magnetlab_backend/internal/leads/service"
	"magnetlab_backend/platform/logger"
	"magnetlab_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the leads domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new leads module with all dependencies wired
func NewModule(pool *pgxpool.Pool, val *validator.Validator, funnels service.FunnelLookup, questions service.QuestionResolver, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, funnels, questions, eventBus, log)

	return &Module{
		handler: handler.New(svc, val),
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "leads"
}

// RegisterRoutes registers the visitor-facing capture and qualification routes
// and the owner's lead list.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	visitor := []gin.HandlerFunc{}
	if ctx.VisitorRateLimiter != nil {
		visitor = append(visitor, ctx.VisitorRateLimiter.RateLimit())
	}
	ctx.API.POST("/leads/qualify", append(visitor, m.handler.Qualify)...)

	ctx.Public.POST("/funnel/:funnelPageId/optin", m.handler.Optin)
	ctx.Protected.GET("/leads", m.handler.List)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
