// Package qualification provides the qualification domain module: question
// resolution for visitors and authoring of forms and questions for owners.
package qualification

import (
	apphttp "magnetlab_backend/internal/http"
	"magnetlab_backend/internal/qualification/handler"
	"magnetlab_backend/internal/qualification/repository"
	"magnetlab_backend/internal/qualification/service"
	"magnetlab_backend/platform/logger"
	"magnetlab_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the qualification domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new qualification module with all dependencies wired.
// The funnel lookup is attached later with Service.SetFunnelLookup.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) (*Module, error) {
	templates, err := service.LoadTemplateCatalog()
	if err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	svc := service.New(repo, templates, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}, nil
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "qualification"
}

// RegisterRoutes registers the public question route and the authoring routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/questions/:funnelPageId", m.handler.PublicQuestions)

	ctx.Protected.GET("/qualification-templates", m.handler.ListTemplates)
	m.handler.RegisterFormRoutes(ctx.Protected.Group("/qualification-forms"))
	m.handler.RegisterFunnelQuestionRoutes(ctx.Protected.Group("/funnel/:id"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
