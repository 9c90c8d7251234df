// Package search provides owner-scoped search across funnels, leads and
// library resources.
package search

import (
	apphttp "magnetlab_backend/internal/http"
	"magnetlab_backend/internal/search/handler"
	"magnetlab_backend/internal/search/repository"
	"magnetlab_backend/internal/search/service"
	"magnetlab_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module exposes GET /api/search to signed-in owners.
type Module struct {
	Service *service.Service
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	svc := service.New(repository.New(pool))
	return &Module{Service: svc, handler: handler.New(svc, val)}
}

func (m *Module) Name() string { return "search" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/search", m.handler.GlobalSearch)
}

var _ apphttp.Module = (*Module)(nil)
