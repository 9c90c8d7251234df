// Package library provides the lead magnet resource library module.
package library

import (
	apphttp "magnetlab_backend/internal/http"
	"magnetlab_backend/internal/library/handler"
	"magnetlab_backend/internal/library/repository"
	"magnetlab_backend/internal/library/service"
	"magnetlab_backend/platform/logger"
	"magnetlab_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the resource library module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule wires the library. store may be nil when object storage is not
// configured; only link resources are available then.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, store service.ObjectStore, bucket string, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), store, bucket, log)
	return &Module{
		handler: handler.New(svc, val),
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "library"
}

// RegisterRoutes registers owner routes under /api/resources and the public
// click tracker.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.POST("/resources/:id/click", m.handler.TrackClick)
	m.handler.RegisterRoutes(ctx.Protected.Group("/resources"))
}

var _ apphttp.Module = (*Module)(nil)
