// Package exports serves owner-facing lead exports.
package exports

import (
	apphttp "magnetlab_backend/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module mounts GET /api/leads/export.csv for signed-in owners.
type Module struct {
	handler *Handler
}

func NewModule(pool *pgxpool.Pool) *Module {
	return &Module{handler: NewHandler(NewRepository(pool))}
}

func (m *Module) Name() string { return "exports" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/leads/export.csv", m.handler.ExportLeadsCSV)
}

var _ apphttp.Module = (*Module)(nil)
