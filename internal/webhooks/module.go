package webhooks

import (
	"time"

	apphttp "magnetlab_backend/internal/http"
	"magnetlab_backend/platform/logger"
	"magnetlab_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the webhooks bounded context module implementing http.Module.
type Module struct {
	handler       *Handler
	inboundSecret string
	Service       *Service
	Repo          *Repository
}

// NewModule creates and initializes the webhooks module with all its dependencies.
func NewModule(pool *pgxpool.Pool, importer LeadImporter, inboundSecret string, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	service := NewService(repo, importer, log)

	return &Module{
		handler:       NewHandler(service, val),
		inboundSecret: inboundSecret,
		Service:       service,
		Repo:          repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhooks"
}

// RegisterRoutes mounts webhook routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Inbound lead import (HMAC signature, no JWT)
	ctx.API.POST("/webhooks/inbound/leads", InboundSignatureMiddleware(m.inboundSecret, time.Now), m.handler.HandleInboundLead)

	owner := ctx.Protected.Group("/webhooks")
	owner.GET("", m.handler.HandleListEndpoints)
	owner.POST("", m.handler.HandleCreateEndpoint)
	owner.DELETE("/:id", m.handler.HandleDeleteEndpoint)
	owner.GET("/:id/deliveries", m.handler.HandleListDeliveries)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
