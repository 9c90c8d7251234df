package webhooks

import (
	"net/http"
	"time"

	leadtransport "magnetlab_backend/internal/leads/transport"
	"magnetlab_backend/platform/httpkit"
	"magnetlab_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	errInvalidRequest = "invalid request body"
	errValidation     = "validation error"
	errInvalidID      = "invalid endpoint ID"
	secretPreviewLen  = 10
)

// Handler handles webhook HTTP requests.
type Handler struct {
	service *Service
	val     *validator.Validator
}

// NewHandler creates a new webhook handler.
func NewHandler(service *Service, val *validator.Validator) *Handler {
	return &Handler{service: service, val: val}
}

// CreateEndpointRequest is the request body for registering an endpoint.
type CreateEndpointRequest struct {
	Name       string   `json:"name" validate:"required,min=1,max=100"`
	URL        string   `json:"url" validate:"required,url,startswith=https://|startswith=http://,max=2048"`
	EventTypes []string `json:"eventTypes" validate:"required,min=1,max=10,dive,required"`
}

// EndpointResponse is returned when listing endpoints. The secret is masked.
type EndpointResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	SecretPreview string    `json:"secretPreview"`
	EventTypes    []string  `json:"eventTypes"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     string    `json:"createdAt"`
}

// CreateEndpointResponse includes the signing secret (shown only once).
type CreateEndpointResponse struct {
	EndpointResponse
	Secret string `json:"secret"`
}

// DeliveryResponse describes one delivery attempt.
type DeliveryResponse struct {
	ID          uuid.UUID `json:"id"`
	EventID     uuid.UUID `json:"eventId"`
	EventType   string    `json:"eventType"`
	StatusCode  *int      `json:"statusCode"`
	Error       *string   `json:"error"`
	DeliveredAt string    `json:"deliveredAt"`
}

// ---- Owner endpoint management (JWT authenticated) ----

// HandleCreateEndpoint registers an outbound endpoint.
// POST /api/webhooks
func (h *Handler) HandleCreateEndpoint(c *gin.Context) {
	var req CreateEndpointRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	ep, err := h.service.CreateEndpoint(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, CreateEndpointResponse{
		EndpointResponse: toEndpointResponse(ep),
		Secret:           ep.Secret,
	})
}

// HandleListEndpoints lists the owner's endpoints.
// GET /api/webhooks
func (h *Handler) HandleListEndpoints(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	endpoints, err := h.service.ListEndpoints(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	result := make([]EndpointResponse, len(endpoints))
	for i, ep := range endpoints {
		result[i] = toEndpointResponse(ep)
	}

	httpkit.OK(c, result)
}

// HandleDeleteEndpoint removes an endpoint.
// DELETE /api/webhooks/:id
func (h *Handler) HandleDeleteEndpoint(c *gin.Context) {
	id, ok := h.parseEndpointID(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.service.DeleteEndpoint(c.Request.Context(), identity.UserID(), id); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

// HandleListDeliveries returns the recent delivery log of an endpoint.
// GET /api/webhooks/:id/deliveries
func (h *Handler) HandleListDeliveries(c *gin.Context) {
	id, ok := h.parseEndpointID(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	deliveries, err := h.service.ListDeliveries(c.Request.Context(), identity.UserID(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	result := make([]DeliveryResponse, len(deliveries))
	for i, d := range deliveries {
		result[i] = DeliveryResponse{
			ID:          d.ID,
			EventID:     d.EventID,
			EventType:   d.EventType,
			StatusCode:  d.StatusCode,
			Error:       d.Error,
			DeliveredAt: d.DeliveredAt.Format(time.RFC3339),
		}
	}

	httpkit.OK(c, result)
}

// ---- Inbound lead import (signature authenticated) ----

// HandleInboundLead creates a lead from a signed CRM / automation payload.
// POST /api/webhooks/inbound/leads
func (h *Handler) HandleInboundLead(c *gin.Context) {
	var req leadtransport.ImportLeadRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	lead, err := h.service.ImportLead(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, lead)
}

// ---- Helpers ----

func (h *Handler) bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, errInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, errValidation, err.Error())
		return false
	}
	return true
}

func (h *Handler) parseEndpointID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, errInvalidID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func toEndpointResponse(ep Endpoint) EndpointResponse {
	preview := ep.Secret
	if len(preview) > secretPreviewLen {
		preview = preview[:secretPreviewLen] + "..."
	}
	eventTypes := ep.EventTypes
	if eventTypes == nil {
		eventTypes = []string{}
	}
	return EndpointResponse{
		ID:            ep.ID,
		Name:          ep.Name,
		URL:           ep.URL,
		SecretPreview: preview,
		EventTypes:    eventTypes,
		IsActive:      ep.IsActive,
		CreatedAt:     ep.CreatedAt.Format(time.RFC3339),
	}
}
