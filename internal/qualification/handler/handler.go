package handler

import (
	"net/http"

	"magnetlab_backend/internal/qualification/service"
	"magnetlab_backend/internal/qualification/transport"
	"magnetlab_backend/platform/httpkit"
	"magnetlab_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for qualification forms and questions.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new qualification handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterFormRoutes registers the reusable form routes.
func (h *Handler) RegisterFormRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListForms)
	rg.POST("", h.CreateForm)
	rg.POST("/from-template", h.CreateFromTemplate)
	rg.GET("/:id", h.GetForm)
	rg.PATCH("/:id", h.RenameForm)
	rg.DELETE("/:id", h.DeleteForm)
	rg.POST("/:id/questions", h.AddFormQuestion)
	rg.PUT("/:id/questions/reorder", h.ReorderFormQuestions)
	rg.PATCH("/:id/questions/:questionId", h.UpdateFormQuestion)
	rg.DELETE("/:id/questions/:questionId", h.DeleteFormQuestion)
}

// RegisterFunnelQuestionRoutes registers legacy per-funnel question routes on
// a group rooted at /funnel/:id.
func (h *Handler) RegisterFunnelQuestionRoutes(rg *gin.RouterGroup) {
	rg.GET("/questions", h.ListFunnelQuestions)
	rg.POST("/questions", h.CreateFunnelQuestion)
	rg.PATCH("/questions/:questionId", h.UpdateFunnelQuestion)
	rg.DELETE("/questions/:questionId", h.DeleteFunnelQuestion)
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}

// PublicQuestions handles GET /api/public/questions/:funnelPageId
func (h *Handler) PublicQuestions(c *gin.Context) {
	funnelPageID, ok := parseUUIDParam(c, "funnelPageId")
	if !ok {
		return
	}

	result, err := h.svc.PublicQuestions(c.Request.Context(), funnelPageID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// ListTemplates handles GET /api/qualification-templates
func (h *Handler) ListTemplates(c *gin.Context) {
	httpkit.OK(c, h.svc.ListTemplates())
}

// ListForms handles GET /api/qualification-forms
func (h *Handler) ListForms(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListForms(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// CreateForm handles POST /api/qualification-forms
func (h *Handler) CreateForm(c *gin.Context) {
	var req transport.CreateFormRequest
	if !h.bindJSON(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.CreateForm(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// CreateFromTemplate handles POST /api/qualification-forms/from-template
func (h *Handler) CreateFromTemplate(c *gin.Context) {
	var req transport.FromTemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.CreateFormFromTemplate(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// GetForm handles GET /api/qualification-forms/:id
func (h *Handler) GetForm(c *gin.Context) {
	formID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetForm(c.Request.Context(), identity.UserID(), formID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// RenameForm handles PATCH /api/qualification-forms/:id
func (h *Handler) RenameForm(c *gin.Context) {
	formID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.UpdateFormRequest
	if !h.bindJSON(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.RenameForm(c.Request.Context(), identity.UserID(), formID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// DeleteForm handles DELETE /api/qualification-forms/:id
func (h *Handler) DeleteForm(c *gin.Context) {
	formID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteForm(c.Request.Context(), identity.UserID(), formID)) {
		return
	}

	c.Status(http.StatusNoContent)
}

// AddFormQuestion handles POST /api/qualification-forms/:id/questions
func (h *Handler) AddFormQuestion(c *gin.Context) {
	formID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.QuestionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.AddFormQuestion(c.Request.Context(), identity.UserID(), formID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// UpdateFormQuestion handles PATCH /api/qualification-forms/:id/questions/:questionId
func (h *Handler) UpdateFormQuestion(c *gin.Context) {
	formID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := parseUUIDParam(c, "questionId")
	if !ok {
		return
	}
	var req transport.UpdateQuestionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.UpdateFormQuestion(c.Request.Context(), identity.UserID(), formID, questionID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// DeleteFormQuestion handles DELETE /api/qualification-forms/:id/questions/:questionId
func (h *Handler) DeleteFormQuestion(c *gin.Context) {
	formID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := parseUUIDParam(c, "questionId")
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteFormQuestion(c.Request.Context(), identity.UserID(), formID, questionID)) {
		return
	}

	c.Status(http.StatusNoContent)
}

// ReorderFormQuestions handles PUT /api/qualification-forms/:id/questions/reorder
func (h *Handler) ReorderFormQuestions(c *gin.Context) {
	formID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.ReorderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ReorderFormQuestions(c.Request.Context(), identity.UserID(), formID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// ListFunnelQuestions handles GET /api/funnel/:id/questions
func (h *Handler) ListFunnelQuestions(c *gin.Context) {
	funnelID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListFunnelQuestions(c.Request.Context(), identity.UserID(), funnelID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// CreateFunnelQuestion handles POST /api/funnel/:id/questions
func (h *Handler) CreateFunnelQuestion(c *gin.Context) {
	funnelID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.QuestionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.CreateFunnelQuestion(c.Request.Context(), identity.UserID(), funnelID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// UpdateFunnelQuestion handles PATCH /api/funnel/:id/questions/:questionId
func (h *Handler) UpdateFunnelQuestion(c *gin.Context) {
	funnelID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := parseUUIDParam(c, "questionId")
	if !ok {
		return
	}
	var req transport.UpdateQuestionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.UpdateFunnelQuestion(c.Request.Context(), identity.UserID(), funnelID, questionID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// DeleteFunnelQuestion handles DELETE /api/funnel/:id/questions/:questionId
func (h *Handler) DeleteFunnelQuestion(c *gin.Context) {
	funnelID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := parseUUIDParam(c, "questionId")
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteFunnelQuestion(c.Request.Context(), identity.UserID(), funnelID, questionID)) {
		return
	}

	c.Status(http.StatusNoContent)
}
