// Package service implements qualification question resolution and the
// owner-facing authoring of forms and questions.
package service

import (
	"context"
	"fmt"

	"magnetlab_backend/internal/qualification/domain"
	"magnetlab_backend/internal/qualification/repository"
	"magnetlab_backend/internal/qualification/transport"
	"magnetlab_backend/platform/apperr"
	"magnetlab_backend/platform/logger"
	"magnetlab_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	funnelNotFoundMsg        = "funnel page not found"
	errMultipleChoiceOptions = "multiple_choice questions need at least two options"
	errQuestionTextRequired  = "questionText is required"
	minMultipleChoiceOptions = 2
)

// FunnelRef is the slice of a funnel page the qualification context needs.
type FunnelRef struct {
	ID                  uuid.UUID
	OwnerID             uuid.UUID
	Published           bool
	QualificationFormID *uuid.UUID
}

// FunnelLookup loads funnel pages regardless of owner. Implementations return
// an apperr NotFound error when the page does not exist.
type FunnelLookup interface {
	GetFunnelRef(ctx context.Context, funnelPageID uuid.UUID) (FunnelRef, error)
}

// Service provides business logic for qualification questions and forms.
type Service struct {
	repo      repository.QualificationRepository
	funnels   FunnelLookup
	templates *TemplateCatalog
	log       *logger.Logger
}

// New creates a new qualification service.
func New(repo repository.QualificationRepository, templates *TemplateCatalog, log *logger.Logger) *Service {
	return &Service{repo: repo, templates: templates, log: log}
}

// SetFunnelLookup wires the funnel directory once the funnels module exists.
func (s *Service) SetFunnelLookup(funnels FunnelLookup) {
	s.funnels = funnels
}

// ResolveQuestions returns the question set that applies to a funnel page.
// A non-nil formID always wins: the form's questions are returned and legacy
// per-funnel questions are ignored even when present. An empty result is not
// an error.
func (s *Service) ResolveQuestions(ctx context.Context, funnelPageID uuid.UUID, formID *uuid.UUID) ([]domain.Question, error) {
	if formID != nil {
		questions, err := s.repo.ListByForm(ctx, *formID)
		if err != nil {
			return nil, fmt.Errorf("resolve form questions: %w", err)
		}
		return questions, nil
	}

	questions, err := s.repo.ListByFunnel(ctx, funnelPageID)
	if err != nil {
		return nil, fmt.Errorf("resolve funnel questions: %w", err)
	}
	return questions, nil
}

// PublicQuestions resolves the questions shown to visitors of a published
// funnel page. Missing and unpublished pages are both reported as not found.
func (s *Service) PublicQuestions(ctx context.Context, funnelPageID uuid.UUID) (*transport.PublicQuestionsResponse, error) {
	ref, err := s.funnels.GetFunnelRef(ctx, funnelPageID)
	if err != nil {
		return nil, err
	}
	if !ref.Published {
		return nil, apperr.NotFound(funnelNotFoundMsg)
	}

	questions, err := s.ResolveQuestions(ctx, ref.ID, ref.QualificationFormID)
	if err != nil {
		return nil, err
	}
	return &transport.PublicQuestionsResponse{Questions: transport.ToPublicQuestions(questions)}, nil
}

// CountQuestions returns the size of the resolved question set.
func (s *Service) CountQuestions(ctx context.Context, funnelPageID uuid.UUID, formID *uuid.UUID) (int, error) {
	questions, err := s.ResolveQuestions(ctx, funnelPageID, formID)
	if err != nil {
		return 0, err
	}
	return len(questions), nil
}

// FormOwned reports whether formID exists and belongs to userID.
func (s *Service) FormOwned(ctx context.Context, formID, userID uuid.UUID) (bool, error) {
	_, err := s.repo.GetForm(ctx, formID, userID)
	if apperr.Is(err, apperr.KindNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// =============================================================================
// Legacy per-funnel questions
// =============================================================================

func (s *Service) ownedFunnel(ctx context.Context, userID, funnelPageID uuid.UUID) (FunnelRef, error) {
	ref, err := s.funnels.GetFunnelRef(ctx, funnelPageID)
	if err != nil {
		return FunnelRef{}, err
	}
	if ref.OwnerID != userID {
		return FunnelRef{}, apperr.NotFound(funnelNotFoundMsg)
	}
	return ref, nil
}

// ListFunnelQuestions returns the legacy questions of an owned funnel page.
func (s *Service) ListFunnelQuestions(ctx context.Context, userID, funnelPageID uuid.UUID) (*transport.QuestionListResponse, error) {
	if _, err := s.ownedFunnel(ctx, userID, funnelPageID); err != nil {
		return nil, err
	}
	questions, err := s.repo.ListByFunnel(ctx, funnelPageID)
	if err != nil {
		return nil, err
	}
	return &transport.QuestionListResponse{Questions: transport.ToQuestionResponses(questions)}, nil
}

// CreateFunnelQuestion appends a legacy question to an owned funnel page.
func (s *Service) CreateFunnelQuestion(ctx context.Context, userID, funnelPageID uuid.UUID, req transport.QuestionRequest) (*transport.QuestionResponse, error) {
	if _, err := s.ownedFunnel(ctx, userID, funnelPageID); err != nil {
		return nil, err
	}
	existing, err := s.repo.ListByFunnel(ctx, funnelPageID)
	if err != nil {
		return nil, err
	}

	q, err := buildQuestion(req, len(existing))
	if err != nil {
		return nil, err
	}
	q.FunnelPageID = &funnelPageID

	created, err := s.repo.CreateQuestion(ctx, q)
	if err != nil {
		return nil, err
	}
	resp := transport.ToQuestionResponse(created)
	return &resp, nil
}

// UpdateFunnelQuestion patches a legacy question of an owned funnel page.
func (s *Service) UpdateFunnelQuestion(ctx context.Context, userID, funnelPageID, questionID uuid.UUID, req transport.UpdateQuestionRequest) (*transport.QuestionResponse, error) {
	if _, err := s.ownedFunnel(ctx, userID, funnelPageID); err != nil {
		return nil, err
	}
	q, err := s.questionOf(ctx, questionID, func(q domain.Question) bool {
		return q.FunnelPageID != nil && *q.FunnelPageID == funnelPageID
	})
	if err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, q, req)
}

// DeleteFunnelQuestion removes a legacy question of an owned funnel page.
func (s *Service) DeleteFunnelQuestion(ctx context.Context, userID, funnelPageID, questionID uuid.UUID) error {
	if _, err := s.ownedFunnel(ctx, userID, funnelPageID); err != nil {
		return err
	}
	if _, err := s.questionOf(ctx, questionID, func(q domain.Question) bool {
		return q.FunnelPageID != nil && *q.FunnelPageID == funnelPageID
	}); err != nil {
		return err
	}
	return s.repo.DeleteQuestion(ctx, questionID)
}

// =============================================================================
// Reusable forms
// =============================================================================

// ListForms returns the caller's forms.
func (s *Service) ListForms(ctx context.Context, userID uuid.UUID) (*transport.FormListResponse, error) {
	forms, err := s.repo.ListForms(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.FormResponse, 0, len(forms))
	for _, f := range forms {
		out = append(out, toFormResponse(f, nil))
	}
	return &transport.FormListResponse{Forms: out}, nil
}

// GetForm returns an owned form with its questions.
func (s *Service) GetForm(ctx context.Context, userID, formID uuid.UUID) (*transport.FormResponse, error) {
	form, err := s.repo.GetForm(ctx, formID, userID)
	if err != nil {
		return nil, err
	}
	questions, err := s.repo.ListByForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	resp := toFormResponse(form, questions)
	return &resp, nil
}

// CreateForm creates a form with optional initial questions.
func (s *Service) CreateForm(ctx context.Context, userID uuid.UUID, req transport.CreateFormRequest) (*transport.FormResponse, error) {
	name := sanitize.Text(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	questions := make([]domain.Question, 0, len(req.Questions))
	for i, qr := range req.Questions {
		q, err := buildQuestion(qr, i)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	form, created, err := s.repo.CreateForm(ctx, userID, name, questions)
	if err != nil {
		return nil, err
	}
	resp := toFormResponse(form, created)
	return &resp, nil
}

// RenameForm renames an owned form.
func (s *Service) RenameForm(ctx context.Context, userID, formID uuid.UUID, req transport.UpdateFormRequest) (*transport.FormResponse, error) {
	name := sanitize.Text(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	form, err := s.repo.RenameForm(ctx, formID, userID, name)
	if err != nil {
		return nil, err
	}
	resp := toFormResponse(form, nil)
	return &resp, nil
}

// DeleteForm deletes an owned form.
func (s *Service) DeleteForm(ctx context.Context, userID, formID uuid.UUID) error {
	return s.repo.DeleteForm(ctx, formID, userID)
}

// AddFormQuestion appends a question to an owned form.
func (s *Service) AddFormQuestion(ctx context.Context, userID, formID uuid.UUID, req transport.QuestionRequest) (*transport.QuestionResponse, error) {
	form, err := s.repo.GetForm(ctx, formID, userID)
	if err != nil {
		return nil, err
	}

	q, err := buildQuestion(req, form.QuestionCount)
	if err != nil {
		return nil, err
	}
	q.FormID = &formID

	created, err := s.repo.CreateQuestion(ctx, q)
	if err != nil {
		return nil, err
	}
	resp := transport.ToQuestionResponse(created)
	return &resp, nil
}

// UpdateFormQuestion patches a question of an owned form.
func (s *Service) UpdateFormQuestion(ctx context.Context, userID, formID, questionID uuid.UUID, req transport.UpdateQuestionRequest) (*transport.QuestionResponse, error) {
	if _, err := s.repo.GetForm(ctx, formID, userID); err != nil {
		return nil, err
	}
	q, err := s.questionOf(ctx, questionID, belongsToForm(formID))
	if err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, q, req)
}

// DeleteFormQuestion removes a question from an owned form. Answers stored on
// leads under the deleted question ID are left untouched.
func (s *Service) DeleteFormQuestion(ctx context.Context, userID, formID, questionID uuid.UUID) error {
	if _, err := s.repo.GetForm(ctx, formID, userID); err != nil {
		return err
	}
	if _, err := s.questionOf(ctx, questionID, belongsToForm(formID)); err != nil {
		return err
	}
	return s.repo.DeleteQuestion(ctx, questionID)
}

// ReorderFormQuestions applies each reorder item independently. A failing
// item does not roll back the others; the response reports every outcome.
func (s *Service) ReorderFormQuestions(ctx context.Context, userID, formID uuid.UUID, req transport.ReorderRequest) (*transport.ReorderResponse, error) {
	if _, err := s.repo.GetForm(ctx, formID, userID); err != nil {
		return nil, err
	}

	resp := &transport.ReorderResponse{Results: make([]transport.ReorderItemResult, 0, len(req.Items))}
	for _, item := range req.Items {
		result := transport.ReorderItemResult{ID: item.ID, Success: true}
		if err := s.repo.SetQuestionOrder(ctx, formID, item.ID, item.QuestionOrder); err != nil {
			result.Success = false
			result.Error = itemErrorMessage(err)
			resp.Failed++
			if !apperr.Is(err, apperr.KindNotFound) {
				s.log.Error("failed to reorder question", "formId", formID, "questionId", item.ID, "error", err)
			}
		} else {
			resp.Updated++
		}
		resp.Results = append(resp.Results, result)
	}
	return resp, nil
}

// =============================================================================
// Templates
// =============================================================================

// ListTemplates returns the starter templates.
func (s *Service) ListTemplates() *transport.TemplateListResponse {
	templates := s.templates.List()
	out := make([]transport.TemplateResponse, 0, len(templates))
	for _, tpl := range templates {
		out = append(out, toTemplateResponse(tpl))
	}
	return &transport.TemplateListResponse{Templates: out}
}

// CreateFormFromTemplate copies a starter template into a new owned form.
func (s *Service) CreateFormFromTemplate(ctx context.Context, userID uuid.UUID, req transport.FromTemplateRequest) (*transport.FormResponse, error) {
	tpl, ok := s.templates.Get(req.TemplateKey)
	if !ok {
		return nil, apperr.NotFound("template not found")
	}

	name := tpl.Name
	if req.Name != nil {
		if custom := sanitize.Text(*req.Name); custom != "" {
			name = custom
		}
	}

	form, created, err := s.repo.CreateForm(ctx, userID, name, tpl.ToQuestions())
	if err != nil {
		return nil, err
	}
	resp := toFormResponse(form, created)
	return &resp, nil
}

// =============================================================================
// Helpers
// =============================================================================

func belongsToForm(formID uuid.UUID) func(domain.Question) bool {
	return func(q domain.Question) bool {
		return q.FormID != nil && *q.FormID == formID
	}
}

func (s *Service) questionOf(ctx context.Context, questionID uuid.UUID, owned func(domain.Question) bool) (domain.Question, error) {
	q, err := s.repo.GetQuestion(ctx, questionID)
	if err != nil {
		return domain.Question{}, err
	}
	if !owned(q) {
		return domain.Question{}, apperr.NotFound("question not found")
	}
	return q, nil
}

func (s *Service) applyUpdate(ctx context.Context, q domain.Question, req transport.UpdateQuestionRequest) (*transport.QuestionResponse, error) {
	if req.QuestionText != nil {
		q.QuestionText = sanitize.Text(*req.QuestionText)
	}
	if req.AnswerType != nil {
		q.AnswerType = *req.AnswerType
	}
	if req.ClearQualifying {
		q.QualifyingAnswer = nil
	} else if req.QualifyingAnswer != nil {
		q.QualifyingAnswer = req.QualifyingAnswer
	}
	if req.Options != nil {
		q.Options = sanitizeOptions(req.Options)
	}
	if req.Placeholder != nil {
		q.Placeholder = sanitize.OptionalText(req.Placeholder)
	}
	if req.IsRequired != nil {
		q.IsRequired = *req.IsRequired
	}
	if req.QuestionOrder != nil {
		q.QuestionOrder = *req.QuestionOrder
	}

	if err := normalizeQuestion(&q); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateQuestion(ctx, q)
	if err != nil {
		return nil, err
	}
	resp := transport.ToQuestionResponse(updated)
	return &resp, nil
}

// buildQuestion turns a create request into an unsaved question placed at
// defaultOrder unless the request names an order.
func buildQuestion(req transport.QuestionRequest, defaultOrder int) (domain.Question, error) {
	q := domain.Question{
		QuestionText:     sanitize.Text(req.QuestionText),
		QuestionOrder:    defaultOrder,
		AnswerType:       req.AnswerType,
		QualifyingAnswer: req.QualifyingAnswer,
		Options:          sanitizeOptions(req.Options),
		Placeholder:      sanitize.OptionalText(req.Placeholder),
		IsRequired:       true,
	}
	if q.AnswerType == "" {
		q.AnswerType = domain.AnswerTypeYesNo
	}
	if req.IsRequired != nil {
		q.IsRequired = *req.IsRequired
	}
	if req.QuestionOrder != nil {
		q.QuestionOrder = *req.QuestionOrder
	}
	// New yes/no questions gate on "yes" unless told otherwise.
	if q.AnswerType == domain.AnswerTypeYesNo && q.QualifyingAnswer == nil {
		yes := true
		q.QualifyingAnswer = &yes
	}
	if err := normalizeQuestion(&q); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

// normalizeQuestion enforces the per-type invariants shared by create and update.
func normalizeQuestion(q *domain.Question) error {
	if q.QuestionText == "" {
		return apperr.Validation(errQuestionTextRequired)
	}
	if !q.AnswerType.Valid() {
		return apperr.Validation(fmt.Sprintf("unsupported answerType %q", q.AnswerType))
	}
	if q.AnswerType != domain.AnswerTypeYesNo {
		q.QualifyingAnswer = nil
	}
	if q.AnswerType == domain.AnswerTypeMultipleChoice {
		if len(q.Options) < minMultipleChoiceOptions {
			return apperr.Validation(errMultipleChoiceOptions)
		}
	} else {
		q.Options = []string{}
	}
	return nil
}

func sanitizeOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		if cleaned := sanitize.Text(opt); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

func itemErrorMessage(err error) string {
	if apperr.Is(err, apperr.KindNotFound) {
		return "question not found"
	}
	return "update failed"
}

func toFormResponse(f repository.Form, questions []domain.Question) transport.FormResponse {
	resp := transport.FormResponse{
		ID:            f.ID,
		Name:          f.Name,
		QuestionCount: f.QuestionCount,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
	if questions != nil {
		resp.Questions = transport.ToQuestionResponses(questions)
		resp.QuestionCount = len(questions)
	}
	return resp
}

func toTemplateResponse(tpl Template) transport.TemplateResponse {
	questions := make([]transport.TemplateQuestion, 0, len(tpl.Questions))
	for _, q := range tpl.ToQuestions() {
		questions = append(questions, transport.TemplateQuestion{
			QuestionText:     q.QuestionText,
			AnswerType:       q.AnswerType,
			QualifyingAnswer: q.QualifyingAnswer,
			Options:          q.Options,
			Placeholder:      q.Placeholder,
		})
	}
	return transport.TemplateResponse{
		Key:         tpl.Key,
		Name:        tpl.Name,
		Description: tpl.Description,
		Questions:   questions,
	}
}
