package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"magnetlab_backend/internal/qualification/domain"
	"magnetlab_backend/internal/qualification/repository"
	"magnetlab_backend/internal/qualification/service"
	"magnetlab_backend/internal/qualification/transport"
	"magnetlab_backend/platform/apperr"
	"magnetlab_backend/platform/logger"
	"magnetlab_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubRepo serves fixed legacy questions and reports every form as missing.
type stubRepo struct {
	repository.QualificationRepository
	legacy []domain.Question
}

func (s stubRepo) ListByFunnel(context.Context, uuid.UUID) ([]domain.Question, error) {
	return s.legacy, nil
}

type stubFunnels map[uuid.UUID]service.FunnelRef

func (s stubFunnels) GetFunnelRef(_ context.Context, id uuid.UUID) (service.FunnelRef, error) {
	ref, ok := s[id]
	if !ok {
		return service.FunnelRef{}, apperr.NotFound("funnel page not found")
	}
	return ref, nil
}

func newPublicEngine(t *testing.T, repo stubRepo, funnels stubFunnels) *gin.Engine {
	t.Helper()
	catalog, err := service.LoadTemplateCatalog()
	if err != nil {
		t.Fatalf("catalogue: %v", err)
	}
	svc := service.New(repo, catalog, logger.Discard())
	svc.SetFunnelLookup(funnels)
	h := New(svc, validator.New())

	engine := gin.New()
	engine.GET("/api/public/questions/:funnelPageId", h.PublicQuestions)
	return engine
}

func TestPublicQuestionsHidesQualifyingAnswer(t *testing.T) {
	funnelID := uuid.New()
	yes := true
	placeholder := "yes or no"
	repo := stubRepo{legacy: []domain.Question{{
		ID:               uuid.New(),
		FunnelPageID:     &funnelID,
		QuestionText:     "Budget approved?",
		AnswerType:       domain.AnswerTypeYesNo,
		QualifyingAnswer: &yes,
		Placeholder:      &placeholder,
		IsRequired:       true,
	}}}
	engine := newPublicEngine(t, repo, stubFunnels{funnelID: {ID: funnelID, Published: true}})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/questions/"+funnelID.String(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	var raw map[string][]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	questions := raw["questions"]
	if len(questions) != 1 {
		t.Fatalf("expected one question, got %v", raw)
	}
	if _, leaked := questions[0]["qualifyingAnswer"]; leaked {
		t.Fatal("public payload must not expose qualifyingAnswer")
	}
	for _, key := range []string{"id", "questionText", "questionOrder", "answerType", "options", "placeholder", "isRequired"} {
		if _, ok := questions[0][key]; !ok {
			t.Errorf("missing field %q", key)
		}
	}
}

func TestPublicQuestionsStatusCodes(t *testing.T) {
	draftID := uuid.New()
	engine := newPublicEngine(t, stubRepo{}, stubFunnels{draftID: {ID: draftID, Published: false}})

	cases := map[string]int{
		"/api/public/questions/not-a-uuid":          http.StatusBadRequest,
		"/api/public/questions/" + draftID.String(): http.StatusNotFound,
		"/api/public/questions/" + uuid.NewString(): http.StatusNotFound,
	}
	for path, want := range cases {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != want {
			t.Errorf("%s: status = %d, want %d", path, rec.Code, want)
		}
	}
}

func TestPublicQuestionsEmptyList(t *testing.T) {
	funnelID := uuid.New()
	engine := newPublicEngine(t, stubRepo{}, stubFunnels{funnelID: {ID: funnelID, Published: true}})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/questions/"+funnelID.String(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp transport.PublicQuestionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Questions == nil || len(resp.Questions) != 0 {
		t.Fatalf("expected empty question array, got %s", rec.Body.String())
	}
}
