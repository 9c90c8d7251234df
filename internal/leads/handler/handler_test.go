package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"magnetlab_backend/internal/events"
	"magnetlab_backend/internal/leads/repository"
	"magnetlab_backend/internal/leads/service"
	qualdomain "magnetlab_backend/internal/qualification/domain"
	"magnetlab_backend/platform/apperr"
	"magnetlab_backend/platform/logger"
	"magnetlab_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubRepo knows one lead and accepts every qualification write.
type stubRepo struct {
	repository.LeadRepository
	lead repository.Lead
}

func (s *stubRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	if id != s.lead.ID {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return s.lead, nil
}

func (s *stubRepo) SaveQualification(_ context.Context, _ uuid.UUID, qualified bool, answers map[string]bool) (repository.Lead, error) {
	s.lead.Qualified = &qualified
	s.lead.Answers = answers
	return s.lead, nil
}

type stubFunnels map[uuid.UUID]service.FunnelTarget

func (s stubFunnels) GetFunnelTarget(_ context.Context, id uuid.UUID) (service.FunnelTarget, error) {
	target, ok := s[id]
	if !ok {
		return service.FunnelTarget{}, apperr.NotFound("funnel page not found")
	}
	return target, nil
}

type stubQuestions []qualdomain.Question

func (s stubQuestions) ResolveQuestions(context.Context, uuid.UUID, *uuid.UUID) ([]qualdomain.Question, error) {
	return s, nil
}

type qualifyFixture struct {
	engine     *gin.Engine
	funnelID   uuid.UUID
	draftID    uuid.UUID
	leadID     uuid.UUID
	questionID uuid.UUID
}

func newQualifyFixture(t *testing.T) qualifyFixture {
	t.Helper()
	f := qualifyFixture{
		funnelID:   uuid.New(),
		draftID:    uuid.New(),
		leadID:     uuid.New(),
		questionID: uuid.New(),
	}
	yes := true
	calendly := "https://cal.example/x"
	rejection := "Not a fit"

	repo := &stubRepo{lead: repository.Lead{ID: f.leadID, FunnelPageID: f.funnelID, Email: "v@example.com"}}
	funnels := stubFunnels{
		f.funnelID: {ID: f.funnelID, Published: true, CalendlyURL: &calendly, RejectionMessage: &rejection},
		f.draftID:  {ID: f.draftID},
	}
	questions := stubQuestions{{ID: f.questionID, AnswerType: qualdomain.AnswerTypeYesNo, QualifyingAnswer: &yes}}

	log := logger.Discard()
	svc := service.New(repo, funnels, questions, events.NewInMemoryBus(log), log)
	h := New(svc, validator.New())

	f.engine = gin.New()
	f.engine.POST("/api/leads/qualify", h.Qualify)
	return f
}

func (f qualifyFixture) post(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/leads/qualify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.engine.ServeHTTP(rec, req)
	return rec
}

func TestQualifyResponses(t *testing.T) {
	f := newQualifyFixture(t)

	cases := []struct {
		name      string
		answer    string
		qualified bool
		calendly  any
		rejection any
	}{
		{"qualified", "true", true, "https://cal.example/x", nil},
		{"disqualified", "false", false, nil, "Not a fit"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := `{"leadId":"` + f.leadID.String() + `","funnelPageId":"` + f.funnelID.String() +
				`","answers":{"` + f.questionID.String() + `":` + tc.answer + `}}`
			rec := f.post(t, body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
			}

			var got map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got["qualified"] != tc.qualified {
				t.Errorf("qualified = %v", got["qualified"])
			}
			if got["calendlyUrl"] != tc.calendly {
				t.Errorf("calendlyUrl = %v", got["calendlyUrl"])
			}
			if got["rejectionMessage"] != tc.rejection {
				t.Errorf("rejectionMessage = %v", got["rejectionMessage"])
			}
			for _, key := range []string{"calendlyUrl", "rejectionMessage"} {
				if _, ok := got[key]; !ok {
					t.Errorf("expected %s to be present as null or value", key)
				}
			}
		})
	}
}

func TestQualifyStatusCodes(t *testing.T) {
	f := newQualifyFixture(t)
	lead := f.leadID.String()
	funnel := f.funnelID.String()

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"leadId":`, http.StatusBadRequest},
		{"missing lead", `{"funnelPageId":"` + funnel + `","answers":{}}`, http.StatusBadRequest},
		{"missing answers", `{"leadId":"` + lead + `","funnelPageId":"` + funnel + `"}`, http.StatusBadRequest},
		{"non boolean answer", `{"leadId":"` + lead + `","funnelPageId":"` + funnel + `","answers":{"q":"yes"}}`, http.StatusBadRequest},
		{"unknown funnel", `{"leadId":"` + lead + `","funnelPageId":"` + uuid.NewString() + `","answers":{}}`, http.StatusNotFound},
		{"unpublished funnel", `{"leadId":"` + lead + `","funnelPageId":"` + f.draftID.String() + `","answers":{}}`, http.StatusForbidden},
		{"unknown lead", `{"leadId":"` + uuid.NewString() + `","funnelPageId":"` + funnel + `","answers":{}}`, http.StatusNotFound},
		{"empty answers", `{"leadId":"` + lead + `","funnelPageId":"` + funnel + `","answers":{}}`, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := f.post(t, tc.body); rec.Code != tc.want {
				t.Fatalf("status = %d, want %d body=%s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}
