package webhooks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	leadtransport "magnetlab_backend/internal/leads/transport"
	"magnetlab_backend/platform/logger"
	"magnetlab_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type recordingImporter struct {
	calls []leadtransport.ImportLeadRequest
}

func (r *recordingImporter) Import(_ context.Context, req leadtransport.ImportLeadRequest) (*leadtransport.LeadResponse, error) {
	r.calls = append(r.calls, req)
	return &leadtransport.LeadResponse{ID: uuid.New(), FunnelPageID: req.FunnelPageID, Email: req.Email}, nil
}

func newInboundEngine(secret string, now time.Time, importer LeadImporter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(newFakeStore(), importer, logger.Discard()), validator.New())
	r := gin.New()
	r.POST("/inbound", InboundSignatureMiddleware(secret, func() time.Time { return now }), h.HandleInboundLead)
	return r
}

func TestInboundLeadRequiresValidSignature(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	importer := &recordingImporter{}
	r := newInboundEngine("inbound-secret", now, importer)

	body := `{"funnelPageId":"` + uuid.NewString() + `","email":"lead@example.com"}`
	ts := strconv.FormatInt(now.Unix(), 10)

	cases := []struct {
		name      string
		signature string
		want      int
	}{
		{"valid", Sign("inbound-secret", now.Unix(), []byte(body)), http.StatusCreated},
		{"wrong secret", Sign("guess", now.Unix(), []byte(body)), http.StatusUnauthorized},
		{"missing", "", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/inbound", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set(TimestampHeader, ts)
			if tc.signature != "" {
				req.Header.Set(SignatureHeader, tc.signature)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d body=%s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}

	if len(importer.calls) != 1 || importer.calls[0].Email != "lead@example.com" {
		t.Fatalf("importer calls = %+v", importer.calls)
	}
}

func TestInboundLeadDisabledWithoutSecret(t *testing.T) {
	r := newInboundEngine("", time.Now(), &recordingImporter{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/inbound", strings.NewReader(`{}`)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}
