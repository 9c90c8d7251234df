package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"magnetlab_backend/internal/search/repository"
	"magnetlab_backend/internal/search/service"
	"magnetlab_backend/platform/httpkit"
	"magnetlab_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type emptySearcher struct{}

func (emptySearcher) GlobalSearch(context.Context, repository.Query) ([]repository.SearchResult, error) {
	return nil, nil
}

func TestGlobalSearchValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := New(service.New(emptySearcher{}), validator.New())
	r := gin.New()
	r.GET("/search", func(c *gin.Context) {
		httpkit.SetIdentity(c, uuid.New())
		h.GlobalSearch(c)
	})

	cases := []struct {
		query string
		want  int
	}{
		{"?q=growth", http.StatusOK},
		{"?q=g", http.StatusBadRequest},
		{"", http.StatusBadRequest},
		{"?q=growth&limit=500", http.StatusBadRequest},
		{"?q=growth&limit=abc", http.StatusBadRequest},
		{"?q=growth&types=lead,resource", http.StatusOK},
		{"?q=growth&types=invoice", http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search"+tc.query, nil))
		if rec.Code != tc.want {
			t.Errorf("GET /search%s: status = %d, want %d", tc.query, rec.Code, tc.want)
		}
	}
}
