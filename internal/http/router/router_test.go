package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "magnetlab_backend/internal/http"
	"magnetlab_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type testConfig struct{ perMinute int }

func (testConfig) GetHTTPAddr() string                { return ":0" }
func (testConfig) GetCORSAllowAll() bool              { return false }
func (testConfig) GetCORSOrigins() []string           { return []string{"http://localhost:3000"} }
func (testConfig) GetCORSAllowCreds() bool            { return true }
func (c testConfig) GetPublicRateLimitPerMinute() int { return c.perMinute }
func (testConfig) GetJWTAccessSecret() string         { return "secret" }

type failingHealth struct{}

func (failingHealth) Ping(context.Context) error { return errors.New("db down") }

type stubModule struct{}

func (stubModule) Name() string { return "stub" }
func (stubModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/stub/private", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	ctx.Public.GET("/stub", func(c *gin.Context) { c.Status(http.StatusNoContent) })
}

func newTestEngine(perMinute int, health apphttp.HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(&apphttp.App{
		Config:  testConfig{perMinute: perMinute},
		Logger:  logger.Discard(),
		Health:  health,
		Modules: []apphttp.Module{stubModule{}},
	})
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealthAndModuleRoutes(t *testing.T) {
	engine := newTestEngine(0, nil)

	if rec := serve(engine, http.MethodGet, "/api/health"); rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	if rec := serve(engine, http.MethodGet, "/api/public/stub"); rec.Code != http.StatusNoContent {
		t.Fatalf("public stub status = %d", rec.Code)
	}
	if rec := serve(engine, http.MethodGet, "/api/stub/private"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("protected stub status = %d, want 401", rec.Code)
	}
}

func TestReadyReportsUnavailableDatabase(t *testing.T) {
	engine := newTestEngine(0, failingHealth{})
	if rec := serve(engine, http.MethodGet, "/api/ready"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready status = %d, want 503", rec.Code)
	}
}

func TestPublicGroupIsRateLimited(t *testing.T) {
	engine := newTestEngine(1, nil)

	if rec := serve(engine, http.MethodGet, "/api/public/stub"); rec.Code != http.StatusNoContent {
		t.Fatalf("first request status = %d", rec.Code)
	}
	if rec := serve(engine, http.MethodGet, "/api/public/stub"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
}
