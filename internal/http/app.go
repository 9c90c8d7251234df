// Package http defines the contract between the composition root, the
// router and the domain modules.
package http

import (
	"context"

	"magnetlab_backend/platform/config"
	"magnetlab_backend/platform/httpkit"
	"magnetlab_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// RouterConfig is what the router reads: CORS, visitor rate limits and the
// access token secret.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker backs GET /api/ready.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is assembled in cmd/api and handed to router.New. A nil Health makes
// readiness always succeed.
type App struct {
	Config  RouterConfig
	Logger  *logger.Logger
	Health  HealthChecker
	Modules []Module
}

// Module mounts one domain's routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext carries the route groups a module may mount on.
//
//   - API: /api without authentication
//   - Public: /api/public, rate limited per visitor IP
//   - Protected: /api behind the bearer token check
type RouterContext struct {
	Engine    *gin.Engine
	API       *gin.RouterGroup
	Public    *gin.RouterGroup
	Protected *gin.RouterGroup
	Config    config.JWTConfig

	// VisitorRateLimiter guards anonymous endpoints mounted outside Public.
	VisitorRateLimiter *httpkit.IPRateLimiter
	// AuthRateLimiter guards sign-in, sign-up and refresh.
	AuthRateLimiter *httpkit.IPRateLimiter
}
