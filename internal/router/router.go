package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/printforge/print-shop-service/internal/config"
	"github.com/printforge/print-shop-service/internal/handler"    // import the handlers that implement business logic
	"github.com/printforge/print-shop-service/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// The health endpoint can be used by load balancers or monitoring
	// systems to verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the staff login route.  Unauthenticated token
// issuance lives under /v1/auth; all protected staff endpoints are
// registered separately by RegisterStaff.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
}

// RegisterPublic registers the customer-facing endpoints.  None of them
// require authentication: quote submission is open to anyone, the
// material listing backs the quote form and the tracking view is
// authorized by possession of the token alone.
func RegisterPublic(e *echo.Echo, q *handler.QuoteHandler, o *handler.OrderHandler, m *handler.MaterialHandler,
	rlCfg config.RateLimitConfig, cacheCfg config.CacheConfig, rdb *redis.Client) {
	// Quote submission is the only write endpoint exposed to guests, so
	// it carries the per-IP submission rate limit.
	e.POST("/v1/quotes", q.Submit, middleware.SubmissionRateLimit(rlCfg, rdb))
	// Read endpoints are cheap to cache for a few seconds.
	cache := middleware.ResponseCache(cacheCfg, rdb)
	e.GET("/v1/materials", m.List, cache)
	e.GET("/v1/tracking/:token", o.Track, cache)
}

// RegisterStaff registers the staff endpoints under /v1/admin.  Every
// route in the group requires a valid access token carrying the STAFF
// role.
func RegisterStaff(e *echo.Echo, q *handler.QuoteHandler, o *handler.OrderHandler, m *handler.MaterialHandler, jwtSecret string) {
	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("STAFF"))

	admin.GET("/quotes", q.List)
	admin.POST("/quotes/:id/convert", q.Convert)
	admin.PUT("/orders/:id/status", o.UpdateStatus)
	admin.GET("/orders", o.List)
	admin.POST("/materials", m.Create)
}
