package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/printforge/print-shop-service/internal/config"
)

// SubmissionRateLimit returns a middleware that limits public quote
// submissions per client IP using a fixed window counter in Redis.
// When the limiter is disabled or Redis is unavailable the middleware
// is a no-op: losing rate limiting must never take down submissions.
func SubmissionRateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("%s:%s:%d", cfg.Prefix, c.RealIP(),
				time.Now().UTC().Unix()/int64(cfg.Window.Seconds()))
			ctx := c.Request().Context()

			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				// Redis trouble: let the request through rather than block
				// legitimate submissions.
				return next(c)
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, cfg.Window).Err()
			}
			if n > int64(cfg.Limit) {
				c.Response().Header().Set("Retry-After",
					fmt.Sprintf("%d", int(cfg.Window.Seconds())))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many requests"})
			}
			return next(c)
		}
	}
}
