package middleware

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/printforge/print-shop-service/internal/config"
)

// cachedResponse is the envelope stored in Redis for one cached GET
// response.
type cachedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// captureWriter captures the response body and status while forwarding
// to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

// ResponseCache returns a middleware that caches successful JSON GET
// responses in Redis.  It is applied only to the public tracking view
// and the material catalog, where short staleness is acceptable.  When disabled or when Redis is unavailable the
// middleware is a no-op.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			key := cacheKey(cfg.Prefix, c)
			ctx := c.Request().Context()

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var cached cachedResponse
				if json.Unmarshal(raw, &cached) == nil {
					c.Response().Header().Set("X-Cache", "HIT")
					return c.JSONBlob(cached.Status, cached.Body)
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK {
				if raw, err := json.Marshal(cachedResponse{Status: cw.status, Body: cw.buf.Bytes()}); err == nil {
					_ = rdb.Set(ctx, key, raw, cfg.TTL).Err()
				}
			}
			return nil
		}
	}
}

// cacheKey builds a stable key from the matched route and its
// parameters so /v1/tracking/:token entries never collide.
func cacheKey(prefix string, c echo.Context) string {
	tail := c.Path()
	for _, name := range c.ParamNames() {
		tail += ":" + c.Param(name)
	}
	if q := c.Request().URL.RawQuery; q != "" {
		tail += "?" + q
	}
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}
