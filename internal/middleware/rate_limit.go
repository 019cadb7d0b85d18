package middleware

import (
	"fmt"
	"time"

	"github.com/firmdata/dataroom/internal/errs"
	"github.com/firmdata/dataroom/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	// DefaultRequestsPerMinute applies when no limit is configured.
	DefaultRequestsPerMinute = 120

	rateLimitWindow = time.Minute
)

// RateLimitMiddleware enforces a fixed-window request budget per caller,
// keyed by user id when authenticated and by client IP otherwise.
// Counters live in Redis so the limit holds across replicas.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns the enforcement middleware. When Redis is unavailable
// the limiter fails open: availability over strictness.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	limit := r.server.Config.Server.RateLimitPerMinute
	if limit <= 0 {
		limit = DefaultRequestsPerMinute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r.server.Redis == nil {
				return next(c)
			}

			caller := GetUserID(c)
			if caller == "" {
				caller = c.RealIP()
			}

			window := time.Now().Unix() / int64(rateLimitWindow.Seconds())
			key := fmt.Sprintf("ratelimit:%s:%d", caller, window)

			ctx := c.Request().Context()

			count, err := r.server.Redis.Incr(ctx, key).Result()
			if err != nil {
				GetLogger(c).Warn().Err(err).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			if count == 1 {
				r.server.Redis.Expire(ctx, key, rateLimitWindow)
			}

			if count > int64(limit) {
				r.RecordRateLimitHit(c.Path())
				return errs.NewTooManyRequestsError("Rate limit exceeded")
			}

			return next(c)
		}
	}
}

// RecordRateLimitHit emits a New Relic custom event for a rejected
// request, when the agent is configured.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
