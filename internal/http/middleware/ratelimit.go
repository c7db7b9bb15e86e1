package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lumina-backend/internal/http/response"
	"github.com/yungbote/lumina-backend/internal/observability"
	"github.com/yungbote/lumina-backend/internal/platform/logger"
	"github.com/yungbote/lumina-backend/internal/platform/ratelimit"
)

// RateLimit throttles a route per client IP. A limiter backend error lets the
// request through; losing Redis must not take writes down with it.
func RateLimit(log *logger.Logger, limiter ratelimit.Limiter, m *observability.Metrics) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("middleware", "RateLimit")
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := route + "|" + c.ClientIP()
		d, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("Rate limiter unavailable", "route", route, "error", err)
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			secs := int(math.Ceil(d.RetryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			if m != nil {
				m.IncRateLimited(route)
			}
			response.AbortError(c, http.StatusTooManyRequests, "throttled",
				"Request was throttled. Expected available in "+strconv.Itoa(secs)+" seconds.")
			return
		}
		c.Next()
	}
}
