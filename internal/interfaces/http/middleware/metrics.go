package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/telemetry"
)

// Metrics records request count, latency and in-flight requests per route.
// Unmatched routes are reported as "unmatched" to bound cardinality.
func Metrics(m *telemetry.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := m.Start(c.Request.Context(), c.Request.Method)
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		done(route, c.Writer.Status())
	}
}

// Profiling attaches pyroscope labels for the route and method to the
// goroutine serving the request
func Profiling() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || route == "/health" || route == "/api/v1/health" {
			c.Next()
			return
		}
		telemetry.WithLabels(c.Request.Context(), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		}, "route", route, "method", c.Request.Method)
	}
}
