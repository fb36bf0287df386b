package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/helljxnn/astrostar-backend-sub000/pkg/metrics"
)

// MetricsMiddleware records request counts and latency per route template.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
