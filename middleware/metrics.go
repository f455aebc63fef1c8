package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPMetrics records request count and latency per route template.
func (m *middlewares) HTTPMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.metrics.ObserveHTTP(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
