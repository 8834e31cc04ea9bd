package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"directory-backend/pkg/logger"
)

// LoggerMiddleware logs each request with latency and status.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("request", map[string]interface{}{
			"method":  c.Request.Method,
			"path":    path,
			"query":   query,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		})
	}
}
