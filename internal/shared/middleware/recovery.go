package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"directory-backend/internal/shared/response"
	"directory-backend/pkg/logger"
)

// RecoveryMiddleware recovers from panics and returns a 500 response.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", fmt.Errorf("%v", r))
				response.InternalError(c, "internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
