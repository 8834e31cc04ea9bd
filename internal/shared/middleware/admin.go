package middleware

import (
	"github.com/gin-gonic/gin"

	"directory-backend/internal/shared/response"
)

// AdminMiddleware allows only users with the admin role.
// Must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("role")
		if !ok || role != "admin" {
			response.Forbidden(c, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
