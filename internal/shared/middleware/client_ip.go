package middleware

import (
	"github.com/gin-gonic/gin"

	"directory-backend/internal/shared/utils"
)

// ClientIPMiddleware resolves the client address once per request and
// stores it for handlers, used in moderation audit logs.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("client_ip", utils.ExtractClientIP(c))
		c.Next()
	}
}
