package middleware

import (
	"github.com/gin-gonic/gin"

	"clockshop-backend/internal/shared/response"
)

// RequireRole checks the role set by AuthMiddleware
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok || id.Role != role {
			response.Forbidden(c, "Access denied: "+role+" role required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminMiddleware checks if user has admin role
func AdminMiddleware() gin.HandlerFunc {
	return RequireRole(RoleAdmin)
}
