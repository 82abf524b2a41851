package middleware

import (
	"github.com/gin-gonic/gin"

	"clockshop-backend/internal/shared/utils"
)

const ContextKeyClientIP = "client_ip"

// ClientIPMiddleware extracts the client IP address from the request
// and stores it in the gin context.
//
// Usage:
//
//	router.Use(middleware.ClientIPMiddleware())
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.ExtractClientIP(c)

		c.Set(ContextKeyClientIP, clientIP)

		c.Next()
	}
}

// GetClientIP returns the IP set by ClientIPMiddleware, or extracts it
func GetClientIP(c *gin.Context) string {
	if ip := c.GetString(ContextKeyClientIP); ip != "" {
		return ip
	}
	return utils.ExtractClientIP(c)
}
