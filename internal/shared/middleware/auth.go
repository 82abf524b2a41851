package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"clockshop-backend/internal/shared/response"
	"clockshop-backend/pkg/jwt"
	"clockshop-backend/pkg/logger"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "role"

	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Identity is the authenticated caller
type Identity struct {
	UserID int64
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type identityKey struct{}

// WithIdentity stores the caller on a request context
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext reads the caller stored by AuthMiddleware
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// AuthMiddleware - Middleware xác thực JWT token
func AuthMiddleware(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Lấy token từ Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		// 2. Extract token từ "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		// 3. Verify và parse JWT
		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			logger.Debug("rejected access token: " + err.Error())
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		// 4. Set identity vào gin context và request context
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRole, claims.Role)
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), Identity{
			UserID: claims.UserID,
			Role:   claims.Role,
		}))

		c.Next()
	}
}

// GetIdentity returns the caller set by AuthMiddleware
func GetIdentity(c *gin.Context) (Identity, bool) {
	return IdentityFromContext(c.Request.Context())
}
