package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clockshop-backend/pkg/jwt"
)

func newAuthRouter(tokens *jwt.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens), func(c *gin.Context) {
		id, _ := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID, "role": id.Role})
	})
	r.GET("/admin", AuthMiddleware(tokens), RequireRole(RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func call(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := jwt.NewManager("secret", time.Hour, 0)
	r := newAuthRouter(tokens)

	access, err := tokens.GenerateAccessToken(77, "", RoleCustomer)
	require.NoError(t, err)
	refresh, err := tokens.GenerateRefreshToken(77)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + access, http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"valid access token", "Bearer " + access, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(r, "/me", tt.header)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	w := call(r, "/me", "Bearer "+access)
	assert.JSONEq(t, `{"user_id":77,"role":"customer"}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	tokens := jwt.NewManager("secret", time.Hour, 0)
	r := newAuthRouter(tokens)

	customer, err := tokens.GenerateAccessToken(77, "", RoleCustomer)
	require.NoError(t, err)
	admin, err := tokens.GenerateAccessToken(1, "", RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, call(r, "/admin", "Bearer "+customer).Code)
	assert.Equal(t, http.StatusNoContent, call(r, "/admin", "Bearer "+admin).Code)
}

func TestClientIPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ClientIPMiddleware())
	r.GET("/ip", func(c *gin.Context) {
		c.String(http.StatusOK, GetClientIP(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "203.0.113.7", w.Body.String())
}

func TestGetClientIP_WithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ip", func(c *gin.Context) {
		c.String(http.StatusOK, GetClientIP(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Real-IP", "198.51.100.4")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "198.51.100.4", w.Body.String())
}
