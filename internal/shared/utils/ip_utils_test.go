package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextWith(remoteAddr string, headers map[string]string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.Request = req
	return c
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"forwarded first hop", "10.0.0.2:443", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"real ip", "10.0.0.2:443", map[string]string{"X-Real-IP": "198.51.100.4"}, "198.51.100.4"},
		{"garbage forwarded falls through", "10.0.0.2:443", map[string]string{"X-Forwarded-For": "unknown", "X-Real-IP": "198.51.100.4"}, "198.51.100.4"},
		{"remote addr", "192.0.2.10:51234", nil, "192.0.2.10"},
		{"ipv4 mapped", "[::ffff:192.0.2.10]:51234", nil, "192.0.2.10"},
		{"ipv6", "[2001:db8::1]:80", nil, "2001:db8::1"},
		{"unparseable", "pipe", nil, "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractClientIP(contextWith(tt.remoteAddr, tt.headers)))
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	assert.True(t, IsPrivateIP("10.1.2.3"))
	assert.True(t, IsPrivateIP("172.20.0.1"))
	assert.True(t, IsPrivateIP("192.168.1.1"))
	assert.True(t, IsPrivateIP("127.0.0.1"))
	assert.True(t, IsPrivateIP("::1"))
	assert.False(t, IsPrivateIP("8.8.8.8"))
	assert.False(t, IsPrivateIP("not-an-ip"))
}
