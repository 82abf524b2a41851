package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour, 0)

	token, err := m.GenerateAccessToken(77, "khach@clockshop.vn", "customer")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(77), claims.UserID)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)
}

func TestValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	m := NewManager("secret", time.Hour, 0)

	token, err := m.GenerateRefreshToken(77)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewManager("secret", time.Hour, 0).GenerateAccessToken(1, "", "admin")
	require.NoError(t, err)

	_, err = NewManager("other", time.Hour, 0).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	m := NewManager("secret", time.Minute, 0)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.GenerateAccessToken(1, "", "customer")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateToken_RejectsForeignIssuer(t *testing.T) {
	foreign := gojwt.NewWithClaims(gojwt.SigningMethodHS256, Claims{
		UserID: 1,
		Type:   TokenTypeAccess,
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := foreign.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewManager("secret", time.Hour, 0).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_WrongType(t *testing.T) {
	m := NewManager("secret", time.Hour, time.Hour)

	token, err := m.GenerateRefreshToken(9)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}
