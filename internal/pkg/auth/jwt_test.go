// internal/pkg/auth/jwt_test.go
package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/cart-service/internal/config"
)

const testSecret = "test-secret-that-is-long-enough-for-hmac"

func testValidator() *JWTValidator {
	return NewJWTValidator(&config.Config{JWT: config.JWTConfig{Secret: testSecret}})
}

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func adminClaims(expiry time.Time) *Claims {
	return &Claims{
		UserID:  "user-1",
		Email:   "admin@example.com",
		IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestValidateToken_Valid(t *testing.T) {
	token := signToken(t, testSecret, jwt.SigningMethodHS256, adminClaims(time.Now().Add(time.Hour)))

	claims, err := testValidator().ValidateToken(token)

	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestValidateToken_Expired(t *testing.T) {
	token := signToken(t, testSecret, jwt.SigningMethodHS256, adminClaims(time.Now().Add(-time.Hour)))

	_, err := testValidator().ValidateToken(token)

	require.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token := signToken(t, "a-completely-different-secret-value-here", jwt.SigningMethodHS256, adminClaims(time.Now().Add(time.Hour)))

	_, err := testValidator().ValidateToken(token)

	require.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := testValidator().ValidateToken("not.a.token")

	require.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc123", ExtractTokenFromHeader("Bearer abc123"))
	assert.Empty(t, ExtractTokenFromHeader("abc123"))
	assert.Empty(t, ExtractTokenFromHeader("Bearer"))
	assert.Empty(t, ExtractTokenFromHeader(""))
}
