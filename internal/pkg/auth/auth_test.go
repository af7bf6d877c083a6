// internal/pkg/auth/auth_test.go
package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-client/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "storefront-client"},
		JWT: config.JWTConfig{
			Secret:             "test-secret",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	mgr := NewJWTManager(testConfig())

	tok, err := mgr.GenerateAccessToken("u1", "demo@example.com", "user")
	require.NoError(t, err)

	claims, err := mgr.ValidateAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "demo@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "access", claims.TokenType)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	mgr := NewJWTManager(testConfig())

	refresh, err := mgr.GenerateRefreshToken("u1", "demo@example.com")
	require.NoError(t, err)

	_, err = mgr.ValidateAccessToken(refresh)
	assert.Error(t, err)

	claims, err := mgr.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.AccessTokenExpiry = -time.Minute
	mgr := NewJWTManager(cfg)

	tok, err := mgr.GenerateAccessToken("u1", "demo@example.com", "user")
	require.NoError(t, err)

	_, err = mgr.ValidateAccessToken(tok)
	assert.Error(t, err)
}

func TestTokenSignedWithOtherSecretIsRejected(t *testing.T) {
	mgr := NewJWTManager(testConfig())

	other := testConfig()
	other.JWT.Secret = "different-secret"
	tok, err := NewJWTManager(other).GenerateAccessToken("u1", "demo@example.com", "user")
	require.NoError(t, err)

	_, err = mgr.ValidateAccessToken(tok)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Empty(t, ExtractTokenFromHeader("abc"))
	assert.Empty(t, ExtractTokenFromHeader(""))
	assert.Empty(t, ExtractTokenFromHeader("Basic abc"))
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("CorrectHorse1!")
	require.NoError(t, err)
	assert.NotEqual(t, "CorrectHorse1!", hash)

	assert.NoError(t, VerifyPassword("CorrectHorse1!", hash))
	assert.Error(t, VerifyPassword("WrongHorse1!", hash))
}

func TestValidatePasswordLength(t *testing.T) {
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 129)))
	assert.NoError(t, ValidatePassword("12345678"))
}
