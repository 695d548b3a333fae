// internal/pkg/auth/auth_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lootportal/lootportal-api/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "lootportal"},
		JWT: config.JWTConfig{
			Secret:             "test-secret-key-at-least-32-chars!!",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 7 * 24 * time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: 4},
	}
}

func TestJWTManager_AccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, err := m.GenerateAccessToken(7, "buyer@example.com", true)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "buyer@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "access", claims.TokenType)
}

func TestJWTManager_RefreshTokenNeverCarriesAdmin(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, err := m.GenerateRefreshToken(7, "buyer@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin)
}

func TestJWTManager_RejectsWrongTokenType(t *testing.T) {
	m := NewJWTManager(testConfig())

	refresh, err := m.GenerateRefreshToken(7, "buyer@example.com")
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)

	access, err := m.GenerateAccessToken(7, "buyer@example.com", false)
	require.NoError(t, err)
	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestJWTManager_RejectsTamperedToken(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, err := m.GenerateAccessToken(7, "buyer@example.com", false)
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Secret = "another-secret-key-32-characters!!!"
	_, err = NewJWTManager(other).ValidateToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader("abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader(""))
}

func TestPasswordManager_HashAndVerify(t *testing.T) {
	p := NewPasswordManager(testConfig())

	hash, err := p.HashPassword("topup1234")
	require.NoError(t, err)
	assert.NotEqual(t, "topup1234", hash)

	assert.NoError(t, p.VerifyPassword("topup1234", hash))
	assert.Error(t, p.VerifyPassword("wrongpass1", hash))
}

func TestPasswordManager_ValidatePassword(t *testing.T) {
	p := NewPasswordManager(testConfig())

	assert.Error(t, p.ValidatePassword("short1"))
	assert.Error(t, p.ValidatePassword("lettersonly"))
	assert.Error(t, p.ValidatePassword("12345678"))
	assert.NoError(t, p.ValidatePassword("topup1234"))
}
