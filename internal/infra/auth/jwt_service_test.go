package auth

import (
	"testing"
	"time"

	"chatter/config"
	"chatter/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey = "test_secret_key_very_long_for_testing"

	return cfg
}

func TestJWTService_IssueAndResolve(t *testing.T) {
	tokenService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	accessToken, err := tokenService.Issue("alice@example.com", service.PurposeAccess)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)

	subject, err := tokenService.Resolve(accessToken, service.PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)

	confirmationToken, err := tokenService.Issue("alice@example.com", service.PurposeConfirmation)
	require.NoError(t, err)

	subject, err = tokenService.Resolve(confirmationToken, service.PurposeConfirmation)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)
}

func TestJWTService_PurposeMismatch(t *testing.T) {
	tokenService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	accessToken, err := tokenService.Issue("alice@example.com", service.PurposeAccess)
	require.NoError(t, err)

	// An access token must never be accepted where a confirmation token is
	// required, and vice versa.
	_, err = tokenService.Resolve(accessToken, service.PurposeConfirmation)
	assert.ErrorIs(t, err, service.ErrTokenPurposeMismatch)

	confirmationToken, err := tokenService.Issue("alice@example.com", service.PurposeConfirmation)
	require.NoError(t, err)

	_, err = tokenService.Resolve(confirmationToken, service.PurposeAccess)
	assert.ErrorIs(t, err, service.ErrTokenPurposeMismatch)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	cfg := newTestConfig()
	tokenService, err := NewJWTService(cfg)
	require.NoError(t, err)

	// Manufacture an already-expired token with the same secret.
	expired := tokenClaims{
		Purpose: string(service.PurposeAccess),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice@example.com",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte(cfg.SecretKey))
	require.NoError(t, err)

	_, err = tokenService.Resolve(tokenString, service.PurposeAccess)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
}

func TestJWTService_MalformedToken(t *testing.T) {
	tokenService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	_, err = tokenService.Resolve("clearly-not-a-jwt-token", service.PurposeAccess)
	assert.ErrorIs(t, err, service.ErrTokenMalformed)
}

func TestJWTService_WrongSecret(t *testing.T) {
	tokenService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	otherCfg := &config.Config{}
	otherCfg.SecretKey = "a_completely_different_secret_key"
	otherService, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	token, err := otherService.Issue("alice@example.com", service.PurposeAccess)
	require.NoError(t, err)

	_, err = tokenService.Resolve(token, service.PurposeAccess)
	assert.ErrorIs(t, err, service.ErrTokenMalformed)
}

func TestJWTService_MissingSubject(t *testing.T) {
	cfg := newTestConfig()
	tokenService, err := NewJWTService(cfg)
	require.NoError(t, err)

	claims := tokenClaims{
		Purpose: string(service.PurposeAccess),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.SecretKey))
	require.NoError(t, err)

	_, err = tokenService.Resolve(tokenString, service.PurposeAccess)
	assert.ErrorIs(t, err, service.ErrTokenMissingSubject)
}

func TestJWTService_TTLPerPurpose(t *testing.T) {
	tokenService, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	assert.Equal(t, 60*time.Minute, tokenService.TTL(service.PurposeAccess))
	assert.Equal(t, 1440*time.Minute, tokenService.TTL(service.PurposeConfirmation))
}

func TestJWTService_EmptySecret(t *testing.T) {
	cfg := &config.Config{}

	tokenService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, tokenService)
}
