package auth

import (
	"testing"
	"time"

	"identity/config"
	"identity/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func newTestAuthConfig(ttl time.Duration) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			TokenSecret: "test_secret_key_very_long_for_testing",
			TokenTTL:    ttl,
		},
	}
}

func testAccount() *entity.Account {
	return &entity.Account{
		ID:       42,
		Name:     "Test User",
		Email:    "test@example.com",
		IsActive: true,
	}
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	jwtService, err := NewJWTService(newTestAuthConfig(time.Hour))
	assert.NoError(t, err)
	assert.NotNil(t, jwtService)

	token, expiresAt, err := jwtService.Issue(testAccount())
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := jwtService.Validate(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "Test User", claims.Name)
	assert.WithinDuration(t, expiresAt, claims.ExpiresAt.Time, time.Second)
	assert.False(t, claims.IssuedAt.Time.After(claims.ExpiresAt.Time))
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	// A negative TTL produces a token that is already past its expiry.
	jwtService, err := NewJWTService(newTestAuthConfig(-time.Minute))
	assert.NoError(t, err)

	token, _, err := jwtService.Issue(testAccount())
	assert.NoError(t, err)

	claims, err := jwtService.Validate(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "expired")
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	issuer, err := NewJWTService(newTestAuthConfig(time.Hour))
	assert.NoError(t, err)

	verifier, err := NewJWTService(&config.Config{
		Auth: &config.AuthConfig{
			TokenSecret: "a_completely_different_secret_key",
			TokenTTL:    time.Hour,
		},
	})
	assert.NoError(t, err)

	token, _, err := issuer.Issue(testAccount())
	assert.NoError(t, err)

	claims, err := verifier.Validate(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestAuthConfig(time.Hour))
	assert.NoError(t, err)

	claims, err := jwtService.Validate("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "failed to parse token")
}

func TestJWTService_EmptySecret(t *testing.T) {
	jwtService, err := NewJWTService(&config.Config{Auth: &config.AuthConfig{}})
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "jwt secret must be provided")
}

func TestJWTService_DefaultTTL(t *testing.T) {
	// No configured lifetime falls back to 24 hours.
	jwtService, err := NewJWTService(newTestAuthConfig(0))
	assert.NoError(t, err)

	expiry := jwtService.Expiry()
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiry, 5*time.Second)
}

func TestJWTService_ExpiryMatchesIssuedToken(t *testing.T) {
	jwtService, err := NewJWTService(newTestAuthConfig(2 * time.Hour))
	assert.NoError(t, err)

	reported := jwtService.Expiry()
	_, issued, err := jwtService.Issue(testAccount())
	assert.NoError(t, err)

	assert.WithinDuration(t, reported, issued, 5*time.Second)
}
