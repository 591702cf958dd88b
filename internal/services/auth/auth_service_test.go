package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTokenRoundTrip(t *testing.T) {
	service, err := NewAuthService("test-secret")
	require.NoError(t, err)

	token, err := service.GenerateToken("user-1", "org-1", "maria", time.Hour)
	require.NoError(t, err)

	info, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", info.UserID)
	assert.Equal(t, "org-1", info.OrganizationID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), info.ExpiresAt, time.Minute)
}

func TestValidateTokenRejectsExpiredAndForeignTokens(t *testing.T) {
	service, err := NewAuthService("test-secret")
	require.NoError(t, err)

	expired, err := service.GenerateToken("user-1", "org-1", "maria", -time.Minute)
	require.NoError(t, err)
	_, err = service.ValidateToken(expired)
	assert.Error(t, err)

	other, err := NewAuthService("other-secret")
	require.NoError(t, err)
	foreign, err := other.GenerateToken("user-1", "org-1", "maria", time.Hour)
	require.NoError(t, err)
	_, err = service.ValidateToken(foreign)
	assert.Error(t, err)
}

func TestValidateTokenRequiresOrganization(t *testing.T) {
	service, err := NewAuthService("test-secret")
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	_, err := NewAuthService("")
	assert.Error(t, err)
}
