// internal/utils/jwt_test.go
package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("unit-test-secret")
	userID := uuid.New()

	token, err := GenerateJWT(userID, "user@test.com", "guest", 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "user@test.com", claims.Email)
	assert.Equal(t, "guest", claims.Role)
}

func TestJWTExpired(t *testing.T) {
	SetJWTSecret("unit-test-secret")

	token, err := GenerateJWT(uuid.New(), "user@test.com", "guest", -1)
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	SetJWTSecret("unit-test-secret")
	token, err := GenerateJWT(uuid.New(), "user@test.com", "guest", 1)
	require.NoError(t, err)

	SetJWTSecret("a-different-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestJWTTampered(t *testing.T) {
	SetJWTSecret("unit-test-secret")
	token, err := GenerateJWT(uuid.New(), "user@test.com", "guest", 1)
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	SetJWTSecret("unit-test-secret")
	userID := uuid.New()

	token, err := GenerateRefreshToken(userID, 24)
	require.NoError(t, err)

	subject, err := ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), subject)
}
