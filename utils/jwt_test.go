package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KNagaSaiSatyaTeja/ecommerce-api/models"
)

func TestGenerateAndParseJWT(t *testing.T) {
	user := &models.User{ID: 42, Email: "alice@example.com", Role: models.RoleAdmin}

	token, err := GenerateJWT(user, "secret", 1)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestParseJWTWrongSecret(t *testing.T) {
	user := &models.User{ID: 1, Email: "alice@example.com", Role: models.RoleUser}

	token, err := GenerateJWT(user, "secret", 1)
	require.NoError(t, err)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestParseJWTExpired(t *testing.T) {
	user := &models.User{ID: 1, Email: "alice@example.com", Role: models.RoleUser}

	token, err := GenerateJWT(user, "secret", -1)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}

func TestParseJWTGarbage(t *testing.T) {
	_, err := ParseJWT("definitely-not-a-jwt", "secret")
	assert.Error(t, err)
}
