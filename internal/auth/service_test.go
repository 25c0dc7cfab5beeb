package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapvault/service/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:   "test-secret",
		AdminAPIKey: "test-admin-key",
	}
}

func TestIssueToken(t *testing.T) {
	svc := NewService(testConfig())

	signed, err := svc.IssueToken("test-admin-key")
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "admin", claims["sub"])
	assert.Equal(t, "admin", claims["role"])
}

func TestIssueTokenRejectsWrongKey(t *testing.T) {
	svc := NewService(testConfig())

	_, err := svc.IssueToken("wrong-key")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = svc.IssueToken("")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
