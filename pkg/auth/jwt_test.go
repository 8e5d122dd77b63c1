package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService(Config{Secret: "test-secret", ExpiryHours: 1})

	token, err := svc.GenerateToken("u1", "u1@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.ConsumerID)
	assert.Equal(t, "u1@example.com", claims.Email)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := NewJWTService(Config{Secret: "issuer-secret", ExpiryHours: 1})
	verifier := NewJWTService(Config{Secret: "other-secret", ExpiryHours: 1})

	token, err := issuer.GenerateToken("u1", "u1@example.com")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewJWTService(Config{Secret: "test-secret", ExpiryHours: -1})

	token, err := svc.GenerateToken("u1", "u1@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewJWTService(Config{Secret: "test-secret", ExpiryHours: 1})

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
