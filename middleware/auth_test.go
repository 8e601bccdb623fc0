package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	InitAuth("test-secret")

	token, err := GenerateToken(42, time.Hour)
	require.NoError(t, err)

	userID, err := ValidateToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, userID)
}

func TestExpiredToken(t *testing.T) {
	InitAuth("test-secret")

	token, err := GenerateToken(42, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	InitAuth("test-secret")
	token, err := GenerateToken(42, time.Hour)
	require.NoError(t, err)

	InitAuth("different-secret")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}
