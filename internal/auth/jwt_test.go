package auth_test

import (
	"testing"
	"time"

	"jobtracker/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, 24*time.Hour)

	userID := "test-user-id"
	token, err := tokens.GenerateToken(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedUserID, err := tokens.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, parsedUserID)
}

func TestParseToken_InvalidToken(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)

	_, err := tokens.ParseToken("invalid-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := auth.NewTokenManager("other-secret", time.Hour).GenerateToken("u1")
	require.NoError(t, err)

	_, err = auth.NewTokenManager(testSecret, time.Hour).ParseToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_ExpiredToken(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": "test-user-id",
		"exp":     time.Now().Add(-1 * time.Hour).Unix(), // expired an hour ago
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expiredToken, _ := token.SignedString([]byte(testSecret))

	_, err := auth.NewTokenManager(testSecret, time.Hour).ParseToken(expiredToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_MissingExpiry(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u1"})
	signed, _ := token.SignedString([]byte(testSecret))

	_, err := auth.NewTokenManager(testSecret, time.Hour).ParseToken(signed)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_MissingClaims(t *testing.T) {
	claims := jwt.MapClaims{
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenWithoutUserID, _ := token.SignedString([]byte(testSecret))

	_, err := auth.NewTokenManager(testSecret, time.Hour).ParseToken(tokenWithoutUserID)
	assert.ErrorIs(t, err, auth.ErrInvalidClaims)
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hashed)

	assert.True(t, auth.CheckPassword(hashed, "s3cret"))
	assert.False(t, auth.CheckPassword(hashed, "wrong"))
}
