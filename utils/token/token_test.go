package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var testSecret = []byte("test-secret")

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	userID := uuid.New()

	signed, err := GenerateAccessToken(userID, "a@x.com", testSecret, time.Hour)
	assert.NoError(t, err)

	claims, err := ValidateAccessToken(signed, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Username)
	assert.Equal(t, AccessTokenType, claims.TokenType)
}

func TestGenerateRefreshToken_RoundTrip(t *testing.T) {
	userID := uuid.New()

	signed, jti, err := GenerateRefreshToken(userID, "a@x.com", testSecret, time.Hour)
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, jti)

	claims, parsedJTI, err := ValidateRefreshToken(signed, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, jti, parsedJTI)
}

func TestValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	signed, _, err := GenerateRefreshToken(uuid.New(), "a@x.com", testSecret, time.Hour)
	assert.NoError(t, err)

	_, err = ValidateAccessToken(signed, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRefreshToken_RejectsAccessToken(t *testing.T) {
	signed, err := GenerateAccessToken(uuid.New(), "a@x.com", testSecret, time.Hour)
	assert.NoError(t, err)

	_, _, err = ValidateRefreshToken(signed, testSecret)
	assert.ErrorIs(t, err, ErrNotRefreshToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	signed, err := GenerateAccessToken(uuid.New(), "a@x.com", testSecret, time.Hour)
	assert.NoError(t, err)

	_, err = ValidateToken(signed, []byte("other-secret"))
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	signed, err := GenerateAccessToken(uuid.New(), "a@x.com", testSecret, -time.Minute)
	assert.NoError(t, err)

	_, err = ValidateToken(signed, testSecret)
	assert.Error(t, err)
}
