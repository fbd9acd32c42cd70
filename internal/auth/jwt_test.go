package auth_test

import (
	"testing"
	"time"

	"onboardbot/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, "admin@company.com", 24*time.Hour)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	subject, err := auth.ParseToken(testSecret, token)

	assert.NoError(t, err)
	assert.Equal(t, "admin@company.com", subject)
}

func TestParseToken_InvalidToken(t *testing.T) {
	_, err := auth.ParseToken(testSecret, "invalid-token")

	assert.Error(t, err)
	assert.Equal(t, "invalid token", err.Error())
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := auth.GenerateToken("other-secret", "admin@company.com", 24*time.Hour)
	assert.NoError(t, err)

	_, err = auth.ParseToken(testSecret, token)

	assert.Error(t, err)
	assert.Equal(t, "invalid token", err.Error())
}

func TestParseToken_ExpiredToken(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": "admin@company.com",
		"exp": time.Now().Add(-1 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expiredToken, _ := token.SignedString([]byte(testSecret))

	_, err := auth.ParseToken(testSecret, expiredToken)

	assert.Error(t, err)
	assert.Equal(t, "invalid token", err.Error())
}

func TestParseToken_MissingClaims(t *testing.T) {
	claims := jwt.MapClaims{
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenWithoutSubject, _ := token.SignedString([]byte(testSecret))

	_, err := auth.ParseToken(testSecret, tokenWithoutSubject)

	assert.Error(t, err)
	assert.Equal(t, "invalid claims", err.Error())
}
