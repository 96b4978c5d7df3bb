package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims *CashierClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(userID uuid.UUID, issuer string) *CashierClaims {
	return &CashierClaims{
		UserID: userID,
		Name:   "Laura",
		Roles:  []string{RoleCashier},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestValidateAccessToken(t *testing.T) {
	userID := uuid.New()
	m := NewJWTManager("secret", "salon-auth")

	claims, err := m.ValidateAccessToken(signToken(t, "secret", validClaims(userID, "salon-auth")))
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.True(t, claims.HasRole(RoleCashier))
	assert.False(t, claims.HasRole(RoleSupervisor))
}

func TestValidateAccessTokenRejects(t *testing.T) {
	userID := uuid.New()
	m := NewJWTManager("secret", "salon-auth")

	t.Run("wrong secret", func(t *testing.T) {
		_, err := m.ValidateAccessToken(signToken(t, "other", validClaims(userID, "salon-auth")))
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := m.ValidateAccessToken(signToken(t, "secret", validClaims(userID, "someone-else")))
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		c := validClaims(userID, "salon-auth")
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := m.ValidateAccessToken(signToken(t, "secret", c))
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ValidateAccessToken("not-a-token")
		assert.Error(t, err)
	})
}

func TestValidateAccessTokenSubjectFallback(t *testing.T) {
	userID := uuid.New()
	c := validClaims(userID, "")
	c.UserID = uuid.Nil

	claims, err := NewJWTManager("secret", "").ValidateAccessToken(signToken(t, "secret", c))
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}
