package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key-at-least-32-characters"

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	token, err := tm.GenerateAccessToken(7, "agent@test.com", []string{CapRentalsCreate, CapRentalsManage})
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int32(7), claims.UserID)
	assert.Equal(t, "agent@test.com", claims.Email)
	assert.True(t, claims.HasPermission(CapRentalsCreate))
	assert.True(t, claims.HasPermission(CapRentalsManage))
	assert.False(t, claims.HasPermission(CapRentalsDelete))
}

func TestValidateTokenFailures(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	t.Run("Garbage", func(t *testing.T) {
		_, err := tm.ValidateToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewTokenManager("another-secret-key-with-32-chars!!", 60)
		token, err := other.GenerateAccessToken(7, "", nil)
		assert.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		expired := &tokenManager{secret: []byte(testSecret), expiry: -1}
		token, err := expired.GenerateAccessToken(7, "", nil)
		assert.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}
