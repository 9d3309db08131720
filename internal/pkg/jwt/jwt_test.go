package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/minhnd/parklot/internal/domain"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key"

func newTestStaff() *domain.Staff {
	return &domain.Staff{
		ID:       uuid.New(),
		Username: "admin",
		FullName: "Test Staff",
		Role:     domain.RoleAdmin,
	}
}

func TestTokenService_ValidateToken(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		ts := NewTokenService(testSecret, 15*time.Minute, 24*time.Hour)
		staff := newTestStaff()

		pair, err := ts.GenerateTokenPair(staff)
		assert.NoError(t, err)

		claims, err := ts.ValidateToken(pair.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, staff.ID, claims.StaffID)
		assert.Equal(t, staff.Username, claims.Username)
		assert.Equal(t, domain.RoleAdmin, claims.Role)
	})

	t.Run("expired token maps to the domain sentinel", func(t *testing.T) {
		ts := NewTokenService(testSecret, -time.Minute, 24*time.Hour)

		pair, err := ts.GenerateTokenPair(newTestStaff())
		assert.NoError(t, err)

		_, err = ts.ValidateToken(pair.AccessToken)
		assert.ErrorIs(t, err, domain.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		ts := NewTokenService(testSecret, 15*time.Minute, 24*time.Hour)
		pair, err := ts.GenerateTokenPair(newTestStaff())
		assert.NoError(t, err)

		other := NewTokenService("another-secret", 15*time.Minute, 24*time.Hour)
		_, err = other.ValidateToken(pair.AccessToken)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrTokenExpired)
	})

	t.Run("garbage token", func(t *testing.T) {
		ts := NewTokenService(testSecret, 15*time.Minute, 24*time.Hour)
		_, err := ts.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}
