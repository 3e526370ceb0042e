package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/valueobjects"
)

func newManager(t *testing.T, now time.Time) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(JWTConfig{
		SecretKey:  "test-secret",
		Issuer:     "ris",
		Audience:   []string{"ris-dashboard"},
		ExpiryTime: time.Hour,
	})
	require.NoError(t, err)
	m.now = func() time.Time { return now }
	return m
}

func TestJWTManager_RoundTrip(t *testing.T) {
	// Arrange
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	m := newManager(t, now)
	admin := entities.Identity{ID: "2", Username: "admin", Name: "李医生", Role: valueobjects.RoleAdmin}

	// Act
	token, err := m.GenerateToken(admin)
	require.NoError(t, err)
	claims, err := m.ValidateToken("Bearer " + token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, admin, claims.Identity())
	assert.NotEmpty(t, claims.ID)
}

func TestJWTManager_Rejections(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	m := newManager(t, now)
	token, err := m.GenerateToken(entities.Identity{ID: "1", Role: valueobjects.RolePatient})
	require.NoError(t, err)

	_, err = m.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	m.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	other, err := NewJWTManager(JWTConfig{SecretKey: "other", Issuer: "ris"})
	require.NoError(t, err)
	other.now = func() time.Time { return now }
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = NewJWTManager(JWTConfig{})
	assert.Error(t, err)
}

func TestContextUser(t *testing.T) {
	_, ok := GetUserFromContext(context.Background())
	assert.False(t, ok)

	ctx := SetUserInContext(context.Background(), entities.Identity{ID: "1"})
	user, ok := GetUserFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "1", user.ID)
}

func TestSlidingWindowLimiter(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clock := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	l := NewSlidingWindowLimiter(2, time.Minute)
	l.now = func() time.Time { return clock }

	// Act / Assert
	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "k")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "other")
	assert.True(t, ok, "keys are independent")

	clock = clock.Add(61 * time.Second)
	ok, _ = l.Allow(ctx, "k")
	assert.True(t, ok, "window slid past old requests")

	require.NoError(t, l.Reset(ctx, "k"))
	ok, _ = l.Allow(ctx, "k")
	assert.True(t, ok)
}
