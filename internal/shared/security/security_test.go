package security

import (
	"errors"
	"testing"
	"time"

	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)

	hash, err := h.Hash("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, h.Compare(hash, "s3cret!"))
	assert.False(t, h.Compare(hash, "wrong"))
}

func TestBcryptHasherFallsBackToDefaultCost(t *testing.T) {
	assert.Equal(t, 10, NewBcryptHasher(0).cost)
}

func newTestService(now time.Time) *JWTService {
	s := NewJWTService("access-key", "refresh-key", 15*time.Minute, 24*time.Hour)
	s.now = func() time.Time { return now }
	return s
}

func TestTokensRoundTrip(t *testing.T) {
	now := time.Now()
	s := newTestService(now)
	actor := identity.Actor{
		UserID:     uuid.New(),
		Email:      "seller@bid.market",
		Username:   "seller",
		Role:       identity.RoleSeller,
		IsVerified: true,
	}

	pair, err := s.GenerateTokens(actor)
	require.NoError(t, err)

	access, err := s.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, actor.UserID, access.UserID)
	assert.Equal(t, identity.RoleSeller, access.Role)
	assert.Equal(t, DefaultProvider, access.Provider)
	assert.Equal(t, actor.UserID, access.Actor().UserID)

	refresh, err := s.VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, actor.UserID, refresh.UserID)
	assert.NotEmpty(t, refresh.ID)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	s := newTestService(time.Now())
	actor := identity.Actor{UserID: uuid.New(), Role: identity.RoleBidder}

	first, err := s.GenerateTokens(actor)
	require.NoError(t, err)
	second, err := s.GenerateTokens(actor)
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestExpiredAccessToken(t *testing.T) {
	issuedAt := time.Now()
	s := newTestService(issuedAt)
	pair, err := s.GenerateTokens(identity.Actor{UserID: uuid.New(), Role: identity.RoleBidder})
	require.NoError(t, err)

	s.now = func() time.Time { return issuedAt.Add(time.Hour) }

	_, err = s.VerifyAccessToken(pair.AccessToken)
	assert.True(t, errors.Is(err, apperror.ErrAccessTokenExpired))
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	s := newTestService(time.Now())
	pair, err := s.GenerateTokens(identity.Actor{UserID: uuid.New(), Role: identity.RoleBidder})
	require.NoError(t, err)

	_, err = s.VerifyAccessToken(pair.RefreshToken)
	assert.True(t, errors.Is(err, apperror.ErrInvalidAccessToken))

	_, err = s.VerifyRefreshToken("not-a-jwt")
	assert.True(t, errors.Is(err, apperror.ErrInvalidRefreshToken))
}
