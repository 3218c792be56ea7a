package domain

import (
	"testing"

	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserRole(t *testing.T) {
	seller := NewUser("s@bid.market", "seller", "hash", true)
	bidder := NewUser("b@bid.market", "bidder", "hash", false)

	assert.Equal(t, identity.RoleSeller, seller.Role)
	assert.Equal(t, identity.RoleBidder, bidder.Role)
	assert.False(t, seller.IsVerified)
	assert.False(t, seller.IsBanned)
	assert.NotEqual(t, seller.ID, bidder.ID)
}

func TestApplyWarningCount(t *testing.T) {
	tests := []struct {
		count  int
		banned bool
	}{
		{0, false},
		{2, false},
		{3, true},
		{4, true},
	}
	for _, tt := range tests {
		u := &User{}
		u.ApplyWarningCount(tt.count)
		assert.Equal(t, tt.count, u.WarningCount)
		assert.Equal(t, tt.banned, u.IsBanned, "count %d", tt.count)
	}

	u := &User{IsBanned: true}
	u.ApplyWarningCount(2)
	assert.False(t, u.IsBanned, "dropping below the threshold lifts the ban")
}

func TestBanUnban(t *testing.T) {
	u := &User{}
	require.NoError(t, u.Ban())
	assert.True(t, u.IsBanned)
	assert.ErrorIs(t, u.Ban(), ErrUserAlreadyBanned)

	require.NoError(t, u.Unban())
	assert.False(t, u.IsBanned)
	assert.ErrorIs(t, u.Unban(), ErrUserNotBanned)
}

func TestActorCarriesAccountState(t *testing.T) {
	u := NewUser("a@bid.market", "ana", "hash", false)
	u.IsVerified = true
	a := u.Actor()
	assert.Equal(t, u.ID, a.UserID)
	assert.Equal(t, "ana", a.Username)
	assert.True(t, a.IsVerified)
	assert.False(t, a.IsBanned)
}
