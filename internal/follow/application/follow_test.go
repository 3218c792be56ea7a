package application

import (
	"context"
	"sync"
	"testing"

	"github.com/cristianortiz/bidmarket/internal/follow/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct{ follower, seller uuid.UUID }

type memFollows struct {
	rows  map[pair]domain.Follow
	saves int
}

func (m *memFollows) GetForUpdate(_ context.Context, followerID, sellerID uuid.UUID) (*domain.Follow, error) {
	f, ok := m.rows[pair{followerID, sellerID}]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (m *memFollows) Save(_ context.Context, f *domain.Follow) error {
	m.saves++
	m.rows[pair{f.FollowerID, f.SellerID}] = *f
	return nil
}

func (m *memFollows) IsFollowing(_ context.Context, followerID, sellerID uuid.UUID) (bool, error) {
	f, ok := m.rows[pair{followerID, sellerID}]
	return ok && f.Status == domain.StatusActive, nil
}

type memParties struct {
	mu      sync.Mutex
	parties map[uuid.UUID]domain.Party
}

func (m *memParties) LoadParty(_ context.Context, id uuid.UUID) (*domain.Party, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.parties[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type passTx struct{}

func (passTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	follows *memFollows
	service FollowService
	bidder  identity.Actor
	seller  identity.Actor
}

func newFixture() *fixture {
	f := &fixture{
		follows: &memFollows{rows: map[pair]domain.Follow{}},
		bidder:  identity.Actor{UserID: uuid.New(), Role: identity.RoleBidder, IsVerified: true},
		seller:  identity.Actor{UserID: uuid.New(), Role: identity.RoleSeller, IsVerified: true},
	}
	parties := &memParties{parties: map[uuid.UUID]domain.Party{
		f.bidder.UserID: {ID: f.bidder.UserID, Role: identity.RoleBidder, IsVerified: true},
		f.seller.UserID: {ID: f.seller.UserID, Role: identity.RoleSeller, IsVerified: true},
	}}
	f.service = NewFollowService(NewRelationUseCase(f.follows, parties, passTx{}))
	return f
}

func TestFollowLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	out, err := f.service.Follow(ctx, f.bidder, f.seller.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, out.Status)
	assert.Equal(t, f.bidder.UserID, out.FollowerID)

	_, err = f.service.Follow(ctx, f.bidder, f.seller.UserID)
	assert.ErrorIs(t, err, domain.ErrAlreadyFollowed)

	out, err = f.service.Accept(ctx, f.seller, f.bidder.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, out.Status)
	following, _ := f.follows.IsFollowing(ctx, f.bidder.UserID, f.seller.UserID)
	assert.True(t, following)

	out, err = f.service.Block(ctx, f.seller, f.bidder.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBlocked, out.Status)

	_, err = f.service.Follow(ctx, f.bidder, f.seller.UserID)
	assert.ErrorIs(t, err, domain.ErrFollowBlocked)
	_, err = f.service.Unfollow(ctx, f.bidder, f.seller.UserID)
	assert.ErrorIs(t, err, domain.ErrUnfollowBlocked)

	out, err = f.service.Unblock(ctx, f.seller, f.bidder.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnfollowed, out.Status)

	out, err = f.service.Follow(ctx, f.bidder, f.seller.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, out.Status)

	out, err = f.service.Decline(ctx, f.seller, f.bidder.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeclined, out.Status)
	assert.Len(t, f.follows.rows, 1)
}

func TestBlockCreatesMissingRelation(t *testing.T) {
	f := newFixture()
	out, err := f.service.Block(context.Background(), f.seller, f.bidder.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBlocked, out.Status)
	assert.Equal(t, f.seller.UserID, out.SellerID)
}

func TestRelationChecksRunBeforeStorage(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.service.Follow(ctx, f.bidder, f.bidder.UserID)
	assert.ErrorIs(t, err, domain.ErrCannotFollowSelf)

	_, err = f.service.Follow(ctx, f.bidder, uuid.New())
	assert.ErrorIs(t, err, domain.ErrSellerNotFound)

	_, err = f.service.Accept(ctx, f.seller, uuid.New())
	assert.ErrorIs(t, err, domain.ErrBidderNotFound)

	_, err = f.service.Accept(ctx, f.bidder, f.seller.UserID)
	assert.ErrorIs(t, err, domain.ErrInvalidRelationAction)
	_, err = f.service.Unfollow(ctx, f.bidder, f.seller.UserID)
	assert.ErrorIs(t, err, domain.ErrNotFollowing)

	assert.Zero(t, f.follows.saves)
}
