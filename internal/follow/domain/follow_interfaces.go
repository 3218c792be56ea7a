package domain

import (
	"context"

	"github.com/google/uuid"
)

type FollowRepository interface {
	// GetForUpdate returns nil, nil when the pair has no relation. The row is
	// locked when ctx carries a transaction.
	GetForUpdate(ctx context.Context, followerID, sellerID uuid.UUID) (*Follow, error)
	// Save upserts the relation of (FollowerID, SellerID).
	Save(ctx context.Context, f *Follow) error
	// IsFollowing reports an ACTIVE relation.
	IsFollowing(ctx context.Context, followerID, sellerID uuid.UUID) (bool, error)
}

// PartyLoader returns nil, nil for an unknown user.
type PartyLoader interface {
	LoadParty(ctx context.Context, id uuid.UUID) (*Party, error)
}
