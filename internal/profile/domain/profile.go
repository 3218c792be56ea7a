package domain

import (
	"context"
	"net/http"
	"time"

	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/google/uuid"
)

var ErrProfileNotFound = apperror.New(http.StatusNotFound, "PROFILE_NOT_FOUND", "Profile not found")

// Profile is a user together with its optional profile row. ImageKey is the
// storage key of the avatar.
type Profile struct {
	UserID      uuid.UUID
	Email       string
	Username    string
	Role        identity.Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FullName    *string
	PhoneNumber *string
	ImageKey    *string
}

// Changes holds the profile fields to write. Nil fields keep their value.
type Changes struct {
	UserID      uuid.UUID
	FullName    *string
	PhoneNumber *string
	ImageKey    *string
}

type ProfileRepository interface {
	// Get fails with ErrProfileNotFound when the user does not exist.
	Get(ctx context.Context, userID uuid.UUID) (*Profile, error)
	// Upsert writes the changes and returns the stored profile fields.
	Upsert(ctx context.Context, c Changes) (*Changes, error)
}

// FollowChecker reports whether followerID has an ACTIVE follow on sellerID.
type FollowChecker interface {
	IsFollowing(ctx context.Context, followerID, sellerID uuid.UUID) (bool, error)
}
