package domain

import (
	"time"

	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/google/uuid"
)

// BanThreshold is the number of warnings that bans a user.
const BanThreshold = 3

type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	Role         identity.Role
	IsVerified   bool
	IsBanned     bool
	WarningCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser builds an unverified account. Sellers register with isSeller set,
// everybody else bids.
func NewUser(email, username, passwordHash string, isSeller bool) *User {
	role := identity.RoleBidder
	if isSeller {
		role = identity.RoleSeller
	}
	return &User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	}
}

func (u *User) Actor() identity.Actor {
	return identity.Actor{
		UserID:     u.ID,
		Email:      u.Email,
		Username:   u.Username,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		IsBanned:   u.IsBanned,
	}
}

// ApplyWarningCount stores a fresh warning count and derives the ban from it.
func (u *User) ApplyWarningCount(n int) {
	u.WarningCount = n
	u.IsBanned = n >= BanThreshold
}

func (u *User) Ban() error {
	if u.IsBanned {
		return ErrUserAlreadyBanned
	}
	u.IsBanned = true
	return nil
}

func (u *User) Unban() error {
	if !u.IsBanned {
		return ErrUserNotBanned
	}
	u.IsBanned = false
	return nil
}

type Warning struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	AdminID     uuid.UUID
	Reason      string
	Description *string
	CreatedAt   time.Time
}

func NewWarning(userID, adminID uuid.UUID, reason string, description *string) *Warning {
	return &Warning{
		ID:          uuid.New(),
		UserID:      userID,
		AdminID:     adminID,
		Reason:      reason,
		Description: description,
	}
}

// Filter holds the optional filters of the admin user search. Email and
// Username match as substrings.
type Filter struct {
	Email         string
	Username      string
	Role          *identity.Role
	IsVerified    *bool
	IsBanned      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Limit         int
	Offset        int
}
