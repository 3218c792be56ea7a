package identity

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleBidder Role = "BIDDER"
	RoleSeller Role = "SELLER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleBidder, RoleSeller:
		return true
	}
	return false
}

// Actor is the authenticated caller of a service operation. Handlers build it
// from the verified access token and pass it explicitly down to the services.
type Actor struct {
	UserID     uuid.UUID
	Email      string
	Username   string
	Role       Role
	Provider   string
	IsVerified bool
	IsBanned   bool
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Anonymous reports whether no user is attached, as with optional auth routes.
func (a Actor) Anonymous() bool { return a.UserID == uuid.Nil }
