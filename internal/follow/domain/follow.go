package domain

import (
	"fmt"
	"time"

	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/google/uuid"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusActive     Status = "ACTIVE"
	StatusUnfollowed Status = "UNFOLLOWED"
	StatusDeclined   Status = "DECLINED"
	StatusBlocked    Status = "BLOCKED"
)

type Action string

const (
	ActionFollow   Action = "follow"
	ActionUnfollow Action = "unfollow"
	ActionAccept   Action = "accept"
	ActionDecline  Action = "decline"
	ActionBlock    Action = "block"
	ActionUnblock  Action = "unblock"
)

// BySeller reports whether the seller side of the relation triggers action.
func (a Action) BySeller() bool {
	return a != ActionFollow && a != ActionUnfollow
}

// Follow is the relation of a bidder (the follower) to a seller. There is at
// most one per pair.
type Follow struct {
	ID         uuid.UUID
	FollowerID uuid.UUID
	SellerID   uuid.UUID
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewFollow(followerID, sellerID uuid.UUID) *Follow {
	return &Follow{ID: uuid.New(), FollowerID: followerID, SellerID: sellerID}
}

// Current returns nil for a relation not stored yet.
func (f *Follow) Current() *Status {
	if f == nil || f.Status == "" {
		return nil
	}
	s := f.Status
	return &s
}

func in(s Status, set ...Status) bool {
	for _, x := range set {
		if s == x {
			return true
		}
	}
	return false
}

// Transition returns the status reached by applying action to current. A nil
// current means no relation exists yet.
func Transition(current *Status, action Action) (Status, error) {
	switch action {
	case ActionFollow:
		if current == nil || in(*current, StatusUnfollowed, StatusDeclined) {
			return StatusPending, nil
		}
		if *current == StatusBlocked {
			return *current, ErrFollowBlocked
		}
		return *current, ErrAlreadyFollowed

	case ActionUnfollow:
		if current == nil || in(*current, StatusUnfollowed, StatusDeclined) {
			return "", ErrNotFollowing
		}
		if *current == StatusBlocked {
			return *current, ErrUnfollowBlocked
		}
		return StatusUnfollowed, nil

	case ActionAccept, ActionDecline:
		if current == nil || *current != StatusPending {
			return "", ErrNoFollowRequest
		}
		if action == ActionAccept {
			return StatusActive, nil
		}
		return StatusDeclined, nil

	case ActionBlock:
		if current != nil && *current == StatusBlocked {
			return *current, ErrAlreadyBlocked
		}
		return StatusBlocked, nil

	case ActionUnblock:
		if current == nil || *current != StatusBlocked {
			return "", ErrNotBlocked
		}
		return StatusUnfollowed, nil
	}
	return "", fmt.Errorf("follow: no transition for action %q", action)
}

// Party is one side of a relation as stored in the user table.
type Party struct {
	ID         uuid.UUID
	Role       identity.Role
	IsBanned   bool
	IsVerified bool
}

var selfErrors = map[Action]error{
	ActionFollow:   ErrCannotFollowSelf,
	ActionUnfollow: ErrCannotUnfollowSelf,
	ActionAccept:   ErrCannotAcceptSelf,
	ActionDecline:  ErrCannotDeclineSelf,
	ActionBlock:    ErrCannotBlockSelf,
	ActionUnblock:  ErrCannotUnblockSelf,
}

// CheckSelf rejects a relation of a user with themselves.
func CheckSelf(action Action, bidderID, sellerID uuid.UUID) error {
	if bidderID != sellerID {
		return nil
	}
	if err, ok := selfErrors[action]; ok {
		return err
	}
	return ErrInvalidRelationAction
}

// CheckParties validates the loaded parties. A nil party was not found.
func CheckParties(bidder, seller *Party) error {
	if bidder == nil {
		return ErrBidderNotFound
	}
	if seller == nil || seller.IsBanned || !seller.IsVerified {
		return ErrSellerNotFound
	}
	if bidder.Role != identity.RoleBidder || seller.Role != identity.RoleSeller {
		return ErrInvalidRelationAction
	}
	return nil
}
