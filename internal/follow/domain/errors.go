package domain

import (
	"net/http"

	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
)

var (
	ErrCannotFollowSelf   = apperror.New(http.StatusConflict, "CANNOT_FOLLOW_SELF", "User cannot follow themselves")
	ErrCannotUnfollowSelf = apperror.New(http.StatusConflict, "CANNOT_UNFOLLOW_SELF", "User cannot unfollow themselves")
	ErrCannotAcceptSelf   = apperror.New(http.StatusConflict, "CANNOT_ACCEPT_SELF", "User cannot accept their own follow request")
	ErrCannotDeclineSelf  = apperror.New(http.StatusConflict, "CANNOT_DECLINE_SELF", "You cannot decline yourself")
	ErrCannotBlockSelf    = apperror.New(http.StatusConflict, "CANNOT_BLOCK_SELF", "You cannot block yourself")
	ErrCannotUnblockSelf  = apperror.New(http.StatusConflict, "CANNOT_UNBLOCK_SELF", "You cannot unblock yourself")

	ErrBidderNotFound        = apperror.New(http.StatusNotFound, "BIDDER_NOT_FOUND", "Follower user not found")
	ErrSellerNotFound        = apperror.New(http.StatusNotFound, "SELLER_NOT_FOUND", "Seller not found or invalid")
	ErrInvalidRelationAction = apperror.New(http.StatusBadRequest, "INVALID_RELATION_ACTION", "Only bidders can follow sellers")

	ErrAlreadyFollowed = apperror.New(http.StatusConflict, "ALREADY_FOLLOWED", "You have already followed this user")
	ErrFollowBlocked   = apperror.New(http.StatusForbidden, "FOLLOW_BLOCKED", "You have been blocked by this user and cannot follow them")
	ErrNotFollowing    = apperror.New(http.StatusConflict, "NOT_FOLLOWING", "You are not following this user")
	ErrUnfollowBlocked = apperror.New(http.StatusForbidden, "UNFOLLOW_BLOCKED", "Cannot unfollow due to blocked status")
	ErrNoFollowRequest = apperror.New(http.StatusNotFound, "NO_FOLLOW_REQUEST", "No follow request found")
	ErrAlreadyBlocked  = apperror.New(http.StatusConflict, "ALREADY_BLOCKED", "This follow relationship is already blocked")
	ErrNotBlocked      = apperror.New(http.StatusConflict, "NOT_BLOCKED", "This follow relationship is not blocked")
)
