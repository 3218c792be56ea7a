package domain

import (
	"net/http"
	"time"

	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
)

var (
	ErrAuctionNotFound  = apperror.New(http.StatusNotFound, "AUCTION_NOT_FOUND", "Auction not found")
	ErrAuctionNotSeller = apperror.New(http.StatusForbidden, "AUCTION_NOT_SELLER", "You are not the seller of this auction.")

	ErrAuctionNotPending     = apperror.New(http.StatusBadRequest, "AUCTION_NOT_PENDING", "Only auctions in PENDING status can be evaluated for opening.")
	ErrAuctionNotCancellable = apperror.New(http.StatusBadRequest, "AUCTION_NOT_CANCELLABLE", "Only auctions in PENDING status can be canceled.")
	ErrAuctionNotClosable    = apperror.New(http.StatusBadRequest, "AUCTION_NOT_CLOSABLE", "Only auctions in OPEN or EXTENDED status can be closed.")
	ErrAuctionNotClosed      = apperror.New(http.StatusBadRequest, "AUCTION_NOT_CLOSED", "Only auctions in CLOSED status can be reopened.")
	ErrAuctionNotOpen        = apperror.New(http.StatusBadRequest, "AUCTION_NOT_OPEN", "Only auctions in OPEN or EXTENDED status can be extended.")
	ErrAuctionAlreadyEnded   = apperror.New(http.StatusBadRequest, "AUCTION_ALREADY_ENDED", "Auction has already ended")
	ErrInvalidNewEndTime     = apperror.New(http.StatusBadRequest, "INVALID_NEW_END_TIME", "New end time must be after the current end time")

	ErrAuctionStartTimeInPast = apperror.New(http.StatusBadRequest, "INVALID_AUCTION_START_TIME", "Start time must be in the future")
	ErrInvalidAuctionTime     = apperror.New(http.StatusBadRequest, "INVALID_AUCTION_TIME", "Start time must be before end time")
	ErrInvalidAuctionPrice    = apperror.New(http.StatusBadRequest, "INVALID_AUCTION_PRICE", "Prices must be non-negative decimals")
	ErrNoProductsProvided     = apperror.New(http.StatusBadRequest, "NO_PRODUCTS_PROVIDED", "An auction needs at least one product")
	ErrDuplicateProduct       = apperror.New(http.StatusBadRequest, "DUPLICATE_AUCTION_PRODUCT", "A product can appear only once in an auction")
	ErrInvalidQuantity        = apperror.New(http.StatusBadRequest, "INVALID_AUCTION_QUANTITY", "Quantity must be at least 1")
)

// StartTimeInPast carries the reference instant in the message.
func StartTimeInPast(now time.Time) error {
	return ErrAuctionStartTimeInPast.WithMessage("Start time must be in the future (>= " + now.UTC().Format(time.RFC3339) + ")")
}
