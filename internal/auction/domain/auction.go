package domain

import (
	"time"

	"github.com/cristianortiz/bidmarket/internal/shared/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Line reserves Quantity units of a product for an auction.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// Auction is the aggregate guarded by the lifecycle transition table.
type Auction struct {
	ID                  uuid.UUID
	SellerID            uuid.UUID
	WinnerID            *uuid.UUID
	Title               string
	StartTime           time.Time
	EndTime             time.Time
	StartingPrice       decimal.Decimal
	CurrentPrice        decimal.Decimal
	MinimumBidIncrement decimal.Decimal
	Status              Status
	LastBidTime         *time.Time
	CancelReason        *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Lines               []Line
}

// NewAuction builds a PENDING auction. The current price starts at the
// starting price and lastBidTime at the start time.
func NewAuction(sellerID uuid.UUID, title string, start, end time.Time, startingPrice, minIncrement decimal.Decimal, lines []Line) *Auction {
	lastBid := start
	return &Auction{
		ID:                  uuid.New(),
		SellerID:            sellerID,
		Title:               title,
		StartTime:           start,
		EndTime:             end,
		StartingPrice:       startingPrice,
		CurrentPrice:        startingPrice,
		MinimumBidIncrement: minIncrement,
		Status:              StatusPending,
		LastBidTime:         &lastBid,
		Lines:               lines,
	}
}

func (a *Auction) facts(now time.Time) Facts {
	return Facts{Now: now, StartTime: a.StartTime, EndTime: a.EndTime}
}

func (a *Auction) apply(action Action, f Facts) error {
	next, err := Transition(a.Status, action, f)
	if err != nil {
		log.Warn("Auction transition rejected",
			zap.String("auctionID", a.ID.String()),
			zap.String("action", string(action)),
			zap.String("status", string(a.Status)),
			zap.Error(err),
		)
		return err
	}
	log.Info("Auction transition",
		zap.String("auctionID", a.ID.String()),
		zap.String("action", string(action)),
		zap.String("from", string(a.Status)),
		zap.String("to", string(next)),
	)
	a.Status = next
	return nil
}

// Confirm opens a PENDING auction, or marks it READY while the start time
// has not arrived yet.
func (a *Auction) Confirm(now time.Time) error {
	if err := a.apply(ActionConfirm, a.facts(now)); err != nil {
		return err
	}
	a.LastBidTime = &now
	return nil
}

// Cancel only changes status and reason. Restoring the reserved stock is the
// caller's job, inside the same unit of work.
func (a *Auction) Cancel(now time.Time, reason string) error {
	if err := a.apply(ActionCancel, a.facts(now)); err != nil {
		return err
	}
	a.CancelReason = &reason
	return nil
}

func (a *Auction) Close(now time.Time) error {
	return a.apply(ActionClose, a.facts(now))
}

func (a *Auction) Reopen(now time.Time) error {
	if err := a.apply(ActionReopen, a.facts(now)); err != nil {
		return err
	}
	a.LastBidTime = &now
	return nil
}

func (a *Auction) Extend(now, newEndTime time.Time) error {
	f := a.facts(now)
	f.NewEndTime = newEndTime
	if err := a.apply(ActionExtend, f); err != nil {
		return err
	}
	a.EndTime = newEndTime
	return nil
}

// Revise replaces the editable fields of a PENDING auction. Lines are
// reconciled separately since they move stock.
func (a *Auction) Revise(now time.Time, title string, start, end time.Time, startingPrice, minIncrement decimal.Decimal) error {
	if err := a.apply(ActionUpdate, a.facts(now)); err != nil {
		return err
	}
	a.Title = title
	a.StartTime = start
	a.EndTime = end
	a.StartingPrice = startingPrice
	a.CurrentPrice = startingPrice
	a.MinimumBidIncrement = minIncrement
	return nil
}

// OwnedBy reports whether the caller may manage the auction as its seller.
func (a *Auction) OwnedBy(userID uuid.UUID) bool {
	return a.SellerID == userID
}

// ValidateSchedule checks the time window of a new or revised auction.
func ValidateSchedule(now, start, end time.Time) error {
	if start.Before(now) {
		return StartTimeInPast(now)
	}
	if !start.Before(end) {
		return ErrInvalidAuctionTime
	}
	return nil
}

func ValidatePrices(startingPrice, minIncrement decimal.Decimal) error {
	if startingPrice.IsNegative() || minIncrement.IsNegative() {
		return ErrInvalidAuctionPrice
	}
	return nil
}

func ValidateLines(lines []Line) error {
	if len(lines) == 0 {
		return ErrNoProductsProvided
	}
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return ErrInvalidQuantity
		}
		if _, dup := seen[l.ProductID]; dup {
			return ErrDuplicateProduct
		}
		seen[l.ProductID] = struct{}{}
	}
	return nil
}

// LineChange is one stock movement needed to go from an old set of lines to a
// new one. Delta > 0 reserves more stock, Delta < 0 releases it.
type LineChange struct {
	ProductID uuid.UUID
	Delta     int
	// Quantity is the new reserved quantity, 0 when the line is removed.
	Quantity int
	Existed  bool
}

// Reconcile diffs old against next. Removed lines come first, in old order,
// then the lines of next in their given order.
func Reconcile(old, next []Line) []LineChange {
	oldQty := make(map[uuid.UUID]int, len(old))
	for _, l := range old {
		oldQty[l.ProductID] = l.Quantity
	}
	inNext := make(map[uuid.UUID]struct{}, len(next))
	for _, l := range next {
		inNext[l.ProductID] = struct{}{}
	}

	changes := make([]LineChange, 0, len(old)+len(next))
	for _, l := range old {
		if _, kept := inNext[l.ProductID]; !kept {
			changes = append(changes, LineChange{ProductID: l.ProductID, Delta: -l.Quantity, Existed: true})
		}
	}
	for _, l := range next {
		prev, existed := oldQty[l.ProductID]
		changes = append(changes, LineChange{
			ProductID: l.ProductID,
			Delta:     l.Quantity - prev,
			Quantity:  l.Quantity,
			Existed:   existed,
		})
	}
	return changes
}

// Event is emitted for every committed lifecycle mutation.
type Event struct {
	EventID    uuid.UUID `json:"eventId"`
	AuctionID  uuid.UUID `json:"auctionId"`
	Action     Action    `json:"action"`
	Status     Status    `json:"status"`
	EndTime    time.Time `json:"endTime"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewEvent(a *Auction, action Action, at time.Time) Event {
	return Event{
		EventID:    uuid.New(),
		AuctionID:  a.ID,
		Action:     action,
		Status:     a.Status,
		EndTime:    a.EndTime,
		OccurredAt: at,
	}
}
