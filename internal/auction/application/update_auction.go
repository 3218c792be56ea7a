package application

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianortiz/bidmarket/internal/auction/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UpdateAuctionUseCase rewrites a PENDING auction and moves stock so that the
// reserved quantities match the new lines. Any failure rolls everything back.
type UpdateAuctionUseCase struct {
	repo      domain.AuctionRepository
	inventory domain.Inventory
	tx        db.Transactor
	events    EventSink
	now       func() time.Time
}

func NewUpdateAuctionUseCase(repo domain.AuctionRepository, inventory domain.Inventory, tx db.Transactor, events EventSink, now func() time.Time) *UpdateAuctionUseCase {
	return &UpdateAuctionUseCase{repo: repo, inventory: inventory, tx: tx, events: events, now: now}
}

func (uc *UpdateAuctionUseCase) Execute(ctx context.Context, actor identity.Actor, auctionID uuid.UUID, in AuctionInputDTO) error {
	now := uc.now()

	var event domain.Event
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		auction, err := uc.repo.GetForUpdate(ctx, auctionID)
		if err != nil {
			return err
		}
		if !auction.OwnedBy(actor.UserID) {
			return domain.ErrAuctionNotSeller
		}
		if _, err := domain.Transition(auction.Status, domain.ActionUpdate, domain.Facts{Now: now}); err != nil {
			return err
		}
		if err := in.validate(now); err != nil {
			return err
		}
		if err := uc.inventory.EnsureOwned(ctx, actor.UserID, in.productIDs()); err != nil {
			return err
		}

		next := in.lines()
		for _, ch := range domain.Reconcile(auction.Lines, next) {
			if err := uc.apply(ctx, auctionID, ch); err != nil {
				log.Error("UpdateAuctionUseCase: Failed to reconcile line",
					zap.String("auctionID", auctionID.String()),
					zap.String("productID", ch.ProductID.String()),
					zap.Int("delta", ch.Delta),
					zap.Error(err),
				)
				return err
			}
		}
		auction.Lines = next

		if err := auction.Revise(now, in.Title, in.StartTime, in.EndTime, in.StartingPrice, in.MinimumBidIncrement); err != nil {
			return err
		}
		if err := uc.repo.Update(ctx, auction); err != nil {
			return err
		}
		event, err = uc.events.record(ctx, auction, domain.ActionUpdate, now)
		return err
	})
	if err != nil {
		return fmt.Errorf("update auction use case: auction %s: %w", auctionID, err)
	}
	uc.events.publish(event)
	return nil
}

func (uc *UpdateAuctionUseCase) apply(ctx context.Context, auctionID uuid.UUID, ch domain.LineChange) error {
	switch {
	case ch.Delta > 0:
		if err := uc.inventory.DecrementStock(ctx, ch.ProductID, ch.Delta); err != nil {
			return err
		}
	case ch.Delta < 0:
		if err := uc.inventory.IncrementStock(ctx, ch.ProductID, -ch.Delta); err != nil {
			return err
		}
	}

	if ch.Quantity == 0 {
		return uc.repo.DeleteLine(ctx, auctionID, ch.ProductID)
	}
	if ch.Delta == 0 && ch.Existed {
		return nil
	}
	return uc.repo.SaveLine(ctx, auctionID, domain.Line{ProductID: ch.ProductID, Quantity: ch.Quantity})
}
