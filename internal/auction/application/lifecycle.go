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

// LifecycleUseCase runs the status changes of an existing auction: confirm,
// cancel, close, reopen and extend.
type LifecycleUseCase struct {
	repo      domain.AuctionRepository
	inventory domain.Inventory
	tx        db.Transactor
	events    EventSink
	now       func() time.Time
}

func NewLifecycleUseCase(repo domain.AuctionRepository, inventory domain.Inventory, tx db.Transactor, events EventSink, now func() time.Time) *LifecycleUseCase {
	return &LifecycleUseCase{repo: repo, inventory: inventory, tx: tx, events: events, now: now}
}

type mutation struct {
	action    domain.Action
	authorize func(a *domain.Auction) error
	apply     func(ctx context.Context, a *domain.Auction, now time.Time) error
}

// run loads and locks the auction, authorizes, applies and persists the
// change and records its event, in one unit of work.
func (uc *LifecycleUseCase) run(ctx context.Context, auctionID uuid.UUID, m mutation) error {
	now := uc.now()

	var event domain.Event
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		auction, err := uc.repo.GetForUpdate(ctx, auctionID)
		if err != nil {
			return err
		}
		if m.authorize != nil {
			if err := m.authorize(auction); err != nil {
				return err
			}
		}
		if err := m.apply(ctx, auction, now); err != nil {
			return err
		}
		if err := uc.repo.Update(ctx, auction); err != nil {
			log.Error("LifecycleUseCase: Failed to save auction",
				zap.String("auctionID", auctionID.String()),
				zap.String("action", string(m.action)),
				zap.Error(err),
			)
			return err
		}
		event, err = uc.events.record(ctx, auction, m.action, now)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s auction use case: auction %s: %w", m.action, auctionID, err)
	}
	uc.events.publish(event)
	return nil
}

func sellerOrAdmin(actor identity.Actor) func(*domain.Auction) error {
	return func(a *domain.Auction) error {
		if actor.IsAdmin() || a.OwnedBy(actor.UserID) {
			return nil
		}
		return domain.ErrAuctionNotSeller
	}
}

func sellerOnly(actor identity.Actor) func(*domain.Auction) error {
	return func(a *domain.Auction) error {
		if a.OwnedBy(actor.UserID) {
			return nil
		}
		return domain.ErrAuctionNotSeller
	}
}

// Confirm is an admin operation, the route enforces the role.
func (uc *LifecycleUseCase) Confirm(ctx context.Context, auctionID uuid.UUID) error {
	return uc.run(ctx, auctionID, mutation{
		action: domain.ActionConfirm,
		apply: func(_ context.Context, a *domain.Auction, now time.Time) error {
			return a.Confirm(now)
		},
	})
}

// Cancel restores the stock of every reserved line.
func (uc *LifecycleUseCase) Cancel(ctx context.Context, auctionID uuid.UUID, reason string) error {
	return uc.run(ctx, auctionID, mutation{
		action: domain.ActionCancel,
		apply: func(ctx context.Context, a *domain.Auction, now time.Time) error {
			if err := a.Cancel(now, reason); err != nil {
				return err
			}
			for _, l := range a.Lines {
				if err := uc.inventory.IncrementStock(ctx, l.ProductID, l.Quantity); err != nil {
					return fmt.Errorf("restore product %s: %w", l.ProductID, err)
				}
			}
			return nil
		},
	})
}

func (uc *LifecycleUseCase) Close(ctx context.Context, actor identity.Actor, auctionID uuid.UUID) error {
	return uc.run(ctx, auctionID, mutation{
		action:    domain.ActionClose,
		authorize: sellerOrAdmin(actor),
		apply: func(_ context.Context, a *domain.Auction, now time.Time) error {
			return a.Close(now)
		},
	})
}

func (uc *LifecycleUseCase) Reopen(ctx context.Context, actor identity.Actor, auctionID uuid.UUID) error {
	return uc.run(ctx, auctionID, mutation{
		action:    domain.ActionReopen,
		authorize: sellerOrAdmin(actor),
		apply: func(_ context.Context, a *domain.Auction, now time.Time) error {
			return a.Reopen(now)
		},
	})
}

func (uc *LifecycleUseCase) Extend(ctx context.Context, actor identity.Actor, auctionID uuid.UUID, newEndTime time.Time) error {
	return uc.run(ctx, auctionID, mutation{
		action:    domain.ActionExtend,
		authorize: sellerOnly(actor),
		apply: func(_ context.Context, a *domain.Auction, now time.Time) error {
			return a.Extend(now, newEndTime)
		},
	})
}
