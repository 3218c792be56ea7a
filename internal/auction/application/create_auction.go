package application

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianortiz/bidmarket/internal/auction/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// CreateAuctionUseCase reserves stock for every line and stores a PENDING
// auction, all in one unit of work.
type CreateAuctionUseCase struct {
	repo      domain.AuctionRepository
	inventory domain.Inventory
	tx        db.Transactor
	events    EventSink
	now       func() time.Time
}

func NewCreateAuctionUseCase(repo domain.AuctionRepository, inventory domain.Inventory, tx db.Transactor, events EventSink, now func() time.Time) *CreateAuctionUseCase {
	return &CreateAuctionUseCase{repo: repo, inventory: inventory, tx: tx, events: events, now: now}
}

func (uc *CreateAuctionUseCase) Execute(ctx context.Context, actor identity.Actor, in AuctionInputDTO) (*CreatedAuctionDTO, error) {
	now := uc.now()
	if err := in.validate(now); err != nil {
		return nil, err
	}

	auction := domain.NewAuction(actor.UserID, in.Title, in.StartTime, in.EndTime, in.StartingPrice, in.MinimumBidIncrement, in.lines())

	var event domain.Event
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.inventory.EnsureOwned(ctx, actor.UserID, in.productIDs()); err != nil {
			return err
		}
		for _, l := range auction.Lines {
			if err := uc.inventory.DecrementStock(ctx, l.ProductID, l.Quantity); err != nil {
				return fmt.Errorf("reserve product %s: %w", l.ProductID, err)
			}
		}
		if err := uc.repo.Create(ctx, auction); err != nil {
			log.Error("CreateAuctionUseCase: Failed to insert auction",
				zap.String("sellerID", actor.UserID.String()),
				zap.Error(err),
			)
			return err
		}
		var err error
		event, err = uc.events.record(ctx, auction, domain.ActionCreate, now)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create auction use case: %w", err)
	}
	uc.events.publish(event)

	log.Info("Auction created",
		zap.String("auctionID", auction.ID.String()),
		zap.String("sellerID", actor.UserID.String()),
		zap.Int("lines", len(auction.Lines)),
	)

	return &CreatedAuctionDTO{
		AuctionID:           auction.ID,
		Title:               auction.Title,
		StartTime:           auction.StartTime,
		EndTime:             auction.EndTime,
		StartingPrice:       money(auction.StartingPrice),
		MinimumBidIncrement: money(auction.MinimumBidIncrement),
		Status:              auction.Status,
		Products:            in.Products,
	}, nil
}
