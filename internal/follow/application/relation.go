package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/follow/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/shared/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var log = logger.GetLogger()

type FollowDTO struct {
	FollowID   uuid.UUID     `json:"followId"`
	FollowerID uuid.UUID     `json:"followerId"`
	SellerID   uuid.UUID     `json:"sellerId"`
	Status     domain.Status `json:"status"`
}

// RelationUseCase applies a follow action of the caller towards another user.
type RelationUseCase struct {
	repo    domain.FollowRepository
	parties domain.PartyLoader
	tx      db.Transactor
}

func NewRelationUseCase(repo domain.FollowRepository, parties domain.PartyLoader, tx db.Transactor) *RelationUseCase {
	return &RelationUseCase{repo: repo, parties: parties, tx: tx}
}

// Execute resolves who is the bidder and who the seller from the action:
// follow and unfollow come from the bidder, every other action from the seller.
func (uc *RelationUseCase) Execute(ctx context.Context, actor identity.Actor, otherID uuid.UUID, action domain.Action) (*FollowDTO, error) {
	bidderID, sellerID := actor.UserID, otherID
	if action.BySeller() {
		bidderID, sellerID = otherID, actor.UserID
	}

	if err := domain.CheckSelf(action, bidderID, sellerID); err != nil {
		return nil, err
	}
	if err := uc.checkParties(ctx, bidderID, sellerID); err != nil {
		return nil, err
	}

	var follow *domain.Follow
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		follow, err = uc.repo.GetForUpdate(ctx, bidderID, sellerID)
		if err != nil {
			return err
		}
		next, err := domain.Transition(follow.Current(), action)
		if err != nil {
			return err
		}
		if follow == nil {
			follow = domain.NewFollow(bidderID, sellerID)
		}
		follow.Status = next
		return uc.repo.Save(ctx, follow)
	})
	if err != nil {
		return nil, fmt.Errorf("%s use case: %w", action, err)
	}

	log.Info("Follow relation changed",
		zap.String("action", string(action)),
		zap.String("followerID", bidderID.String()),
		zap.String("sellerID", sellerID.String()),
		zap.String("status", string(follow.Status)),
	)
	return &FollowDTO{FollowID: follow.ID, FollowerID: follow.FollowerID, SellerID: follow.SellerID, Status: follow.Status}, nil
}

func (uc *RelationUseCase) checkParties(ctx context.Context, bidderID, sellerID uuid.UUID) error {
	var bidder, seller *domain.Party
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		bidder, err = uc.parties.LoadParty(gctx, bidderID)
		return err
	})
	g.Go(func() (err error) {
		seller, err = uc.parties.LoadParty(gctx, sellerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load follow parties: %w", err)
	}
	return domain.CheckParties(bidder, seller)
}
