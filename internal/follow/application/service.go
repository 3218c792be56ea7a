package application

import (
	"context"

	"github.com/cristianortiz/bidmarket/internal/follow/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/google/uuid"
)

type FollowService interface {
	Follow(ctx context.Context, bidder identity.Actor, sellerID uuid.UUID) (*FollowDTO, error)
	Unfollow(ctx context.Context, bidder identity.Actor, sellerID uuid.UUID) (*FollowDTO, error)
	Accept(ctx context.Context, seller identity.Actor, bidderID uuid.UUID) (*FollowDTO, error)
	Decline(ctx context.Context, seller identity.Actor, bidderID uuid.UUID) (*FollowDTO, error)
	Block(ctx context.Context, seller identity.Actor, bidderID uuid.UUID) (*FollowDTO, error)
	Unblock(ctx context.Context, seller identity.Actor, bidderID uuid.UUID) (*FollowDTO, error)
}

type followService struct {
	relationUC *RelationUseCase
}

func NewFollowService(relationUC *RelationUseCase) FollowService {
	return &followService{relationUC: relationUC}
}

func (s *followService) Follow(ctx context.Context, bidder identity.Actor, sellerID uuid.UUID) (*FollowDTO, error) {
	return s.relationUC.Execute(ctx, bidder, sellerID, domain.ActionFollow)
}

func (s *followService) Unfollow(ctx context.Context, bidder identity.Actor, sellerID uuid.UUID) (*FollowDTO, error) {
	return s.relationUC.Execute(ctx, bidder, sellerID, domain.ActionUnfollow)
}

func (s *followService) Accept(ctx context.Context, seller identity.Actor, bidderID uuid.UUID) (*FollowDTO, error) {
	return s.relationUC.Execute(ctx, seller, bidderID, domain.ActionAccept)
}

func (s *followService) Decline(ctx context.Context, seller identity.Actor, bidderID uuid.UUID) (*FollowDTO, error) {
	return s.relationUC.Execute(ctx, seller, bidderID, domain.ActionDecline)
}

func (s *followService) Block(ctx context.Context, seller identity.Actor, bidderID uuid.UUID) (*FollowDTO, error) {
	return s.relationUC.Execute(ctx, seller, bidderID, domain.ActionBlock)
}

func (s *followService) Unblock(ctx context.Context, seller identity.Actor, bidderID uuid.UUID) (*FollowDTO, error) {
	return s.relationUC.Execute(ctx, seller, bidderID, domain.ActionUnblock)
}
