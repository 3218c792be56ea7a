package application

import (
	"context"
	"time"

	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/shared/pagination"
	"github.com/google/uuid"
)

// AuctionService exposes the auction use cases to the infra layer. The
// caller is always passed explicitly.
type AuctionService interface {
	CreateAuction(ctx context.Context, actor identity.Actor, in AuctionInputDTO) (*CreatedAuctionDTO, error)
	UpdateAuction(ctx context.Context, actor identity.Actor, auctionID uuid.UUID, in AuctionInputDTO) error
	GetAuctionDetail(ctx context.Context, auctionID uuid.UUID) (*AuctionDetailDTO, error)
	SearchAuctions(ctx context.Context, q SearchAuctionsDTO) (pagination.Result[AuctionListItemDTO], error)
	ConfirmAuction(ctx context.Context, auctionID uuid.UUID) error
	CancelAuction(ctx context.Context, auctionID uuid.UUID, reason string) error
	CloseAuction(ctx context.Context, actor identity.Actor, auctionID uuid.UUID) error
	ReopenAuction(ctx context.Context, actor identity.Actor, auctionID uuid.UUID) error
	ExtendAuction(ctx context.Context, actor identity.Actor, auctionID uuid.UUID, newEndTime time.Time) error
}

type auctionService struct {
	createUC    *CreateAuctionUseCase
	updateUC    *UpdateAuctionUseCase
	lifecycleUC *LifecycleUseCase
	detailUC    *GetAuctionDetailUseCase
	searchUC    *SearchAuctionsUseCase
}

func NewAuctionService(
	createUC *CreateAuctionUseCase,
	updateUC *UpdateAuctionUseCase,
	lifecycleUC *LifecycleUseCase,
	detailUC *GetAuctionDetailUseCase,
	searchUC *SearchAuctionsUseCase,
) AuctionService {
	return &auctionService{
		createUC:    createUC,
		updateUC:    updateUC,
		lifecycleUC: lifecycleUC,
		detailUC:    detailUC,
		searchUC:    searchUC,
	}
}

func (s *auctionService) CreateAuction(ctx context.Context, actor identity.Actor, in AuctionInputDTO) (*CreatedAuctionDTO, error) {
	return s.createUC.Execute(ctx, actor, in)
}

func (s *auctionService) UpdateAuction(ctx context.Context, actor identity.Actor, auctionID uuid.UUID, in AuctionInputDTO) error {
	return s.updateUC.Execute(ctx, actor, auctionID, in)
}

func (s *auctionService) GetAuctionDetail(ctx context.Context, auctionID uuid.UUID) (*AuctionDetailDTO, error) {
	return s.detailUC.Execute(ctx, auctionID)
}

func (s *auctionService) SearchAuctions(ctx context.Context, q SearchAuctionsDTO) (pagination.Result[AuctionListItemDTO], error) {
	return s.searchUC.Execute(ctx, q)
}

func (s *auctionService) ConfirmAuction(ctx context.Context, auctionID uuid.UUID) error {
	return s.lifecycleUC.Confirm(ctx, auctionID)
}

func (s *auctionService) CancelAuction(ctx context.Context, auctionID uuid.UUID, reason string) error {
	return s.lifecycleUC.Cancel(ctx, auctionID, reason)
}

func (s *auctionService) CloseAuction(ctx context.Context, actor identity.Actor, auctionID uuid.UUID) error {
	return s.lifecycleUC.Close(ctx, actor, auctionID)
}

func (s *auctionService) ReopenAuction(ctx context.Context, actor identity.Actor, auctionID uuid.UUID) error {
	return s.lifecycleUC.Reopen(ctx, actor, auctionID)
}

func (s *auctionService) ExtendAuction(ctx context.Context, actor identity.Actor, auctionID uuid.UUID, newEndTime time.Time) error {
	return s.lifecycleUC.Extend(ctx, actor, auctionID, newEndTime)
}
