package application

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianortiz/bidmarket/internal/auction/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SearchAuctionsDTO carries the already parsed query filters. Nil means the
// filter is not applied.
type SearchAuctionsDTO struct {
	SellerID      *uuid.UUID
	Title         string
	Status        *domain.Status
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	StartTime     *time.Time
	EndTime       *time.Time
	CategoryTypes []string
	Page          pagination.Params
}

type SearchAuctionsUseCase struct {
	repo domain.AuctionRepository
}

func NewSearchAuctionsUseCase(repo domain.AuctionRepository) *SearchAuctionsUseCase {
	return &SearchAuctionsUseCase{repo: repo}
}

func (uc *SearchAuctionsUseCase) Execute(ctx context.Context, q SearchAuctionsDTO) (pagination.Result[AuctionListItemDTO], error) {
	page := q.Page.Normalize()
	rows, total, err := uc.repo.Search(ctx, domain.SearchFilter{
		SellerID:      q.SellerID,
		Title:         q.Title,
		Status:        q.Status,
		MinPrice:      q.MinPrice,
		MaxPrice:      q.MaxPrice,
		StartFrom:     q.StartTime,
		StartTo:       q.EndTime,
		CategoryTypes: q.CategoryTypes,
		Limit:         page.Limit,
		Offset:        page.Offset,
	})
	if err != nil {
		return pagination.Result[AuctionListItemDTO]{}, fmt.Errorf("search auctions use case: %w", err)
	}

	items := make([]AuctionListItemDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, AuctionListItemDTO{
			AuctionID:    r.ID,
			Title:        r.Title,
			SellerID:     r.SellerID,
			SellerName:   r.SellerName,
			StartTime:    r.StartTime,
			EndTime:      r.EndTime,
			Status:       r.Status,
			CurrentPrice: money(r.CurrentPrice),
		})
	}
	return pagination.NewResult(items, total, page), nil
}
