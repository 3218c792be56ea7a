package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/auction/domain"
	"github.com/google/uuid"
)

// URLResolver turns a stored object key into a public URL.
type URLResolver interface {
	URL(key string) string
}

type GetAuctionDetailUseCase struct {
	repo domain.AuctionRepository
	urls URLResolver
}

func NewGetAuctionDetailUseCase(repo domain.AuctionRepository, urls URLResolver) *GetAuctionDetailUseCase {
	return &GetAuctionDetailUseCase{repo: repo, urls: urls}
}

func (uc *GetAuctionDetailUseCase) Execute(ctx context.Context, auctionID uuid.UUID) (*AuctionDetailDTO, error) {
	d, err := uc.repo.GetDetail(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("get auction detail use case: auction %s: %w", auctionID, err)
	}

	products := make([]AuctionProductDTO, 0, len(d.Products))
	for _, p := range d.Products {
		images := make([]string, 0, len(p.ImageKeys))
		for _, key := range p.ImageKeys {
			images = append(images, uc.resolve(key))
		}
		categories := p.Categories
		if categories == nil {
			categories = []string{}
		}
		products = append(products, AuctionProductDTO{
			ProductID:   p.ProductID,
			Name:        p.Name,
			Description: p.Description,
			Quantity:    p.Quantity,
			Categories:  categories,
			Images:      images,
		})
	}

	return &AuctionDetailDTO{
		AuctionID:           d.ID,
		Title:               d.Title,
		StartTime:           d.StartTime,
		EndTime:             d.EndTime,
		StartingPrice:       money(d.StartingPrice),
		CurrentPrice:        money(d.CurrentPrice),
		MinimumBidIncrement: money(d.MinimumBidIncrement),
		SellerID:            d.SellerID,
		SellerName:          d.SellerName,
		Status:              d.Status,
		LastBidTime:         d.LatestBidAt,
		WinnerID:            d.WinnerID,
		WinnerName:          d.WinnerName,
		CreatedAt:           d.CreatedAt,
		BidCount:            d.BidCount,
		Products:            products,
	}, nil
}

func (uc *GetAuctionDetailUseCase) resolve(key string) string {
	if uc.urls == nil {
		return key
	}
	return uc.urls.URL(key)
}
