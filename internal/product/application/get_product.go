package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/product/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
)

type GetProductUseCase struct {
	repo domain.ProductRepository
	urls URLResolver
}

func NewGetProductUseCase(repo domain.ProductRepository, urls URLResolver) *GetProductUseCase {
	return &GetProductUseCase{repo: repo, urls: urls}
}

// Execute hides products that are not ACTIVE from everyone but their seller.
// viewer may be anonymous.
func (uc *GetProductUseCase) Execute(ctx context.Context, viewer identity.Actor, in GetProductDTO) (*ProductDTO, error) {
	p, err := uc.repo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product use case: %w", err)
	}
	if !p.VisibleTo(viewer.UserID) {
		return nil, fmt.Errorf("get product use case: %w", domain.ErrProductNotFound)
	}
	out := toProductDTO(p, uc.urls)
	out.Seller = &SellerDTO{UserID: p.SellerID, Username: p.SellerName}
	return &out, nil
}
