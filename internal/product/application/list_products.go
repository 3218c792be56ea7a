package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/product/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/shared/pagination"
)

type ListProductsUseCase struct {
	repo domain.ProductRepository
	urls URLResolver
}

func NewListProductsUseCase(repo domain.ProductRepository, urls URLResolver) *ListProductsUseCase {
	return &ListProductsUseCase{repo: repo, urls: urls}
}

// Execute lists a seller's products. Other viewers only see ACTIVE ones,
// whatever status they asked for.
func (uc *ListProductsUseCase) Execute(ctx context.Context, viewer identity.Actor, in ListProductsDTO) (pagination.Result[ProductDTO], error) {
	page := in.Page.Normalize()
	status := in.Status
	if viewer.UserID != in.SellerID {
		active := domain.StatusActive
		status = &active
	}

	items, total, err := uc.repo.ListBySeller(ctx, domain.ListFilter{
		SellerID:   in.SellerID,
		Name:       in.Name,
		CategoryID: in.CategoryID,
		Status:     status,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return pagination.Result[ProductDTO]{}, fmt.Errorf("list products use case: %w", err)
	}

	out := make([]ProductDTO, 0, len(items))
	for i := range items {
		out = append(out, toProductDTO(&items[i], uc.urls))
	}
	return pagination.NewResult(out, total, page), nil
}
