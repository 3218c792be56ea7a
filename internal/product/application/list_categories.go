package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/product/domain"
)

type ListCategoriesUseCase struct {
	categories domain.CategoryRepository
}

func NewListCategoriesUseCase(categories domain.CategoryRepository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{categories: categories}
}

func (uc *ListCategoriesUseCase) Execute(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := uc.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories use case: %w", err)
	}
	return toCategoryDTOs(categories), nil
}
