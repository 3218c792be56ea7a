package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/product/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/shared/storage"
)

type UpdateProductUseCase struct {
	repo       domain.ProductRepository
	categories domain.CategoryRepository
	files      storage.FileStorage
	tx         db.Transactor
}

func NewUpdateProductUseCase(repo domain.ProductRepository, categories domain.CategoryRepository, files storage.FileStorage, tx db.Transactor) *UpdateProductUseCase {
	return &UpdateProductUseCase{repo: repo, categories: categories, files: files, tx: tx}
}

// Execute replaces categories and images only when new ones are given. The
// files of replaced images are deleted once the change is committed.
func (uc *UpdateProductUseCase) Execute(ctx context.Context, actor identity.Actor, in UpdateProductDTO, images []storage.File) error {
	p, err := uc.repo.GetByID(ctx, in.ProductID)
	if err != nil {
		return fmt.Errorf("update product use case: %w", err)
	}
	if p.SellerID != actor.UserID {
		return fmt.Errorf("update product use case: %w", domain.ErrProductNotFound)
	}
	err = p.Apply(domain.Edit{
		Name:          in.Name,
		Description:   in.Description,
		StockQuantity: in.StockQuantity,
		Status:        in.Status,
	})
	if err != nil {
		return fmt.Errorf("update product use case: %w", err)
	}
	if len(in.CategoryIDs) > 0 {
		if err := ensureCategories(ctx, uc.categories, in.CategoryIDs); err != nil {
			return fmt.Errorf("update product use case: %w", err)
		}
	}

	var newImages []domain.Image
	if len(images) > 0 {
		keys, err := uploadImages(ctx, uc.files, images)
		if err != nil {
			return fmt.Errorf("update product use case: upload images: %w", err)
		}
		newImages = domain.NewImages(keys)
	}

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.repo.Update(ctx, p); err != nil {
			return err
		}
		if len(in.CategoryIDs) > 0 {
			if err := uc.repo.ReplaceCategories(ctx, p.ID, in.CategoryIDs); err != nil {
				return err
			}
		}
		if newImages != nil {
			return uc.repo.ReplaceImages(ctx, p.ID, newImages)
		}
		return nil
	})
	if err != nil {
		removeImages(ctx, uc.files, imageKeys(newImages))
		return fmt.Errorf("update product use case: %w", err)
	}

	if newImages != nil {
		removeImages(ctx, uc.files, imageKeys(p.Images))
	}
	return nil
}

func imageKeys(images []domain.Image) []string {
	keys := make([]string, 0, len(images))
	for _, img := range images {
		keys = append(keys, img.Key)
	}
	return keys
}
