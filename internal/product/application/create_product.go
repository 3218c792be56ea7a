package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/product/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/shared/logger"
	"github.com/cristianortiz/bidmarket/internal/shared/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

type CreateProductUseCase struct {
	repo       domain.ProductRepository
	categories domain.CategoryRepository
	files      storage.FileStorage
	tx         db.Transactor
}

func NewCreateProductUseCase(repo domain.ProductRepository, categories domain.CategoryRepository, files storage.FileStorage, tx db.Transactor) *CreateProductUseCase {
	return &CreateProductUseCase{repo: repo, categories: categories, files: files, tx: tx}
}

func (uc *CreateProductUseCase) Execute(ctx context.Context, actor identity.Actor, in CreateProductDTO, images []storage.File) (*CreatedProductDTO, error) {
	if err := ensureCategories(ctx, uc.categories, in.CategoryIDs); err != nil {
		return nil, fmt.Errorf("create product use case: %w", err)
	}

	keys, err := uploadImages(ctx, uc.files, images)
	if err != nil {
		return nil, fmt.Errorf("create product use case: upload images: %w", err)
	}

	p := domain.NewProduct(actor.UserID, in.Name, in.Description, in.StockQuantity, in.CategoryIDs, keys)
	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return uc.repo.Create(ctx, p)
	})
	if err != nil {
		removeImages(ctx, uc.files, keys)
		return nil, fmt.Errorf("create product use case: %w", err)
	}

	log.Info("Product created",
		zap.String("productID", p.ID.String()),
		zap.String("sellerID", actor.UserID.String()),
		zap.Int("images", len(keys)),
	)
	return &CreatedProductDTO{ProductID: p.ID}, nil
}

func ensureCategories(ctx context.Context, categories domain.CategoryRepository, ids []uuid.UUID) error {
	unique := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	n, err := categories.CountExisting(ctx, ids)
	if err != nil {
		return err
	}
	if n != len(unique) {
		return domain.ErrCategoriesNotFound
	}
	return nil
}
