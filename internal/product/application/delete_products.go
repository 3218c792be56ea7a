package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/product/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/shared/storage"
	"github.com/google/uuid"
)

type DeleteProductsUseCase struct {
	repo  domain.ProductRepository
	files storage.FileStorage
	tx    db.Transactor
}

func NewDeleteProductsUseCase(repo domain.ProductRepository, files storage.FileStorage, tx db.Transactor) *DeleteProductsUseCase {
	return &DeleteProductsUseCase{repo: repo, files: files, tx: tx}
}

// Execute deletes all of ids or none: one missing or foreign id fails the
// whole call.
func (uc *DeleteProductsUseCase) Execute(ctx context.Context, actor identity.Actor, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	unique := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	var keys []string
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		owned, err := uc.repo.FindOwned(ctx, actor.UserID, ids)
		if err != nil {
			return err
		}
		if len(owned) != len(unique) {
			return domain.ErrProductNotFound
		}
		for _, p := range owned {
			keys = append(keys, imageKeys(p.Images)...)
		}
		return uc.repo.DeleteMany(ctx, actor.UserID, ids)
	})
	if err != nil {
		return fmt.Errorf("delete products use case: %w", err)
	}

	removeImages(ctx, uc.files, keys)
	return nil
}
