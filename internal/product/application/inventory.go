package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/product/domain"
	"github.com/google/uuid"
)

// Inventory adjusts stock on behalf of auctions. It runs inside the caller's
// unit of work and does not open one of its own.
type Inventory struct {
	repo domain.ProductRepository
}

func NewInventory(repo domain.ProductRepository) *Inventory {
	return &Inventory{repo: repo}
}

// EnsureOwned fails with ErrProductNotFound unless every id exists and
// belongs to sellerID.
func (inv *Inventory) EnsureOwned(ctx context.Context, sellerID uuid.UUID, ids []uuid.UUID) error {
	unique := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	owned, err := inv.repo.FindOwned(ctx, sellerID, ids)
	if err != nil {
		return fmt.Errorf("inventory: %w", err)
	}
	if len(owned) != len(unique) {
		return domain.ErrProductNotFound
	}
	return nil
}

func (inv *Inventory) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	if err := inv.repo.DecrementStock(ctx, productID, qty); err != nil {
		return fmt.Errorf("inventory: product %s: %w", productID, err)
	}
	return nil
}

func (inv *Inventory) IncrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	if err := inv.repo.IncrementStock(ctx, productID, qty); err != nil {
		return fmt.Errorf("inventory: product %s: %w", productID, err)
	}
	return nil
}
