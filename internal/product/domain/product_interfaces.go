package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository joins the unit of work carried by ctx.
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	// GetByID loads the product with its seller name, categories and images.
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Update(ctx context.Context, p *Product) error
	ReplaceCategories(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error
	ReplaceImages(ctx context.Context, productID uuid.UUID, images []Image) error
	ListBySeller(ctx context.Context, f ListFilter) ([]Product, int, error)
	// FindOwned returns the products of ids that belong to sellerID, with images.
	FindOwned(ctx context.Context, sellerID uuid.UUID, ids []uuid.UUID) ([]Product, error)
	DeleteMany(ctx context.Context, sellerID uuid.UUID, ids []uuid.UUID) error

	// DecrementStock fails with ErrInsufficientStock when fewer than qty units
	// are left, and with ErrProductNotFound when the product is gone.
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error
	IncrementStock(ctx context.Context, productID uuid.UUID, qty int) error
}

type CategoryRepository interface {
	List(ctx context.Context) ([]Category, error)
	// CountExisting returns how many of ids exist.
	CountExisting(ctx context.Context, ids []uuid.UUID) (int, error)
}

type ListFilter struct {
	SellerID   uuid.UUID
	Name       string
	CategoryID *uuid.UUID
	Status     *Status
	Limit      int
	Offset     int
}
