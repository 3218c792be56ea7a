package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AuctionRepository interface {
	Create(ctx context.Context, a *Auction) error
	// GetForUpdate loads the auction with its lines, locking the row when ctx
	// carries a transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Auction, error)
	Update(ctx context.Context, a *Auction) error
	SaveLine(ctx context.Context, auctionID uuid.UUID, line Line) error
	DeleteLine(ctx context.Context, auctionID, productID uuid.UUID) error
	GetDetail(ctx context.Context, id uuid.UUID) (*Detail, error)
	Search(ctx context.Context, f SearchFilter) ([]Summary, int, error)
}

// Inventory is the product stock seen from the auction context. Every call
// joins the unit of work carried by ctx.
type Inventory interface {
	// EnsureOwned fails with the product not-found error unless every id
	// exists and belongs to sellerID.
	EnsureOwned(ctx context.Context, sellerID uuid.UUID, productIDs []uuid.UUID) error
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error
	IncrementStock(ctx context.Context, productID uuid.UUID, quantity int) error
}

// EventRecorder persists an event inside the caller's transaction.
type EventRecorder interface {
	Record(ctx context.Context, e Event) error
}

// Broadcaster pushes a committed event to live subscribers. It must not block.
type Broadcaster interface {
	Broadcast(e Event)
}

// Detail is the read model of GET /auctions/:id.
type Detail struct {
	Auction
	SellerName  string
	WinnerName  *string
	BidCount    int
	LatestBidAt *time.Time
	Products    []DetailProduct
}

type DetailProduct struct {
	ProductID   uuid.UUID
	Name        string
	Description string
	Quantity    int
	Categories  []string
	ImageKeys   []string
}

// Summary is a search result row.
type Summary struct {
	ID           uuid.UUID
	Title        string
	SellerID     uuid.UUID
	SellerName   string
	StartTime    time.Time
	EndTime      time.Time
	Status       Status
	CurrentPrice decimal.Decimal
}

// SearchFilter holds the optional filters of an auction search. StartFrom and
// StartTo both bound the auction start time.
type SearchFilter struct {
	SellerID      *uuid.UUID
	Title         string
	Status        *Status
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	StartFrom     *time.Time
	StartTo       *time.Time
	CategoryTypes []string
	Limit         int
	Offset        int
}
