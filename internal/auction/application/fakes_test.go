package application

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/cristianortiz/bidmarket/internal/auction/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/google/uuid"
)

var (
	errProductNotFound   = apperror.New(http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
	errInsufficientStock = apperror.New(http.StatusBadRequest, "INSUFFICIENT_STOCK", "Not enough stock")
)

// memStore is an in-memory auction repository, inventory and event recorder.
// memTx snapshots it so a failed unit of work leaves no trace.
type memStore struct {
	auctions map[uuid.UUID]*domain.Auction
	stock    map[uuid.UUID]int
	owners   map[uuid.UUID]uuid.UUID
	events   []domain.Event

	searchCalls []domain.SearchFilter
	searchRows  []domain.Summary
	searchTotal int
}

func newMemStore() *memStore {
	return &memStore{
		auctions: map[uuid.UUID]*domain.Auction{},
		stock:    map[uuid.UUID]int{},
		owners:   map[uuid.UUID]uuid.UUID{},
	}
}

func (s *memStore) addProduct(seller uuid.UUID, stock int) uuid.UUID {
	id := uuid.New()
	s.owners[id] = seller
	s.stock[id] = stock
	return id
}

func copyAuction(a *domain.Auction) *domain.Auction {
	c := *a
	c.Lines = slices.Clone(a.Lines)
	return &c
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.auctions {
		c.auctions[k] = copyAuction(v)
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.owners {
		c.owners[k] = v
	}
	c.events = slices.Clone(s.events)
	return c
}

func (s *memStore) restore(from *memStore) {
	s.auctions, s.stock, s.owners, s.events = from.auctions, from.stock, from.owners, from.events
}

type memTx struct {
	store     *memStore
	rollbacks int
}

func (t *memTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := t.store.clone()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		t.rollbacks++
		return err
	}
	return nil
}

func (s *memStore) Create(_ context.Context, a *domain.Auction) error {
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	s.auctions[a.ID] = copyAuction(a)
	return nil
}

func (s *memStore) GetForUpdate(_ context.Context, id uuid.UUID) (*domain.Auction, error) {
	a, ok := s.auctions[id]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	return copyAuction(a), nil
}

func (s *memStore) Update(_ context.Context, a *domain.Auction) error {
	stored, ok := s.auctions[a.ID]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	lines := stored.Lines
	c := copyAuction(a)
	// lines only change through SaveLine/DeleteLine
	c.Lines = lines
	s.auctions[a.ID] = c
	return nil
}

func (s *memStore) SaveLine(_ context.Context, auctionID uuid.UUID, line domain.Line) error {
	a := s.auctions[auctionID]
	for i, l := range a.Lines {
		if l.ProductID == line.ProductID {
			a.Lines[i].Quantity = line.Quantity
			return nil
		}
	}
	a.Lines = append(a.Lines, line)
	return nil
}

func (s *memStore) DeleteLine(_ context.Context, auctionID, productID uuid.UUID) error {
	a := s.auctions[auctionID]
	a.Lines = slices.DeleteFunc(a.Lines, func(l domain.Line) bool { return l.ProductID == productID })
	return nil
}

func (s *memStore) GetDetail(_ context.Context, id uuid.UUID) (*domain.Detail, error) {
	a, ok := s.auctions[id]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	d := &domain.Detail{Auction: *copyAuction(a), SellerName: "seller"}
	for _, l := range a.Lines {
		d.Products = append(d.Products, domain.DetailProduct{
			ProductID: l.ProductID,
			Name:      "product",
			Quantity:  l.Quantity,
			ImageKeys: []string{"products/" + l.ProductID.String() + ".png"},
		})
	}
	return d, nil
}

func (s *memStore) Search(_ context.Context, f domain.SearchFilter) ([]domain.Summary, int, error) {
	s.searchCalls = append(s.searchCalls, f)
	return s.searchRows, s.searchTotal, nil
}

func (s *memStore) EnsureOwned(_ context.Context, sellerID uuid.UUID, ids []uuid.UUID) error {
	for _, id := range ids {
		if owner, ok := s.owners[id]; !ok || owner != sellerID {
			return errProductNotFound
		}
	}
	return nil
}

func (s *memStore) DecrementStock(_ context.Context, productID uuid.UUID, qty int) error {
	if s.stock[productID] < qty {
		return errInsufficientStock
	}
	s.stock[productID] -= qty
	return nil
}

func (s *memStore) IncrementStock(_ context.Context, productID uuid.UUID, qty int) error {
	if _, ok := s.owners[productID]; !ok {
		return errProductNotFound
	}
	s.stock[productID] += qty
	return nil
}

func (s *memStore) Record(_ context.Context, e domain.Event) error {
	s.events = append(s.events, e)
	return nil
}

func (s *memStore) lines(auctionID uuid.UUID) map[uuid.UUID]int {
	out := map[uuid.UUID]int{}
	for _, l := range s.auctions[auctionID].Lines {
		out[l.ProductID] = l.Quantity
	}
	return out
}

type recordingBroadcaster struct {
	events []domain.Event
}

func (b *recordingBroadcaster) Broadcast(e domain.Event) {
	b.events = append(b.events, e)
}

type fixture struct {
	store       *memStore
	tx          *memTx
	broadcaster *recordingBroadcaster
	now         time.Time
	service     AuctionService
}

func newFixture() *fixture {
	f := &fixture{
		store:       newMemStore(),
		broadcaster: &recordingBroadcaster{},
		now:         time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC),
	}
	f.tx = &memTx{store: f.store}
	clock := func() time.Time { return f.now }
	sink := NewEventSink(f.store, f.broadcaster, nil)

	f.service = NewAuctionService(
		NewCreateAuctionUseCase(f.store, f.store, f.tx, sink, clock),
		NewUpdateAuctionUseCase(f.store, f.store, f.tx, sink, clock),
		NewLifecycleUseCase(f.store, f.store, f.tx, sink, clock),
		NewGetAuctionDetailUseCase(f.store, nil),
		NewSearchAuctionsUseCase(f.store),
	)
	return f
}

// seed stores an auction directly, bypassing the create use case.
func (f *fixture) seed(seller uuid.UUID, status domain.Status, start, end time.Time, lines ...domain.Line) *domain.Auction {
	a := domain.NewAuction(seller, "seeded", start, end, decimalOf("10.00"), decimalOf("1.00"), lines)
	a.Status = status
	f.store.auctions[a.ID] = copyAuction(a)
	return a
}
