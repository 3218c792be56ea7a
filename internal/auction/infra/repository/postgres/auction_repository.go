package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/auction/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/cristianortiz/bidmarket/internal/shared/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// AuctionRepository implements domain.AuctionRepository on PostgreSQL. Every
// method joins the transaction carried by ctx, if any.
type AuctionRepository struct {
	pool *pgxpool.Pool
}

func NewAuctionRepository(pool *pgxpool.Pool) *AuctionRepository {
	return &AuctionRepository{pool: pool}
}

const auctionColumns = `
	auction_id, seller_id, winner_id, title, start_time, end_time,
	starting_price, current_price, minimum_bid_increment, status,
	last_bid_time, cancel_reason, created_at, updated_at`

func scanAuction(row pgx.Row, a *domain.Auction) error {
	return row.Scan(
		&a.ID,
		&a.SellerID,
		&a.WinnerID,
		&a.Title,
		&a.StartTime,
		&a.EndTime,
		&a.StartingPrice,
		&a.CurrentPrice,
		&a.MinimumBidIncrement,
		&a.Status,
		&a.LastBidTime,
		&a.CancelReason,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}

// Create inserts the auction and its lines.
func (r *AuctionRepository) Create(ctx context.Context, a *domain.Auction) error {
	conn := db.Conn(ctx, r.pool)
	query := `
		INSERT INTO auctions (auction_id, seller_id, title, start_time, end_time,
			starting_price, current_price, minimum_bid_increment, status, last_bid_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`
	err := conn.QueryRow(ctx, query,
		a.ID,
		a.SellerID,
		a.Title,
		a.StartTime,
		a.EndTime,
		a.StartingPrice,
		a.CurrentPrice,
		a.MinimumBidIncrement,
		a.Status,
		a.LastBidTime,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		log.Error("AuctionRepository: Failed to insert auction", zap.String("auctionID", a.ID.String()), zap.Error(err))
		return fmt.Errorf("insert auction: %w", err)
	}

	for _, l := range a.Lines {
		if err := r.SaveLine(ctx, a.ID, l); err != nil {
			return err
		}
	}
	return nil
}

// GetForUpdate loads the auction with its lines. Inside a transaction the row
// stays locked until commit.
func (r *AuctionRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Auction, error) {
	conn := db.Conn(ctx, r.pool)
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE auction_id = $1`
	if _, ok := db.TxFromContext(ctx); ok {
		query += ` FOR UPDATE`
	}

	a := &domain.Auction{}
	if err := scanAuction(conn.QueryRow(ctx, query, id), a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAuctionNotFound
		}
		return nil, fmt.Errorf("select auction %s: %w", id, err)
	}

	rows, err := conn.Query(ctx, `
		SELECT product_id, quantity
		FROM auction_products
		WHERE auction_id = $1
		ORDER BY product_id`, id)
	if err != nil {
		return nil, fmt.Errorf("select auction lines: %w", err)
	}
	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Line, error) {
		var l domain.Line
		err := row.Scan(&l.ProductID, &l.Quantity)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan auction lines: %w", err)
	}
	a.Lines = lines
	return a, nil
}

// Update persists the mutable columns. Lines go through SaveLine/DeleteLine.
func (r *AuctionRepository) Update(ctx context.Context, a *domain.Auction) error {
	query := `
		UPDATE auctions
		SET title = $2,
			start_time = $3,
			end_time = $4,
			starting_price = $5,
			current_price = $6,
			minimum_bid_increment = $7,
			status = $8,
			last_bid_time = $9,
			cancel_reason = $10,
			winner_id = $11,
			updated_at = NOW()
		WHERE auction_id = $1
		RETURNING updated_at`
	err := db.Conn(ctx, r.pool).QueryRow(ctx, query,
		a.ID,
		a.Title,
		a.StartTime,
		a.EndTime,
		a.StartingPrice,
		a.CurrentPrice,
		a.MinimumBidIncrement,
		a.Status,
		a.LastBidTime,
		a.CancelReason,
		a.WinnerID,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrAuctionNotFound
		}
		return fmt.Errorf("update auction %s: %w", a.ID, err)
	}
	return nil
}

func (r *AuctionRepository) SaveLine(ctx context.Context, auctionID uuid.UUID, line domain.Line) error {
	query := `
		INSERT INTO auction_products (auction_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (auction_id, product_id) DO UPDATE
		SET quantity = EXCLUDED.quantity`
	if _, err := db.Conn(ctx, r.pool).Exec(ctx, query, auctionID, line.ProductID, line.Quantity); err != nil {
		return fmt.Errorf("save auction line %s: %w", line.ProductID, err)
	}
	return nil
}

func (r *AuctionRepository) DeleteLine(ctx context.Context, auctionID, productID uuid.UUID) error {
	query := `DELETE FROM auction_products WHERE auction_id = $1 AND product_id = $2`
	if _, err := db.Conn(ctx, r.pool).Exec(ctx, query, auctionID, productID); err != nil {
		return fmt.Errorf("delete auction line %s: %w", productID, err)
	}
	return nil
}

// GetDetail reads the auction with seller and winner names, bid statistics
// and its products.
func (r *AuctionRepository) GetDetail(ctx context.Context, id uuid.UUID) (*domain.Detail, error) {
	conn := db.Conn(ctx, r.pool)
	query := `
		SELECT a.auction_id, a.seller_id, a.winner_id, a.title, a.start_time, a.end_time,
			a.starting_price, a.current_price, a.minimum_bid_increment, a.status,
			a.last_bid_time, a.cancel_reason, a.created_at, a.updated_at,
			s.username, w.username,
			(SELECT COUNT(*) FROM bids b WHERE b.auction_id = a.auction_id),
			(SELECT MAX(b.created_at) FROM bids b WHERE b.auction_id = a.auction_id)
		FROM auctions a
		JOIN users s ON s.user_id = a.seller_id
		LEFT JOIN users w ON w.user_id = a.winner_id
		WHERE a.auction_id = $1`

	d := &domain.Detail{}
	err := conn.QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.SellerID,
		&d.WinnerID,
		&d.Title,
		&d.StartTime,
		&d.EndTime,
		&d.StartingPrice,
		&d.CurrentPrice,
		&d.MinimumBidIncrement,
		&d.Status,
		&d.LastBidTime,
		&d.CancelReason,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.SellerName,
		&d.WinnerName,
		&d.BidCount,
		&d.LatestBidAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAuctionNotFound
		}
		return nil, fmt.Errorf("select auction detail %s: %w", id, err)
	}

	rows, err := conn.Query(ctx, `
		SELECT p.product_id, p.name, COALESCE(p.description, ''), ap.quantity,
			COALESCE((SELECT array_agg(c.name ORDER BY c.name)
				FROM product_categories pc
				JOIN categories c ON c.category_id = pc.category_id
				WHERE pc.product_id = p.product_id), '{}'),
			COALESCE((SELECT array_agg(i.image_url ORDER BY i.is_primary DESC, i.created_at)
				FROM product_images i
				WHERE i.product_id = p.product_id), '{}')
		FROM auction_products ap
		JOIN products p ON p.product_id = ap.product_id
		WHERE ap.auction_id = $1
		ORDER BY p.name`, id)
	if err != nil {
		return nil, fmt.Errorf("select auction products: %w", err)
	}
	d.Products, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DetailProduct, error) {
		var p domain.DetailProduct
		err := row.Scan(&p.ProductID, &p.Name, &p.Description, &p.Quantity, &p.Categories, &p.ImageKeys)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan auction products: %w", err)
	}
	for _, p := range d.Products {
		d.Lines = append(d.Lines, domain.Line{ProductID: p.ProductID, Quantity: p.Quantity})
	}
	return d, nil
}

// Search returns one page of auction summaries and the total match count.
func (r *AuctionRepository) Search(ctx context.Context, f domain.SearchFilter) ([]domain.Summary, int, error) {
	conn := db.Conn(ctx, r.pool)
	q := buildSearchQuery(f)

	var total int
	if err := conn.QueryRow(ctx, q.count, q.args...).Scan(&total); err != nil {
		log.Error("AuctionRepository: Failed to count auctions", zap.Error(err))
		return nil, 0, fmt.Errorf("count auctions: %w", err)
	}

	rows, err := conn.Query(ctx, q.data, q.pageArgs()...)
	if err != nil {
		log.Error("AuctionRepository: Failed to search auctions", zap.Error(err))
		return nil, 0, fmt.Errorf("search auctions: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Summary, error) {
		var s domain.Summary
		err := row.Scan(&s.ID, &s.Title, &s.SellerID, &s.SellerName, &s.StartTime, &s.EndTime, &s.Status, &s.CurrentPrice)
		return s, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan auctions: %w", err)
	}
	return items, total, nil
}
