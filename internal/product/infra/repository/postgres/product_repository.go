package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cristianortiz/bidmarket/internal/product/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductRepository implements domain.ProductRepository and
// domain.CategoryRepository.
type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	conn := db.Conn(ctx, r.pool)
	err := conn.QueryRow(ctx, `
		INSERT INTO products (product_id, seller_id, name, description, stock_quantity, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		p.ID, p.SellerID, p.Name, p.Description, p.StockQuantity, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	if err := r.ReplaceCategories(ctx, p.ID, ids); err != nil {
		return err
	}
	return r.ReplaceImages(ctx, p.ID, p.Images)
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	conn := db.Conn(ctx, r.pool)
	p := &domain.Product{}
	err := conn.QueryRow(ctx, `
		SELECT p.product_id, p.seller_id, u.username, p.name, p.description,
			p.stock_quantity, p.status, p.created_at, p.updated_at
		FROM products p
		JOIN users u ON u.user_id = p.seller_id
		WHERE p.product_id = $1`, id,
	).Scan(&p.ID, &p.SellerID, &p.SellerName, &p.Name, &p.Description, &p.StockQuantity, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("select product %s: %w", id, err)
	}

	products := []domain.Product{*p}
	if err := r.loadRelations(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

// loadRelations fills categories and images of products with two queries.
func (r *ProductRepository) loadRelations(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	conn := db.Conn(ctx, r.pool)
	index := make(map[uuid.UUID]int, len(products))
	ids := make([]uuid.UUID, len(products))
	for i, p := range products {
		index[p.ID] = i
		ids[i] = p.ID
	}

	rows, err := conn.Query(ctx, `
		SELECT pc.product_id, c.category_id, c.name
		FROM product_categories pc
		JOIN categories c ON c.category_id = pc.category_id
		WHERE pc.product_id = ANY($1)
		ORDER BY c.name`, ids)
	if err != nil {
		return fmt.Errorf("select product categories: %w", err)
	}
	var (
		productID uuid.UUID
		category  domain.Category
	)
	_, err = pgx.ForEachRow(rows, []any{&productID, &category.ID, &category.Name}, func() error {
		i := index[productID]
		products[i].Categories = append(products[i].Categories, category)
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan product categories: %w", err)
	}

	rows, err = conn.Query(ctx, `
		SELECT product_id, image_id, image_url, is_primary
		FROM product_images
		WHERE product_id = ANY($1)
		ORDER BY is_primary DESC, created_at`, ids)
	if err != nil {
		return fmt.Errorf("select product images: %w", err)
	}
	var image domain.Image
	_, err = pgx.ForEachRow(rows, []any{&productID, &image.ID, &image.Key, &image.IsPrimary}, func() error {
		i := index[productID]
		products[i].Images = append(products[i].Images, image)
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan product images: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE products
		SET name = $2, description = $3, stock_quantity = $4, status = $5, updated_at = NOW()
		WHERE product_id = $1
		RETURNING updated_at`,
		p.ID, p.Name, p.Description, p.StockQuantity, p.Status,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("update product %s: %w", p.ID, err)
	}
	return nil
}

func (r *ProductRepository) ReplaceCategories(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error {
	conn := db.Conn(ctx, r.pool)
	if _, err := conn.Exec(ctx, `DELETE FROM product_categories WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("clear product categories: %w", err)
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	_, err := conn.Exec(ctx, `
		INSERT INTO product_categories (product_id, category_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING`, productID, categoryIDs)
	if err != nil {
		return fmt.Errorf("insert product categories: %w", err)
	}
	return nil
}

func (r *ProductRepository) ReplaceImages(ctx context.Context, productID uuid.UUID, images []domain.Image) error {
	conn := db.Conn(ctx, r.pool)
	if _, err := conn.Exec(ctx, `DELETE FROM product_images WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("clear product images: %w", err)
	}
	for _, img := range images {
		_, err := conn.Exec(ctx, `
			INSERT INTO product_images (image_id, product_id, image_url, is_primary)
			VALUES ($1, $2, $3, $4)`, img.ID, productID, img.Key, img.IsPrimary)
		if err != nil {
			return fmt.Errorf("insert product image: %w", err)
		}
	}
	return nil
}

func (r *ProductRepository) ListBySeller(ctx context.Context, f domain.ListFilter) ([]domain.Product, int, error) {
	conn := db.Conn(ctx, r.pool)

	where := []string{"p.seller_id = $1"}
	args := []any{f.SellerID}
	if name := strings.TrimSpace(f.Name); name != "" {
		args = append(args, "%"+name+"%")
		where = append(where, fmt.Sprintf("p.name ILIKE $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		where = append(where, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where = append(where, fmt.Sprintf("EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = p.product_id AND pc.category_id = $%d)", len(args)))
	}
	whereSQL := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM products p"+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT p.product_id, p.seller_id, p.name, p.description, p.stock_quantity, p.status, p.created_at, p.updated_at
		FROM products p%s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`, whereSQL, len(args)+1, len(args)+2)
	rows, err := conn.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, 0, fmt.Errorf("scan products: %w", err)
	}
	if err := r.loadRelations(ctx, products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func scanProduct(row pgx.CollectableRow) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.SellerID, &p.Name, &p.Description, &p.StockQuantity, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *ProductRepository) FindOwned(ctx context.Context, sellerID uuid.UUID, ids []uuid.UUID) ([]domain.Product, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT product_id, seller_id, name, description, stock_quantity, status, created_at, updated_at
		FROM products
		WHERE seller_id = $1 AND product_id = ANY($2)`, sellerID, ids)
	if err != nil {
		return nil, fmt.Errorf("select owned products: %w", err)
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("scan owned products: %w", err)
	}
	if err := r.loadRelations(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) DeleteMany(ctx context.Context, sellerID uuid.UUID, ids []uuid.UUID) error {
	_, err := db.Conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM products WHERE seller_id = $1 AND product_id = ANY($2)`, sellerID, ids)
	if err != nil {
		return fmt.Errorf("delete products: %w", err)
	}
	return nil
}

// DecrementStock only touches the row when enough stock is left, so the
// CHECK constraint never fires under concurrent reservations.
func (r *ProductRepository) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	conn := db.Conn(ctx, r.pool)
	tag, err := conn.Exec(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $2, updated_at = NOW()
		WHERE product_id = $1 AND stock_quantity >= $2`, productID, qty)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE product_id = $1)`, productID).Scan(&exists); err != nil {
		return fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return domain.ErrProductNotFound
	}
	return domain.ErrInsufficientStock
}

func (r *ProductRepository) IncrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $2, updated_at = NOW()
		WHERE product_id = $1`, productID, qty)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT category_id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Category, error) {
		var c domain.Category
		err := row.Scan(&c.ID, &c.Name)
		return c, err
	})
}

func (r *ProductRepository) CountExisting(ctx context.Context, ids []uuid.UUID) (int, error) {
	var n int
	err := db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM categories WHERE category_id = ANY($1)`, ids).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}
