package postgres

import (
	"fmt"
	"strings"

	"github.com/cristianortiz/bidmarket/internal/auction/domain"
)

type searchQuery struct {
	count  string
	data   string
	args   []any
	limit  int
	offset int
}

// pageArgs appends LIMIT and OFFSET to the filter arguments of data.
func (q searchQuery) pageArgs() []any {
	args := make([]any, 0, len(q.args)+2)
	args = append(args, q.args...)
	return append(args, q.limit, q.offset)
}

// buildSearchQuery renders the filters as positional WHERE clauses shared by
// the count and the page query.
func buildSearchQuery(f domain.SearchFilter) searchQuery {
	var (
		where []string
		args  []any
	)
	add := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if f.SellerID != nil {
		add("a.seller_id = $%d", *f.SellerID)
	}
	if title := strings.TrimSpace(f.Title); title != "" {
		add("a.title ILIKE $%d", "%"+title+"%")
	}
	if f.Status != nil {
		add("a.status = $%d", *f.Status)
	}
	if f.MinPrice != nil {
		add("a.current_price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("a.current_price <= $%d", *f.MaxPrice)
	}
	if f.StartFrom != nil {
		add("a.start_time >= $%d", *f.StartFrom)
	}
	if f.StartTo != nil {
		add("a.start_time <= $%d", *f.StartTo)
	}
	if len(f.CategoryTypes) > 0 {
		add(`EXISTS (
			SELECT 1 FROM auction_products ap
			JOIN product_categories pc ON pc.product_id = ap.product_id
			JOIN categories c ON c.category_id = pc.category_id
			WHERE ap.auction_id = a.auction_id AND c.name = ANY($%d))`, f.CategoryTypes)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	count := "SELECT COUNT(*) FROM auctions a" + whereSQL
	data := fmt.Sprintf(`SELECT a.auction_id, a.title, a.seller_id, u.username, a.start_time, a.end_time, a.status, a.current_price
		FROM auctions a
		JOIN users u ON u.user_id = a.seller_id%s
		ORDER BY a.start_time DESC
		LIMIT $%d OFFSET $%d`, whereSQL, len(args)+1, len(args)+2)

	return searchQuery{count: count, data: data, args: args, limit: f.Limit, offset: f.Offset}
}
