package postgres

import (
	"testing"
	"time"

	"github.com/cristianortiz/bidmarket/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildSearchQueryWithoutFilters(t *testing.T) {
	q := buildSearchQuery(domain.SearchFilter{Limit: 10})

	assert.Equal(t, "SELECT COUNT(*) FROM auctions a", q.count)
	assert.NotContains(t, q.data, "WHERE")
	assert.Contains(t, q.data, "ORDER BY a.start_time DESC")
	assert.Contains(t, q.data, "LIMIT $1 OFFSET $2")
	assert.Empty(t, q.args)
	assert.Equal(t, []any{10, 0}, q.pageArgs())
}

func TestBuildSearchQueryStatusAndMinPrice(t *testing.T) {
	open := domain.StatusOpen
	minPrice := decimal.NewFromInt(50)

	q := buildSearchQuery(domain.SearchFilter{Status: &open, MinPrice: &minPrice, Limit: 10, Offset: 20})

	assert.Equal(t, "SELECT COUNT(*) FROM auctions a WHERE a.status = $1 AND a.current_price >= $2", q.count)
	assert.Contains(t, q.data, "WHERE a.status = $1 AND a.current_price >= $2")
	assert.Contains(t, q.data, "LIMIT $3 OFFSET $4")
	assert.Equal(t, []any{open, minPrice}, q.args)
	assert.Equal(t, []any{open, minPrice, 10, 20}, q.pageArgs())
}

func TestBuildSearchQueryAllFilters(t *testing.T) {
	seller := uuid.New()
	status := domain.StatusClosed
	minPrice, maxPrice := decimal.NewFromInt(1), decimal.NewFromInt(99)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	q := buildSearchQuery(domain.SearchFilter{
		SellerID:      &seller,
		Title:         "  camera ",
		Status:        &status,
		MinPrice:      &minPrice,
		MaxPrice:      &maxPrice,
		StartFrom:     &from,
		StartTo:       &to,
		CategoryTypes: []string{"ART", "BOOKS"},
		Limit:         5,
	})

	for i, clause := range []string{
		"a.seller_id = $1",
		"a.title ILIKE $2",
		"a.status = $3",
		"a.current_price >= $4",
		"a.current_price <= $5",
		"a.start_time >= $6",
		"a.start_time <= $7",
		"c.name = ANY($8)",
	} {
		assert.Contains(t, q.count, clause, "clause %d", i)
	}
	assert.Contains(t, q.data, "LIMIT $9 OFFSET $10")
	assert.Equal(t, "%camera%", q.args[1])
	assert.Equal(t, []string{"ART", "BOOKS"}, q.args[7])
	assert.Len(t, q.pageArgs(), 10)
}
