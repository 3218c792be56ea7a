package application

import (
	"context"
	"testing"
	"time"

	"github.com/cristianortiz/bidmarket/internal/auction/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchAuctions(t *testing.T) {
	f := newFixture()
	open := domain.StatusOpen
	minPrice := decimalOf("50")
	f.store.searchTotal = 25
	f.store.searchRows = []domain.Summary{
		{ID: uuid.New(), Title: "A", Status: domain.StatusOpen, CurrentPrice: decimalOf("75.5"), StartTime: f.now, EndTime: f.now.Add(time.Hour)},
	}

	res, err := f.service.SearchAuctions(context.Background(), SearchAuctionsDTO{
		Status:   &open,
		MinPrice: &minPrice,
		Page:     pagination.Params{Limit: 10, Offset: 20},
	})
	require.NoError(t, err)

	require.Len(t, f.store.searchCalls, 1)
	call := f.store.searchCalls[0]
	assert.Equal(t, &open, call.Status)
	assert.True(t, call.MinPrice.Equal(minPrice))
	assert.Nil(t, call.MaxPrice)
	assert.Equal(t, 10, call.Limit)
	assert.Equal(t, 20, call.Offset)

	require.Len(t, res.Data, 1)
	assert.Equal(t, "75.50", res.Data[0].CurrentPrice)
	assert.Equal(t, pagination.Meta{
		TotalItems:   25,
		ItemCount:    1,
		ItemsPerPage: 10,
		TotalPages:   3,
		CurrentPage:  3,
		HasNextPage:  false,
		HasPrevPage:  true,
	}, res.Meta)
}

func TestSearchAuctionsDefaultsWindow(t *testing.T) {
	f := newFixture()

	res, err := f.service.SearchAuctions(context.Background(), SearchAuctionsDTO{})
	require.NoError(t, err)

	assert.Equal(t, 10, f.store.searchCalls[0].Limit)
	assert.Equal(t, 0, f.store.searchCalls[0].Offset)
	assert.Equal(t, []AuctionListItemDTO{}, res.Data)
	assert.False(t, res.Meta.HasNextPage)
	assert.False(t, res.Meta.HasPrevPage)
}
