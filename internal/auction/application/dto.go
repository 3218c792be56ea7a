package application

import (
	"time"

	"github.com/cristianortiz/bidmarket/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LineDTO struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// AuctionInputDTO is the payload shared by create and update.
type AuctionInputDTO struct {
	Title               string
	StartTime           time.Time
	EndTime             time.Time
	StartingPrice       decimal.Decimal
	MinimumBidIncrement decimal.Decimal
	Products            []LineDTO
}

func (in AuctionInputDTO) lines() []domain.Line {
	lines := make([]domain.Line, len(in.Products))
	for i, p := range in.Products {
		lines[i] = domain.Line{ProductID: p.ProductID, Quantity: p.Quantity}
	}
	return lines
}

func (in AuctionInputDTO) productIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(in.Products))
	for i, p := range in.Products {
		ids[i] = p.ProductID
	}
	return ids
}

// validate runs the checks shared by create and update, in response order.
func (in AuctionInputDTO) validate(now time.Time) error {
	if err := domain.ValidateSchedule(now, in.StartTime, in.EndTime); err != nil {
		return err
	}
	if err := domain.ValidatePrices(in.StartingPrice, in.MinimumBidIncrement); err != nil {
		return err
	}
	return domain.ValidateLines(in.lines())
}

type CreatedAuctionDTO struct {
	AuctionID           uuid.UUID     `json:"auctionId"`
	Title               string        `json:"title"`
	StartTime           time.Time     `json:"startTime"`
	EndTime             time.Time     `json:"endTime"`
	StartingPrice       string        `json:"startingPrice"`
	MinimumBidIncrement string        `json:"minimumBidIncrement"`
	Status              domain.Status `json:"status"`
	Products            []LineDTO     `json:"products"`
}

type AuctionProductDTO struct {
	ProductID   uuid.UUID `json:"productId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Categories  []string  `json:"categories"`
	Images      []string  `json:"images"`
}

type AuctionDetailDTO struct {
	AuctionID           uuid.UUID           `json:"auctionId"`
	Title               string              `json:"title"`
	StartTime           time.Time           `json:"startTime"`
	EndTime             time.Time           `json:"endTime"`
	StartingPrice       string              `json:"startingPrice"`
	CurrentPrice        string              `json:"currentPrice"`
	MinimumBidIncrement string              `json:"minimumBidIncrement"`
	SellerID            uuid.UUID           `json:"sellerId"`
	SellerName          string              `json:"sellerName"`
	Status              domain.Status       `json:"status"`
	LastBidTime         *time.Time          `json:"lastBidTime,omitempty"`
	WinnerID            *uuid.UUID          `json:"winnerId,omitempty"`
	WinnerName          *string             `json:"winnerName,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	BidCount            int                 `json:"bidCount"`
	Products            []AuctionProductDTO `json:"products"`
}

type AuctionListItemDTO struct {
	AuctionID    uuid.UUID     `json:"auctionId"`
	Title        string        `json:"title"`
	SellerID     uuid.UUID     `json:"sellerId"`
	SellerName   string        `json:"sellerName"`
	StartTime    time.Time     `json:"startTime"`
	EndTime      time.Time     `json:"endTime"`
	Status       domain.Status `json:"status"`
	CurrentPrice string        `json:"currentPrice"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
