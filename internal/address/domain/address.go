package domain

import (
	"context"
	"net/http"
	"time"

	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/google/uuid"
)

const MaxAddresses = 5

var ErrTooManyAddresses = apperror.New(http.StatusBadRequest, "TOO_MANY_ADDRESSES", "You cannot add more than 5 addresses.")

type Type string

const (
	TypeHome     Type = "HOME"
	TypeWork     Type = "WORK"
	TypeBilling  Type = "BILLING"
	TypeShipping Type = "SHIPPING"
	TypeOther    Type = "OTHER"
)

type Address struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	StreetAddress string
	City          string
	State         *string
	PostalCode    *string
	Country       string
	Type          Type
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CheckCount enforces the per-user address limit.
func CheckCount(n int) error {
	if n > MaxAddresses {
		return ErrTooManyAddresses
	}
	return nil
}

type AddressRepository interface {
	// ListByUser returns the addresses newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Address, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	CreateMany(ctx context.Context, addresses []Address) error
}
