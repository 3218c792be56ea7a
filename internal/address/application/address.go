package application

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianortiz/bidmarket/internal/address/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/shared/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

type AddressDTO struct {
	AddressID     uuid.UUID   `json:"addressId"`
	StreetAddress string      `json:"streetAddress"`
	City          string      `json:"city"`
	State         *string     `json:"state"`
	PostalCode    *string     `json:"postalCode"`
	Country       string      `json:"country"`
	AddressType   domain.Type `json:"addressType"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type NewAddressDTO struct {
	StreetAddress string
	City          string
	State         *string
	PostalCode    *string
	Country       string
	AddressType   domain.Type
}

type AddressService interface {
	GetAddresses(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
	ReplaceAddresses(ctx context.Context, actor identity.Actor, in []NewAddressDTO) error
}

type addressService struct {
	repo domain.AddressRepository
	tx   db.Transactor
}

func NewAddressService(repo domain.AddressRepository, tx db.Transactor) AddressService {
	return &addressService{repo: repo, tx: tx}
}

func (s *addressService) GetAddresses(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	addresses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get addresses use case: %w", err)
	}
	out := make([]AddressDTO, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, AddressDTO{
			AddressID:     a.ID,
			StreetAddress: a.StreetAddress,
			City:          a.City,
			State:         a.State,
			PostalCode:    a.PostalCode,
			Country:       a.Country,
			AddressType:   a.Type,
			CreatedAt:     a.CreatedAt,
			UpdatedAt:     a.UpdatedAt,
		})
	}
	return out, nil
}

// ReplaceAddresses swaps the whole address book of the caller.
func (s *addressService) ReplaceAddresses(ctx context.Context, actor identity.Actor, in []NewAddressDTO) error {
	if err := domain.CheckCount(len(in)); err != nil {
		return err
	}
	addresses := make([]domain.Address, 0, len(in))
	for _, a := range in {
		addresses = append(addresses, domain.Address{
			ID:            uuid.New(),
			UserID:        actor.UserID,
			StreetAddress: a.StreetAddress,
			City:          a.City,
			State:         a.State,
			PostalCode:    a.PostalCode,
			Country:       a.Country,
			Type:          a.AddressType,
		})
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.DeleteByUser(ctx, actor.UserID); err != nil {
			return err
		}
		if len(addresses) == 0 {
			return nil
		}
		return s.repo.CreateMany(ctx, addresses)
	})
	if err != nil {
		return fmt.Errorf("replace addresses use case: %w", err)
	}
	log.Info("Addresses replaced", zap.String("userID", actor.UserID.String()), zap.Int("count", len(addresses)))
	return nil
}
