package postgres

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/address/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AddressRepository struct {
	pool *pgxpool.Pool
}

func NewAddressRepository(pool *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{pool: pool}
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Address, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT address_id, user_id, street_address, city, state, postal_code, country, address_type, created_at, updated_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select addresses: %w", err)
	}
	addresses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Address, error) {
		var a domain.Address
		err := row.Scan(&a.ID, &a.UserID, &a.StreetAddress, &a.City, &a.State, &a.PostalCode, &a.Country, &a.Type, &a.CreatedAt, &a.UpdatedAt)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan addresses: %w", err)
	}
	return addresses, nil
}

func (r *AddressRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM addresses WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete addresses: %w", err)
	}
	return nil
}

// CreateMany queues one insert per address in a single batch round trip.
func (r *AddressRepository) CreateMany(ctx context.Context, addresses []domain.Address) error {
	b := &pgx.Batch{}
	for _, a := range addresses {
		b.Queue(`
			INSERT INTO addresses (address_id, user_id, street_address, city, state, postal_code, country, address_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			a.ID, a.UserID, a.StreetAddress, a.City, a.State, a.PostalCode, a.Country, a.Type)
	}
	if err := db.Conn(ctx, r.pool).SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("insert addresses: %w", err)
	}
	return nil
}
