package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/auth/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OtpRepository struct {
	pool *pgxpool.Pool
}

func NewOtpRepository(pool *pgxpool.Pool) *OtpRepository {
	return &OtpRepository{pool: pool}
}

func (r *OtpRepository) Upsert(ctx context.Context, o *domain.Otp) error {
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO otps (user_id, type, code, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, type)
		DO UPDATE SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at, updated_at = NOW()`,
		o.UserID, o.Type, o.Code, o.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("upsert otp: %w", err)
	}
	return nil
}

func (r *OtpRepository) Get(ctx context.Context, userID uuid.UUID, t domain.OtpType) (*domain.Otp, error) {
	o := &domain.Otp{UserID: userID, Type: t}
	err := db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT code, expires_at FROM otps WHERE user_id = $1 AND type = $2`, userID, t,
	).Scan(&o.Code, &o.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select otp: %w", err)
	}
	return o, nil
}

// Invalidate keeps the row and clears the code.
func (r *OtpRepository) Invalidate(ctx context.Context, userID uuid.UUID, t domain.OtpType) error {
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE otps SET code = NULL, expires_at = NULL, updated_at = NOW()
		WHERE user_id = $1 AND type = $2`, userID, t)
	if err != nil {
		return fmt.Errorf("invalidate otp: %w", err)
	}
	return nil
}
