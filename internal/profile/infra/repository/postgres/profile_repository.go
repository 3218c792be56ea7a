package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/profile/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	p := &domain.Profile{}
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT u.user_id, u.email, u.username, u.role, u.created_at, u.updated_at,
		       p.full_name, p.phone_number, p.profile_image_url
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.user_id
		WHERE u.user_id = $1`, userID,
	).Scan(&p.UserID, &p.Email, &p.Username, &p.Role, &p.CreatedAt, &p.UpdatedAt,
		&p.FullName, &p.PhoneNumber, &p.ImageKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("select profile %s: %w", userID, err)
	}
	return p, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, c domain.Changes) (*domain.Changes, error) {
	out := &domain.Changes{UserID: c.UserID}
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO profiles (user_id, full_name, phone_number, profile_image_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = COALESCE(EXCLUDED.full_name, profiles.full_name),
			phone_number = COALESCE(EXCLUDED.phone_number, profiles.phone_number),
			profile_image_url = COALESCE(EXCLUDED.profile_image_url, profiles.profile_image_url),
			updated_at = NOW()
		RETURNING full_name, phone_number, profile_image_url`,
		c.UserID, c.FullName, c.PhoneNumber, c.ImageKey,
	).Scan(&out.FullName, &out.PhoneNumber, &out.ImageKey)
	if err != nil {
		return nil, fmt.Errorf("upsert profile %s: %w", c.UserID, err)
	}
	return out, nil
}
