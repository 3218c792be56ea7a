package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/follow/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FollowRepository implements domain.FollowRepository and domain.PartyLoader.
type FollowRepository struct {
	pool *pgxpool.Pool
}

func NewFollowRepository(pool *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{pool: pool}
}

func (r *FollowRepository) GetForUpdate(ctx context.Context, followerID, sellerID uuid.UUID) (*domain.Follow, error) {
	q := `SELECT follow_id, follower_id, seller_id, status, created_at, updated_at
		FROM follows WHERE follower_id = $1 AND seller_id = $2`
	if _, ok := db.TxFromContext(ctx); ok {
		q += ` FOR UPDATE`
	}
	f := &domain.Follow{}
	err := db.Conn(ctx, r.pool).QueryRow(ctx, q, followerID, sellerID).
		Scan(&f.ID, &f.FollowerID, &f.SellerID, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select follow: %w", err)
	}
	return f, nil
}

func (r *FollowRepository) Save(ctx context.Context, f *domain.Follow) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO follows (follow_id, follower_id, seller_id, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (follower_id, seller_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
		RETURNING follow_id, created_at, updated_at`,
		f.ID, f.FollowerID, f.SellerID, f.Status,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save follow: %w", err)
	}
	return nil
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, sellerID uuid.UUID) (bool, error) {
	var ok bool
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM follows
			WHERE follower_id = $1 AND seller_id = $2 AND status = 'ACTIVE'
		)`, followerID, sellerID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return ok, nil
}

func (r *FollowRepository) LoadParty(ctx context.Context, id uuid.UUID) (*domain.Party, error) {
	p := &domain.Party{ID: id}
	err := db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT role, is_banned, is_verified FROM users WHERE user_id = $1`, id,
	).Scan(&p.Role, &p.IsBanned, &p.IsVerified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select follow party %s: %w", id, err)
	}
	return p, nil
}
