package postgres

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/auth/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RefreshTokenRepository struct {
	pool *pgxpool.Pool
}

func NewRefreshTokenRepository(pool *pgxpool.Pool) *RefreshTokenRepository {
	return &RefreshTokenRepository{pool: pool}
}

func (r *RefreshTokenRepository) Save(ctx context.Context, t domain.RefreshToken) error {
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, provider, token, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, provider)
		DO UPDATE SET token = EXCLUDED.token,
		              ip_address = EXCLUDED.ip_address,
		              user_agent = EXCLUDED.user_agent,
		              is_revoked = FALSE,
		              last_used_at = NOW()`,
		t.UserID, t.Provider, t.Token, t.IPAddress, t.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) Exists(ctx context.Context, userID uuid.UUID, provider, token string) (bool, error) {
	var ok bool
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM refresh_tokens
			WHERE user_id = $1 AND provider = $2 AND token = $3 AND NOT is_revoked
		)`, userID, provider, token,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check refresh token: %w", err)
	}
	return ok, nil
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, userID uuid.UUID, provider, token string) error {
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE refresh_tokens SET is_revoked = TRUE, last_used_at = NOW()
		WHERE user_id = $1 AND provider = $2 AND token = $3`, userID, provider, token)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}
