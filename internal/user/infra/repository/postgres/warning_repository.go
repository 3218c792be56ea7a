package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/cristianortiz/bidmarket/internal/user/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WarningRepository struct {
	pool *pgxpool.Pool
}

func NewWarningRepository(pool *pgxpool.Pool) *WarningRepository {
	return &WarningRepository{pool: pool}
}

func (r *WarningRepository) Create(ctx context.Context, w *domain.Warning) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO warnings (warning_id, user_id, admin_id, reason, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		w.ID, w.UserID, w.AdminID, w.Reason, w.Description,
	).Scan(&w.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert warning: %w", err)
	}
	return nil
}

func (r *WarningRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Warning, error) {
	w := &domain.Warning{}
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT warning_id, user_id, admin_id, reason, description, created_at
		FROM warnings WHERE warning_id = $1`, id,
	).Scan(&w.ID, &w.UserID, &w.AdminID, &w.Reason, &w.Description, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWarningNotFound
		}
		return nil, fmt.Errorf("select warning %s: %w", id, err)
	}
	return w, nil
}

func (r *WarningRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM warnings WHERE warning_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete warning %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWarningNotFound
	}
	return nil
}

func (r *WarningRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM warnings WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count warnings: %w", err)
	}
	return n, nil
}

func (r *WarningRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Warning, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT warning_id, user_id, admin_id, reason, description, created_at
		FROM warnings WHERE user_id = $1
		ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select warnings: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Warning, error) {
		var w domain.Warning
		err := row.Scan(&w.ID, &w.UserID, &w.AdminID, &w.Reason, &w.Description, &w.CreatedAt)
		return w, err
	})
}
