package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/cristianortiz/bidmarket/internal/user/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `user_id, email, username, password, role, is_verified, is_banned, warning_count, created_at, updated_at`

// UserRepository implements domain.UserRepository for PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.IsVerified, &u.IsBanned, &u.WarningCount, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotExist
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO users (user_id, email, username, password, role, is_verified, is_banned)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		u.ID, u.Email, u.Username, u.PasswordHash, u.Role, u.IsVerified, u.IsBanned,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtains a user by its ID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := scanUser(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id))
	if err != nil && !errors.Is(err, domain.ErrUserNotExist) {
		return nil, fmt.Errorf("select user %s: %w", id, err)
	}
	return u, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil && !errors.Is(err, domain.ErrUserNotExist) {
		return nil, fmt.Errorf("select user by email: %w", err)
	}
	return u, err
}

func (r *UserRepository) exists(ctx context.Context, column, value string) (bool, error) {
	var ok bool
	err := db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE `+column+` = $1)`, value).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check user %s: %w", column, err)
	}
	return ok, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

func (r *UserRepository) Find(ctx context.Context, f domain.Filter) ([]domain.User, int, error) {
	conn := db.Conn(ctx, r.pool)

	var (
		where []string
		args  []any
	)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.Email != "" {
		add("email ILIKE $%d", "%"+f.Email+"%")
	}
	if f.Username != "" {
		add("username ILIKE $%d", "%"+f.Username+"%")
	}
	if f.Role != nil {
		add("role = $%d", *f.Role)
	}
	if f.IsVerified != nil {
		add("is_verified = $%d", *f.IsVerified)
	}
	if f.IsBanned != nil {
		add("is_banned = $%d", *f.IsBanned)
	}
	if f.CreatedAfter != nil {
		add("created_at >= $%d", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		add("created_at <= $%d", *f.CreatedBefore)
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM users"+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM users%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		userColumns, whereSQL, len(args)+1, len(args)+2)
	rows, err := conn.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("find users: %w", err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.User, error) {
		u, err := scanUser(row)
		if err != nil {
			return domain.User{}, err
		}
		return *u, nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan users: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) touch(ctx context.Context, id uuid.UUID, set string, args ...any) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE users SET `+set+`, updated_at = NOW() WHERE user_id = $1`, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("update user %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotExist
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.touch(ctx, id, "password = $2", passwordHash)
}

func (r *UserRepository) SetVerified(ctx context.Context, id uuid.UUID) error {
	return r.touch(ctx, id, "is_verified = TRUE")
}

func (r *UserRepository) UpdateStanding(ctx context.Context, u *domain.User) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE users SET is_banned = $2, warning_count = $3, updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at`, u.ID, u.IsBanned, u.WarningCount,
	).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotExist
		}
		return fmt.Errorf("update user standing %s: %w", u.ID, err)
	}
	return nil
}
