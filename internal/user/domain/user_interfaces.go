package domain

import (
	"context"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	// GetByID and GetByEmail return ErrUserNotExist when no row matches.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Find(ctx context.Context, f Filter) ([]User, int, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetVerified(ctx context.Context, id uuid.UUID) error
	// UpdateStanding persists IsBanned and WarningCount.
	UpdateStanding(ctx context.Context, u *User) error
}

type WarningRepository interface {
	Create(ctx context.Context, w *Warning) error
	GetByID(ctx context.Context, id uuid.UUID) (*Warning, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	// ListByUser returns warnings oldest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Warning, error)
}
