package domain

import (
	"context"
	"time"

	userdomain "github.com/cristianortiz/bidmarket/internal/user/domain"
	"github.com/google/uuid"
)

// Accounts is the slice of the user store the auth flows need.
type Accounts interface {
	Create(ctx context.Context, u *userdomain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	SetVerified(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type OtpRepository interface {
	// Upsert replaces the code of (UserID, Type).
	Upsert(ctx context.Context, o *Otp) error
	// Get returns nil, nil when the user never had a code of that type.
	Get(ctx context.Context, userID uuid.UUID, t OtpType) (*Otp, error)
	Invalidate(ctx context.Context, userID uuid.UUID, t OtpType) error
}

// RefreshToken is the last refresh token issued to a user per provider.
type RefreshToken struct {
	UserID     uuid.UUID
	Provider   string
	Token      string
	IPAddress  string
	UserAgent  string
	IsRevoked  bool
	LastUsedAt time.Time
}

type RefreshTokenRepository interface {
	// Save upserts the token of (UserID, Provider) and clears its revocation.
	Save(ctx context.Context, t RefreshToken) error
	// Exists reports whether token is the live, non revoked token of the pair.
	Exists(ctx context.Context, userID uuid.UUID, provider, token string) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID, provider, token string) error
}
