package application

import (
	"context"

	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/user/domain"
	"github.com/google/uuid"
)

// AccountLoader serves the auth middleware with the current account state.
type AccountLoader struct {
	repo domain.UserRepository
}

func NewAccountLoader(repo domain.UserRepository) *AccountLoader {
	return &AccountLoader{repo: repo}
}

func (l *AccountLoader) LoadActor(ctx context.Context, userID uuid.UUID) (identity.Actor, error) {
	u, err := l.repo.GetByID(ctx, userID)
	if err != nil {
		return identity.Actor{}, err
	}
	return u.Actor(), nil
}
