package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/user/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BanUseCase struct {
	repo domain.UserRepository
}

func NewBanUseCase(repo domain.UserRepository) *BanUseCase {
	return &BanUseCase{repo: repo}
}

func (uc *BanUseCase) Ban(ctx context.Context, userID uuid.UUID) (*BanStatusDTO, error) {
	u, err := uc.change(ctx, userID, (*domain.User).Ban)
	if err != nil {
		return nil, fmt.Errorf("ban user use case: %w", err)
	}
	bannedAt := u.UpdatedAt
	return &BanStatusDTO{UserID: u.ID, Email: u.Email, IsBanned: u.IsBanned, WarningCount: u.WarningCount, BannedAt: &bannedAt}, nil
}

func (uc *BanUseCase) Unban(ctx context.Context, userID uuid.UUID) (*BanStatusDTO, error) {
	u, err := uc.change(ctx, userID, (*domain.User).Unban)
	if err != nil {
		return nil, fmt.Errorf("unban user use case: %w", err)
	}
	return &BanStatusDTO{UserID: u.ID, Email: u.Email, IsBanned: u.IsBanned, WarningCount: u.WarningCount}, nil
}

func (uc *BanUseCase) change(ctx context.Context, userID uuid.UUID, apply func(*domain.User) error) (*domain.User, error) {
	u, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := apply(u); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateStanding(ctx, u); err != nil {
		return nil, err
	}
	log.Info("User standing changed", zap.String("userID", u.ID.String()), zap.Bool("banned", u.IsBanned))
	return u, nil
}
