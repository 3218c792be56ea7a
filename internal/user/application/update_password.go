package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/shared/security"
	"github.com/cristianortiz/bidmarket/internal/user/domain"
	"go.uber.org/zap"
)

type UpdatePasswordUseCase struct {
	repo   domain.UserRepository
	hasher security.PasswordHasher
}

func NewUpdatePasswordUseCase(repo domain.UserRepository, hasher security.PasswordHasher) *UpdatePasswordUseCase {
	return &UpdatePasswordUseCase{repo: repo, hasher: hasher}
}

func (uc *UpdatePasswordUseCase) Execute(ctx context.Context, actor identity.Actor, in UpdatePasswordDTO) error {
	if in.NewPassword != in.ConfirmNewPassword {
		return domain.ErrPasswordConfirmMismatch
	}
	hash, err := uc.hasher.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("update password use case: %w", err)
	}
	if err := uc.repo.UpdatePassword(ctx, actor.UserID, hash); err != nil {
		return fmt.Errorf("update password use case: %w", err)
	}
	log.Info("Password updated", zap.String("userID", actor.UserID.String()))
	return nil
}
