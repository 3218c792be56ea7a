package application

import (
	"context"

	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/google/uuid"
)

type UserService interface {
	FindUsers(ctx context.Context, in FindUsersDTO) (*UsersPageDTO, error)
	UpdatePassword(ctx context.Context, actor identity.Actor, in UpdatePasswordDTO) error
	CreateWarning(ctx context.Context, admin identity.Actor, in CreateWarningDTO) (*WarningStatusDTO, error)
	GetUserWarnings(ctx context.Context, userID uuid.UUID) (*WarningStatusDTO, error)
	RemoveWarning(ctx context.Context, warningID uuid.UUID) (*WarningStatusDTO, error)
	BanUser(ctx context.Context, userID uuid.UUID) (*BanStatusDTO, error)
	UnbanUser(ctx context.Context, userID uuid.UUID) (*BanStatusDTO, error)
}

type userService struct {
	findUC     *FindUsersUseCase
	passwordUC *UpdatePasswordUseCase
	warningsUC *WarningsUseCase
	banUC      *BanUseCase
}

func NewUserService(findUC *FindUsersUseCase, passwordUC *UpdatePasswordUseCase, warningsUC *WarningsUseCase, banUC *BanUseCase) UserService {
	return &userService{findUC: findUC, passwordUC: passwordUC, warningsUC: warningsUC, banUC: banUC}
}

func (s *userService) FindUsers(ctx context.Context, in FindUsersDTO) (*UsersPageDTO, error) {
	return s.findUC.Execute(ctx, in)
}

func (s *userService) UpdatePassword(ctx context.Context, actor identity.Actor, in UpdatePasswordDTO) error {
	return s.passwordUC.Execute(ctx, actor, in)
}

func (s *userService) CreateWarning(ctx context.Context, admin identity.Actor, in CreateWarningDTO) (*WarningStatusDTO, error) {
	return s.warningsUC.Create(ctx, admin, in)
}

func (s *userService) GetUserWarnings(ctx context.Context, userID uuid.UUID) (*WarningStatusDTO, error) {
	return s.warningsUC.List(ctx, userID)
}

func (s *userService) RemoveWarning(ctx context.Context, warningID uuid.UUID) (*WarningStatusDTO, error) {
	return s.warningsUC.Remove(ctx, warningID)
}

func (s *userService) BanUser(ctx context.Context, userID uuid.UUID) (*BanStatusDTO, error) {
	return s.banUC.Ban(ctx, userID)
}

func (s *userService) UnbanUser(ctx context.Context, userID uuid.UUID) (*BanStatusDTO, error) {
	return s.banUC.Unban(ctx, userID)
}
