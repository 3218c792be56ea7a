package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/user/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WarningsUseCase issues, lists and removes warnings. The warning count and
// the ban derived from it are recomputed inside the same unit of work as the
// insert or delete.
type WarningsUseCase struct {
	users    domain.UserRepository
	warnings domain.WarningRepository
	tx       db.Transactor
}

func NewWarningsUseCase(users domain.UserRepository, warnings domain.WarningRepository, tx db.Transactor) *WarningsUseCase {
	return &WarningsUseCase{users: users, warnings: warnings, tx: tx}
}

func (uc *WarningsUseCase) Create(ctx context.Context, admin identity.Actor, in CreateWarningDTO) (*WarningStatusDTO, error) {
	var out *WarningStatusDTO
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		u, err := uc.users.GetByID(ctx, in.UserID)
		if err != nil {
			return err
		}
		if u.IsBanned {
			return domain.ErrUserAlreadyBanned
		}
		if err := uc.warnings.Create(ctx, domain.NewWarning(u.ID, admin.UserID, in.Reason, in.Description)); err != nil {
			return err
		}
		out, err = uc.recount(ctx, u)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create warning use case: user %s: %w", in.UserID, err)
	}

	log.Info("Warning issued",
		zap.String("userID", in.UserID.String()),
		zap.String("adminID", admin.UserID.String()),
		zap.Int("warningCount", out.WarningCount),
		zap.Bool("banned", out.IsBanned),
	)
	return out, nil
}

func (uc *WarningsUseCase) List(ctx context.Context, userID uuid.UUID) (*WarningStatusDTO, error) {
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get warnings use case: %w", err)
	}
	warnings, err := uc.warnings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get warnings use case: %w", err)
	}
	return toWarningStatus(u, warnings), nil
}

func (uc *WarningsUseCase) Remove(ctx context.Context, warningID uuid.UUID) (*WarningStatusDTO, error) {
	var out *WarningStatusDTO
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		w, err := uc.warnings.GetByID(ctx, warningID)
		if err != nil {
			return err
		}
		if err := uc.warnings.Delete(ctx, w.ID); err != nil {
			return err
		}
		u, err := uc.users.GetByID(ctx, w.UserID)
		if err != nil {
			return err
		}
		out, err = uc.recount(ctx, u)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("remove warning use case: warning %s: %w", warningID, err)
	}

	log.Info("Warning removed",
		zap.String("warningID", warningID.String()),
		zap.String("userID", out.UserID.String()),
		zap.Int("warningCount", out.WarningCount),
	)
	return out, nil
}

func (uc *WarningsUseCase) recount(ctx context.Context, u *domain.User) (*WarningStatusDTO, error) {
	n, err := uc.warnings.CountByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.ApplyWarningCount(n)
	if err := uc.users.UpdateStanding(ctx, u); err != nil {
		return nil, err
	}
	warnings, err := uc.warnings.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return toWarningStatus(u, warnings), nil
}
