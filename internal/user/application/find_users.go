package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/shared/logger"
	"github.com/cristianortiz/bidmarket/internal/shared/pagination"
	"github.com/cristianortiz/bidmarket/internal/user/domain"
)

var log = logger.GetLogger()

type FindUsersUseCase struct {
	repo domain.UserRepository
}

func NewFindUsersUseCase(repo domain.UserRepository) *FindUsersUseCase {
	return &FindUsersUseCase{repo: repo}
}

func (uc *FindUsersUseCase) Execute(ctx context.Context, in FindUsersDTO) (*UsersPageDTO, error) {
	page := in.Page.Normalize()
	users, total, err := uc.repo.Find(ctx, domain.Filter{
		Email:         in.Email,
		Username:      in.Username,
		Role:          in.Role,
		IsVerified:    in.IsVerified,
		IsBanned:      in.IsBanned,
		CreatedAfter:  in.CreatedAfter,
		CreatedBefore: in.CreatedBefore,
		Limit:         page.Limit,
		Offset:        page.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("find users use case: %w", err)
	}

	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	return &UsersPageDTO{Users: out, Meta: pagination.NewMeta(total, len(out), page)}, nil
}
