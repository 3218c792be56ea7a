package application

import (
	"time"

	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/shared/pagination"
	"github.com/cristianortiz/bidmarket/internal/user/domain"
	"github.com/google/uuid"
)

type FindUsersDTO struct {
	Email         string
	Username      string
	Role          *identity.Role
	IsVerified    *bool
	IsBanned      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Page          pagination.Params
}

type UserDTO struct {
	UserID     uuid.UUID     `json:"userId"`
	Email      string        `json:"email"`
	Username   string        `json:"username"`
	Role       identity.Role `json:"role"`
	IsVerified bool          `json:"isVerified"`
	IsBanned   bool          `json:"isBanned"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// UsersPageDTO keeps the {users, meta} shape of the admin listing.
type UsersPageDTO struct {
	Users []UserDTO       `json:"users"`
	Meta  pagination.Meta `json:"meta"`
}

type UpdatePasswordDTO struct {
	NewPassword        string
	ConfirmNewPassword string
}

type CreateWarningDTO struct {
	UserID      uuid.UUID
	Reason      string
	Description *string
}

type WarningDTO struct {
	WarningID   uuid.UUID `json:"warningId"`
	UserID      uuid.UUID `json:"userId"`
	AdminID     uuid.UUID `json:"adminId"`
	Reason      string    `json:"reason"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type WarningStatusDTO struct {
	UserID       uuid.UUID    `json:"userId"`
	WarningCount int          `json:"warningCount"`
	IsBanned     bool         `json:"isBanned"`
	Warnings     []WarningDTO `json:"warnings"`
}

type BanStatusDTO struct {
	UserID       uuid.UUID  `json:"userId"`
	Email        string     `json:"email"`
	IsBanned     bool       `json:"isBanned"`
	WarningCount int        `json:"warningCount"`
	BannedAt     *time.Time `json:"bannedAt,omitempty"`
}

func toUserDTO(u domain.User) UserDTO {
	return UserDTO{
		UserID:     u.ID,
		Email:      u.Email,
		Username:   u.Username,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		IsBanned:   u.IsBanned,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toWarningStatus(u *domain.User, warnings []domain.Warning) *WarningStatusDTO {
	out := &WarningStatusDTO{
		UserID:       u.ID,
		WarningCount: u.WarningCount,
		IsBanned:     u.IsBanned,
		Warnings:     make([]WarningDTO, 0, len(warnings)),
	}
	for _, w := range warnings {
		out.Warnings = append(out.Warnings, WarningDTO{
			WarningID:   w.ID,
			UserID:      w.UserID,
			AdminID:     w.AdminID,
			Reason:      w.Reason,
			Description: w.Description,
			CreatedAt:   w.CreatedAt,
		})
	}
	return out
}
