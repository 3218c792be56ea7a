package application

import (
	"github.com/cristianortiz/bidmarket/internal/auth/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/google/uuid"
)

// ClientInfo is stored with every refresh token.
type ClientInfo struct {
	IP        string
	UserAgent string
}

type LoginDTO struct {
	Email    string
	Password string
	Provider string
}

type LoginUserDTO struct {
	UserID     uuid.UUID     `json:"userId"`
	Email      string        `json:"email"`
	Role       identity.Role `json:"role"`
	Username   string        `json:"username"`
	IsVerified bool          `json:"isVerified"`
	IsBanned   bool          `json:"isBanned"`
	Provider   string        `json:"provider"`
}

type LoginResultDTO struct {
	User         LoginUserDTO `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type RegisterDTO struct {
	Email    string
	Username string
	Password string
	IsSeller bool
}

// AccountRefDTO is the {userId, email} answer of register and check-email.
type AccountRefDTO struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
}

type TokensDTO struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type VerifyOtpDTO struct {
	UserID uuid.UUID
	Type   domain.OtpType
	Code   string
}

type ResetPasswordDTO struct {
	UserID             uuid.UUID
	Code               string
	NewPassword        string
	ConfirmNewPassword string
}

type LogoutDTO struct {
	UserID       uuid.UUID
	RefreshToken string
	Provider     string
}

type ResendOtpDTO struct {
	Email string
	Type  domain.OtpType
}
