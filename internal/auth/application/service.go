package application

import (
	"context"

	"github.com/cristianortiz/bidmarket/internal/shared/mail"
)

// MailSender delivers OTP codes.
type MailSender = mail.Mailer

type AuthService interface {
	Login(ctx context.Context, in LoginDTO, client ClientInfo) (*LoginResultDTO, error)
	Register(ctx context.Context, in RegisterDTO) (*AccountRefDTO, error)
	RefreshToken(ctx context.Context, refreshToken string, client ClientInfo) (*TokensDTO, error)
	VerifyOtp(ctx context.Context, in VerifyOtpDTO) error
	CheckEmail(ctx context.Context, email string) (*AccountRefDTO, error)
	ResetPassword(ctx context.Context, in ResetPasswordDTO) error
	Logout(ctx context.Context, in LogoutDTO) error
	ResendOtp(ctx context.Context, in ResendOtpDTO) error
}

type authService struct {
	loginUC        *LoginUseCase
	registerUC     *RegisterUseCase
	sessionUC      *SessionUseCase
	verificationUC *VerificationUseCase
}

func NewAuthService(loginUC *LoginUseCase, registerUC *RegisterUseCase, sessionUC *SessionUseCase, verificationUC *VerificationUseCase) AuthService {
	return &authService{loginUC: loginUC, registerUC: registerUC, sessionUC: sessionUC, verificationUC: verificationUC}
}

func (s *authService) Login(ctx context.Context, in LoginDTO, client ClientInfo) (*LoginResultDTO, error) {
	return s.loginUC.Execute(ctx, in, client)
}

func (s *authService) Register(ctx context.Context, in RegisterDTO) (*AccountRefDTO, error) {
	return s.registerUC.Execute(ctx, in)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string, client ClientInfo) (*TokensDTO, error) {
	return s.sessionUC.Refresh(ctx, refreshToken, client)
}

func (s *authService) VerifyOtp(ctx context.Context, in VerifyOtpDTO) error {
	return s.verificationUC.VerifyOtp(ctx, in)
}

func (s *authService) CheckEmail(ctx context.Context, email string) (*AccountRefDTO, error) {
	return s.verificationUC.CheckEmail(ctx, email)
}

func (s *authService) ResetPassword(ctx context.Context, in ResetPasswordDTO) error {
	return s.verificationUC.ResetPassword(ctx, in)
}

func (s *authService) Logout(ctx context.Context, in LogoutDTO) error {
	return s.sessionUC.Logout(ctx, in)
}

func (s *authService) ResendOtp(ctx context.Context, in ResendOtpDTO) error {
	return s.verificationUC.ResendOtp(ctx, in)
}
