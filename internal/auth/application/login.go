package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/auth/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/security"
	userdomain "github.com/cristianortiz/bidmarket/internal/user/domain"
	"go.uber.org/zap"
)

// sessions issues token pairs and persists the refresh token.
type sessions struct {
	tokens  security.TokenIssuer
	refresh domain.RefreshTokenRepository
}

func (s sessions) open(ctx context.Context, u *userdomain.User, provider string, client ClientInfo) (security.TokenPair, error) {
	actor := u.Actor()
	actor.Provider = provider
	pair, err := s.tokens.GenerateTokens(actor)
	if err != nil {
		return security.TokenPair{}, err
	}
	err = s.refresh.Save(ctx, domain.RefreshToken{
		UserID:    u.ID,
		Provider:  provider,
		Token:     pair.RefreshToken,
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	})
	if err != nil {
		return security.TokenPair{}, fmt.Errorf("save refresh token: %w", err)
	}
	return pair, nil
}

func providerOrDefault(p string) string {
	if p == "" {
		return security.DefaultProvider
	}
	return p
}

type LoginUseCase struct {
	accounts domain.Accounts
	hasher   security.PasswordHasher
	sessions sessions
	codes    codeSender
}

func NewLoginUseCase(accounts domain.Accounts, hasher security.PasswordHasher, tokens security.TokenIssuer, refresh domain.RefreshTokenRepository, otps *OtpService, mailer MailSender) *LoginUseCase {
	return &LoginUseCase{
		accounts: accounts,
		hasher:   hasher,
		sessions: sessions{tokens: tokens, refresh: refresh},
		codes:    codeSender{otps: otps, mailer: mailer},
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, in LoginDTO, client ClientInfo) (*LoginResultDTO, error) {
	u, err := uc.accounts.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("login use case: %w", err)
	}
	if u.IsBanned {
		return nil, domain.ErrUserBlocked
	}
	if !uc.hasher.Compare(u.PasswordHash, in.Password) {
		log.Warn("Login rejected, wrong password", zap.String("userID", u.ID.String()))
		return nil, domain.ErrInvalidPassword
	}

	if !u.IsVerified {
		if err := uc.codes.send(ctx, u, domain.OtpVerifyEmail); err != nil {
			return nil, fmt.Errorf("login use case: %w", err)
		}
	}

	provider := providerOrDefault(in.Provider)
	pair, err := uc.sessions.open(ctx, u, provider, client)
	if err != nil {
		return nil, fmt.Errorf("login use case: %w", err)
	}

	log.Info("User logged in", zap.String("userID", u.ID.String()), zap.String("ip", client.IP))
	return &LoginResultDTO{
		User: LoginUserDTO{
			UserID:     u.ID,
			Email:      u.Email,
			Role:       u.Role,
			Username:   u.Username,
			IsVerified: u.IsVerified,
			IsBanned:   u.IsBanned,
			Provider:   provider,
		},
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}
