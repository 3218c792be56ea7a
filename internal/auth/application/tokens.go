package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/auth/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/security"
	userdomain "github.com/cristianortiz/bidmarket/internal/user/domain"
	"go.uber.org/zap"
)

// SessionUseCase rotates and revokes refresh tokens.
type SessionUseCase struct {
	accounts domain.Accounts
	tokens   security.TokenIssuer
	refresh  domain.RefreshTokenRepository
	sessions sessions
}

func NewSessionUseCase(accounts domain.Accounts, tokens security.TokenIssuer, refresh domain.RefreshTokenRepository) *SessionUseCase {
	return &SessionUseCase{
		accounts: accounts,
		tokens:   tokens,
		refresh:  refresh,
		sessions: sessions{tokens: tokens, refresh: refresh},
	}
}

func (uc *SessionUseCase) Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*TokensDTO, error) {
	claims, err := uc.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	provider := providerOrDefault(claims.Provider)

	live, err := uc.refresh.Exists(ctx, claims.UserID, provider, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh token use case: %w", err)
	}
	if !live {
		return nil, domain.ErrRefreshTokenNotFound
	}

	u, err := uc.accounts.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotExist) {
			return nil, domain.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("refresh token use case: %w", err)
	}
	if u.IsBanned {
		return nil, domain.ErrUserBlocked
	}

	pair, err := uc.sessions.open(ctx, u, provider, client)
	if err != nil {
		return nil, fmt.Errorf("refresh token use case: %w", err)
	}
	return &TokensDTO{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (uc *SessionUseCase) Logout(ctx context.Context, in LogoutDTO) error {
	claims, err := uc.tokens.VerifyRefreshToken(in.RefreshToken)
	if err != nil {
		return err
	}
	provider := providerOrDefault(in.Provider)
	if claims.UserID != in.UserID || providerOrDefault(claims.Provider) != provider {
		return domain.ErrInvalidLogoutToken
	}
	if err := uc.refresh.Revoke(ctx, in.UserID, provider, in.RefreshToken); err != nil {
		return fmt.Errorf("logout use case: %w", err)
	}
	log.Info("User logged out", zap.String("userID", in.UserID.String()))
	return nil
}
