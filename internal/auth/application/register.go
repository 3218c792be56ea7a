package application

import (
	"context"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/auth/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/cristianortiz/bidmarket/internal/shared/security"
	userdomain "github.com/cristianortiz/bidmarket/internal/user/domain"
	"go.uber.org/zap"
)

type RegisterUseCase struct {
	accounts domain.Accounts
	hasher   security.PasswordHasher
	codes    codeSender
	tx       db.Transactor
}

func NewRegisterUseCase(accounts domain.Accounts, hasher security.PasswordHasher, otps *OtpService, mailer MailSender, tx db.Transactor) *RegisterUseCase {
	return &RegisterUseCase{accounts: accounts, hasher: hasher, codes: codeSender{otps: otps, mailer: mailer}, tx: tx}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, in RegisterDTO) (*AccountRefDTO, error) {
	taken, err := uc.accounts.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("register use case: %w", err)
	}
	if taken {
		return nil, domain.ErrEmailAlreadyExists
	}
	taken, err = uc.accounts.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("register use case: %w", err)
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register use case: %w", err)
	}
	u := userdomain.NewUser(in.Email, in.Username, hash, in.IsSeller)

	var code string
	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.accounts.Create(ctx, u); err != nil {
			return err
		}
		code, err = uc.codes.issue(ctx, u, domain.OtpVerifyEmail)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("register use case: %w", err)
	}
	uc.codes.deliver(ctx, u, domain.OtpVerifyEmail, code)

	log.Info("User registered", zap.String("userID", u.ID.String()), zap.String("role", string(u.Role)))
	return &AccountRefDTO{UserID: u.ID, Email: u.Email}, nil
}
