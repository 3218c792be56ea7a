package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianortiz/bidmarket/internal/auth/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/cristianortiz/bidmarket/internal/shared/security"
	userdomain "github.com/cristianortiz/bidmarket/internal/user/domain"
	"go.uber.org/zap"
)

// VerificationUseCase covers the OTP backed flows: email verification and
// password reset.
type VerificationUseCase struct {
	accounts domain.Accounts
	hasher   security.PasswordHasher
	otps     *OtpService
	codes    codeSender
	tx       db.Transactor
}

func NewVerificationUseCase(accounts domain.Accounts, hasher security.PasswordHasher, otps *OtpService, mailer MailSender, tx db.Transactor) *VerificationUseCase {
	return &VerificationUseCase{
		accounts: accounts,
		hasher:   hasher,
		otps:     otps,
		codes:    codeSender{otps: otps, mailer: mailer},
		tx:       tx,
	}
}

// VerifyOtp checks a code. A VERIFY_EMAIL code verifies the account and is
// consumed; a RESET_PASSWORD code stays live for reset-password.
func (uc *VerificationUseCase) VerifyOtp(ctx context.Context, in VerifyOtpDTO) error {
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.otps.Check(ctx, in.UserID, in.Type, in.Code); err != nil {
			return err
		}
		if in.Type != domain.OtpVerifyEmail {
			return nil
		}
		if err := uc.accounts.SetVerified(ctx, in.UserID); err != nil {
			return err
		}
		return uc.otps.Invalidate(ctx, in.UserID, in.Type)
	})
	if err != nil {
		return fmt.Errorf("verify otp use case: %w", err)
	}
	log.Info("OTP verified", zap.String("userID", in.UserID.String()), zap.String("type", string(in.Type)))
	return nil
}

// CheckEmail starts a password reset by mailing a RESET_PASSWORD code.
func (uc *VerificationUseCase) CheckEmail(ctx context.Context, email string) (*AccountRefDTO, error) {
	u, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotExist) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("check email use case: %w", err)
	}
	if err := uc.codes.send(ctx, u, domain.OtpResetPassword); err != nil {
		return nil, fmt.Errorf("check email use case: %w", err)
	}
	return &AccountRefDTO{UserID: u.ID, Email: u.Email}, nil
}

// ResetPassword requires the live RESET_PASSWORD code and consumes it.
func (uc *VerificationUseCase) ResetPassword(ctx context.Context, in ResetPasswordDTO) error {
	if in.NewPassword != in.ConfirmNewPassword {
		return userdomain.ErrPasswordConfirmMismatch
	}
	hash, err := uc.hasher.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("reset password use case: %w", err)
	}

	err = uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.otps.Check(ctx, in.UserID, domain.OtpResetPassword, in.Code); err != nil {
			return err
		}
		if err := uc.accounts.UpdatePassword(ctx, in.UserID, hash); err != nil {
			return err
		}
		return uc.otps.Invalidate(ctx, in.UserID, domain.OtpResetPassword)
	})
	if err != nil {
		return fmt.Errorf("reset password use case: %w", err)
	}
	log.Info("Password reset", zap.String("userID", in.UserID.String()))
	return nil
}

func (uc *VerificationUseCase) ResendOtp(ctx context.Context, in ResendOtpDTO) error {
	u, err := uc.accounts.GetByEmail(ctx, in.Email)
	if err != nil {
		return fmt.Errorf("resend otp use case: %w", err)
	}
	if in.Type == domain.OtpVerifyEmail && u.IsVerified {
		return domain.ErrEmailAlreadyVerified
	}
	if err := uc.codes.send(ctx, u, in.Type); err != nil {
		return fmt.Errorf("resend otp use case: %w", err)
	}
	return nil
}
