package application

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianortiz/bidmarket/internal/auth/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/logger"
	"github.com/cristianortiz/bidmarket/internal/shared/mail"
	userdomain "github.com/cristianortiz/bidmarket/internal/user/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// OtpService issues, checks and invalidates one-time codes.
type OtpService struct {
	repo domain.OtpRepository
	now  func() time.Time
}

func NewOtpService(repo domain.OtpRepository, now func() time.Time) *OtpService {
	return &OtpService{repo: repo, now: now}
}

// Create replaces any previous code of the same type and returns the new one.
func (s *OtpService) Create(ctx context.Context, userID uuid.UUID, t domain.OtpType) (string, error) {
	o, err := domain.NewOtp(userID, t, s.now())
	if err != nil {
		return "", err
	}
	if err := s.repo.Upsert(ctx, o); err != nil {
		return "", fmt.Errorf("save otp: %w", err)
	}
	return *o.Code, nil
}

func (s *OtpService) Check(ctx context.Context, userID uuid.UUID, t domain.OtpType, code string) error {
	o, err := s.repo.Get(ctx, userID, t)
	if err != nil {
		return fmt.Errorf("load otp: %w", err)
	}
	return o.Check(code, s.now())
}

func (s *OtpService) Invalidate(ctx context.Context, userID uuid.UUID, t domain.OtpType) error {
	if err := s.repo.Invalidate(ctx, userID, t); err != nil {
		return fmt.Errorf("invalidate otp: %w", err)
	}
	return nil
}

// codeSender creates a code and mails it. Delivery failures are logged only,
// the user can ask for the code again through resend-otp.
type codeSender struct {
	otps   *OtpService
	mailer mail.Mailer
}

func (s codeSender) issue(ctx context.Context, u *userdomain.User, t domain.OtpType) (string, error) {
	return s.otps.Create(ctx, u.ID, t)
}

func (s codeSender) deliver(ctx context.Context, u *userdomain.User, t domain.OtpType, code string) {
	if err := s.mailer.SendOTP(ctx, u.Email, code, t.MailKind()); err != nil {
		log.Warn("Failed to deliver OTP mail",
			zap.String("userID", u.ID.String()),
			zap.String("type", string(t)),
			zap.Error(err),
		)
	}
}

func (s codeSender) send(ctx context.Context, u *userdomain.User, t domain.OtpType) error {
	code, err := s.issue(ctx, u, t)
	if err != nil {
		return err
	}
	s.deliver(ctx, u, t, code)
	return nil
}
