package domain

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/cristianortiz/bidmarket/internal/shared/mail"
	"github.com/google/uuid"
)

// OtpTTL is how long a one-time code stays valid.
const OtpTTL = mail.ExpiresInMinutes * time.Minute

const (
	otpMin   = 100000
	otpRange = 900000
)

type OtpType string

const (
	OtpVerifyEmail   OtpType = "VERIFY_EMAIL"
	OtpResetPassword OtpType = "RESET_PASSWORD"
)

func (t OtpType) Valid() bool {
	return t == OtpVerifyEmail || t == OtpResetPassword
}

// MailKind is the mail template that delivers codes of this type.
func (t OtpType) MailKind() mail.Kind {
	if t == OtpResetPassword {
		return mail.KindResetPassword
	}
	return mail.KindVerifyEmail
}

// Otp is the single live code of a user for one purpose. Code and ExpiresAt
// are nil once the code is invalidated.
type Otp struct {
	UserID    uuid.UUID
	Type      OtpType
	Code      *string
	ExpiresAt *time.Time
}

// NewOtp issues a fresh 6-digit code in [100000, 999999].
func NewOtp(userID uuid.UUID, t OtpType, now time.Time) (*Otp, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpRange))
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64()+otpMin)
	expires := now.Add(OtpTTL)
	return &Otp{UserID: userID, Type: t, Code: &code, ExpiresAt: &expires}, nil
}

// Check fails with ErrOtpNotFound when no live code matches and with
// ErrOtpExpired when the matching code is past its expiry.
func (o *Otp) Check(code string, now time.Time) error {
	if o == nil || o.Code == nil || subtle.ConstantTimeCompare([]byte(*o.Code), []byte(code)) != 1 {
		return ErrOtpNotFound
	}
	if o.ExpiresAt != nil && now.After(*o.ExpiresAt) {
		return ErrOtpExpired
	}
	return nil
}
