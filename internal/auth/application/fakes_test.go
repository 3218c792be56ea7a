package application

import (
	"context"
	"errors"
	"time"

	"github.com/cristianortiz/bidmarket/internal/auth/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/mail"
	"github.com/cristianortiz/bidmarket/internal/shared/security"
	userdomain "github.com/cristianortiz/bidmarket/internal/user/domain"
	"github.com/google/uuid"
)

var clock = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

type memAccounts struct {
	users map[uuid.UUID]*userdomain.User
}

func (m *memAccounts) add(u *userdomain.User) *userdomain.User {
	c := *u
	m.users[u.ID] = &c
	return u
}

func (m *memAccounts) Create(_ context.Context, u *userdomain.User) error {
	m.add(u)
	return nil
}

func (m *memAccounts) GetByID(_ context.Context, id uuid.UUID) (*userdomain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, userdomain.ErrUserNotExist
	}
	c := *u
	return &c, nil
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (*userdomain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, userdomain.ErrUserNotExist
}

func (m *memAccounts) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memAccounts) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAccounts) SetVerified(_ context.Context, id uuid.UUID) error {
	u, ok := m.users[id]
	if !ok {
		return userdomain.ErrUserNotExist
	}
	u.IsVerified = true
	return nil
}

func (m *memAccounts) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return userdomain.ErrUserNotExist
	}
	u.PasswordHash = hash
	return nil
}

type otpKey struct {
	user uuid.UUID
	kind domain.OtpType
}

type memOtps map[otpKey]domain.Otp

func (m memOtps) Upsert(_ context.Context, o *domain.Otp) error {
	m[otpKey{o.UserID, o.Type}] = *o
	return nil
}

func (m memOtps) Get(_ context.Context, userID uuid.UUID, t domain.OtpType) (*domain.Otp, error) {
	o, ok := m[otpKey{userID, t}]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (m memOtps) Invalidate(_ context.Context, userID uuid.UUID, t domain.OtpType) error {
	k := otpKey{userID, t}
	if o, ok := m[k]; ok {
		o.Code, o.ExpiresAt = nil, nil
		m[k] = o
	}
	return nil
}

func (m memOtps) code(userID uuid.UUID, t domain.OtpType) string {
	o, ok := m[otpKey{userID, t}]
	if !ok || o.Code == nil {
		return ""
	}
	return *o.Code
}

type tokenKey struct {
	user     uuid.UUID
	provider string
}

type memRefresh map[tokenKey]domain.RefreshToken

func (m memRefresh) Save(_ context.Context, t domain.RefreshToken) error {
	t.IsRevoked = false
	m[tokenKey{t.UserID, t.Provider}] = t
	return nil
}

func (m memRefresh) Exists(_ context.Context, userID uuid.UUID, provider, token string) (bool, error) {
	t, ok := m[tokenKey{userID, provider}]
	return ok && !t.IsRevoked && t.Token == token, nil
}

func (m memRefresh) Revoke(_ context.Context, userID uuid.UUID, provider, token string) error {
	k := tokenKey{userID, provider}
	if t, ok := m[k]; ok && t.Token == token {
		t.IsRevoked = true
		m[k] = t
	}
	return nil
}

type sentMail struct {
	to   string
	code string
	kind mail.Kind
}

type recordingMailer struct {
	sent []sentMail
	fail bool
}

func (r *recordingMailer) SendOTP(_ context.Context, to, code string, kind mail.Kind) error {
	if r.fail {
		return errors.New("smtp down")
	}
	r.sent = append(r.sent, sentMail{to, code, kind})
	return nil
}

type plainHasher struct{}

func (plainHasher) Hash(pw string) (string, error) { return "hashed:" + pw, nil }

func (plainHasher) Compare(hash, pw string) bool { return hash == "hashed:"+pw }

type passTx struct{}

func (passTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	accounts *memAccounts
	otps     memOtps
	refresh  memRefresh
	mailer   *recordingMailer
	tokens   *security.JWTService
	now      time.Time
	service  AuthService
}

func newFixture() *fixture {
	f := &fixture{
		accounts: &memAccounts{users: map[uuid.UUID]*userdomain.User{}},
		otps:     memOtps{},
		refresh:  memRefresh{},
		mailer:   &recordingMailer{},
		tokens:   security.NewJWTService("access", "refresh", time.Minute, time.Hour),
		now:      clock,
	}
	otps := NewOtpService(f.otps, func() time.Time { return f.now })
	f.service = NewAuthService(
		NewLoginUseCase(f.accounts, plainHasher{}, f.tokens, f.refresh, otps, f.mailer),
		NewRegisterUseCase(f.accounts, plainHasher{}, otps, f.mailer, passTx{}),
		NewSessionUseCase(f.accounts, f.tokens, f.refresh),
		NewVerificationUseCase(f.accounts, plainHasher{}, otps, f.mailer, passTx{}),
	)
	return f
}

func (f *fixture) user(email string, verified, banned bool) *userdomain.User {
	u := userdomain.NewUser(email, email, "hashed:secret1", false)
	u.IsVerified = verified
	u.IsBanned = banned
	return f.accounts.add(u)
}
