package application

import (
	"context"
	"testing"
	"time"

	"github.com/cristianortiz/bidmarket/internal/auth/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/shared/mail"
	"github.com/cristianortiz/bidmarket/internal/shared/security"
	userdomain "github.com/cristianortiz/bidmarket/internal/user/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var client = ClientInfo{IP: "10.0.0.1", UserAgent: "curl/8"}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("verified user gets tokens and a stored refresh token", func(t *testing.T) {
		f := newFixture()
		u := f.user("ana@x.io", true, false)

		out, err := f.service.Login(ctx, LoginDTO{Email: "ana@x.io", Password: "secret1"}, client)
		require.NoError(t, err)
		assert.Equal(t, u.ID, out.User.UserID)
		assert.Equal(t, identity.RoleBidder, out.User.Role)
		assert.Equal(t, security.DefaultProvider, out.User.Provider)
		assert.Empty(t, f.mailer.sent)

		stored := f.refresh[tokenKey{u.ID, security.DefaultProvider}]
		assert.Equal(t, out.RefreshToken, stored.Token)
		assert.Equal(t, "10.0.0.1", stored.IPAddress)
		assert.Equal(t, "curl/8", stored.UserAgent)

		claims, err := f.tokens.VerifyAccessToken(out.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, security.DefaultProvider, claims.Provider)
	})

	t.Run("unverified user is mailed a verification code", func(t *testing.T) {
		f := newFixture()
		u := f.user("bo@x.io", false, false)

		_, err := f.service.Login(ctx, LoginDTO{Email: "bo@x.io", Password: "secret1"}, client)
		require.NoError(t, err)
		require.Len(t, f.mailer.sent, 1)
		assert.Equal(t, mail.KindVerifyEmail, f.mailer.sent[0].kind)
		assert.Equal(t, f.otps.code(u.ID, domain.OtpVerifyEmail), f.mailer.sent[0].code)
	})

	t.Run("rejections", func(t *testing.T) {
		f := newFixture()
		f.user("ana@x.io", true, false)
		f.user("banned@x.io", true, true)

		_, err := f.service.Login(ctx, LoginDTO{Email: "ghost@x.io", Password: "secret1"}, client)
		assert.ErrorIs(t, err, userdomain.ErrUserNotExist)

		_, err = f.service.Login(ctx, LoginDTO{Email: "banned@x.io", Password: "secret1"}, client)
		assert.ErrorIs(t, err, domain.ErrUserBlocked)

		_, err = f.service.Login(ctx, LoginDTO{Email: "ana@x.io", Password: "wrong"}, client)
		assert.ErrorIs(t, err, domain.ErrInvalidPassword)
		assert.Empty(t, f.refresh)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.user("taken@x.io", true, false)

	out, err := f.service.Register(ctx, RegisterDTO{Email: "new@x.io", Username: "newbie", Password: "secret1", IsSeller: true})
	require.NoError(t, err)
	assert.Equal(t, "new@x.io", out.Email)

	u := f.accounts.users[out.UserID]
	require.NotNil(t, u)
	assert.Equal(t, identity.RoleSeller, u.Role)
	assert.Equal(t, "hashed:secret1", u.PasswordHash)
	assert.False(t, u.IsVerified)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "new@x.io", f.mailer.sent[0].to)
	assert.Equal(t, f.otps.code(u.ID, domain.OtpVerifyEmail), f.mailer.sent[0].code)

	_, err = f.service.Register(ctx, RegisterDTO{Email: "taken@x.io", Username: "other", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = f.service.Register(ctx, RegisterDTO{Email: "other@x.io", Username: "newbie", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	f := newFixture()
	f.mailer.fail = true

	out, err := f.service.Register(context.Background(), RegisterDTO{Email: "new@x.io", Username: "newbie", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, f.otps.code(out.UserID, domain.OtpVerifyEmail))
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u := f.user("ana@x.io", true, false)

	login, err := f.service.Login(ctx, LoginDTO{Email: "ana@x.io", Password: "secret1"}, client)
	require.NoError(t, err)

	rotated, err := f.service.RefreshToken(ctx, login.RefreshToken, client)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, rotated.RefreshToken, f.refresh[tokenKey{u.ID, security.DefaultProvider}].Token)

	_, err = f.service.RefreshToken(ctx, login.RefreshToken, client)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenNotFound)

	_, err = f.service.RefreshToken(ctx, "garbage", client)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", apperror.CodeOf(err))

	f.accounts.users[u.ID].IsBanned = true
	_, err = f.service.RefreshToken(ctx, rotated.RefreshToken, client)
	assert.ErrorIs(t, err, domain.ErrUserBlocked)
}

func TestVerifyOtp(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	out, err := f.service.Register(ctx, RegisterDTO{Email: "new@x.io", Username: "newbie", Password: "secret1"})
	require.NoError(t, err)
	code := f.otps.code(out.UserID, domain.OtpVerifyEmail)

	err = f.service.VerifyOtp(ctx, VerifyOtpDTO{UserID: out.UserID, Type: domain.OtpVerifyEmail, Code: "000000"})
	assert.ErrorIs(t, err, domain.ErrOtpNotFound)

	f.now = clock.Add(domain.OtpTTL + time.Second)
	err = f.service.VerifyOtp(ctx, VerifyOtpDTO{UserID: out.UserID, Type: domain.OtpVerifyEmail, Code: code})
	assert.ErrorIs(t, err, domain.ErrOtpExpired)

	f.now = clock.Add(time.Minute)
	require.NoError(t, f.service.VerifyOtp(ctx, VerifyOtpDTO{UserID: out.UserID, Type: domain.OtpVerifyEmail, Code: code}))
	assert.True(t, f.accounts.users[out.UserID].IsVerified)

	err = f.service.VerifyOtp(ctx, VerifyOtpDTO{UserID: out.UserID, Type: domain.OtpVerifyEmail, Code: code})
	assert.ErrorIs(t, err, domain.ErrOtpNotFound, "code is consumed")
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u := f.user("ana@x.io", true, false)

	_, err := f.service.CheckEmail(ctx, "ghost@x.io")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	ref, err := f.service.CheckEmail(ctx, "ana@x.io")
	require.NoError(t, err)
	assert.Equal(t, u.ID, ref.UserID)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, mail.KindResetPassword, f.mailer.sent[0].kind)
	code := f.mailer.sent[0].code

	require.NoError(t, f.service.VerifyOtp(ctx, VerifyOtpDTO{UserID: u.ID, Type: domain.OtpResetPassword, Code: code}))
	assert.Equal(t, code, f.otps.code(u.ID, domain.OtpResetPassword), "reset code survives verification")

	err = f.service.ResetPassword(ctx, ResetPasswordDTO{UserID: u.ID, Code: code, NewPassword: "newpass", ConfirmNewPassword: "other"})
	assert.ErrorIs(t, err, userdomain.ErrPasswordConfirmMismatch)

	err = f.service.ResetPassword(ctx, ResetPasswordDTO{UserID: u.ID, Code: "111111", NewPassword: "newpass", ConfirmNewPassword: "newpass"})
	assert.ErrorIs(t, err, domain.ErrOtpNotFound)
	assert.Equal(t, "hashed:secret1", f.accounts.users[u.ID].PasswordHash)

	require.NoError(t, f.service.ResetPassword(ctx, ResetPasswordDTO{UserID: u.ID, Code: code, NewPassword: "newpass", ConfirmNewPassword: "newpass"}))
	assert.Equal(t, "hashed:newpass", f.accounts.users[u.ID].PasswordHash)
	assert.Empty(t, f.otps.code(u.ID, domain.OtpResetPassword))
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u := f.user("ana@x.io", true, false)
	other := f.user("bo@x.io", true, false)

	login, err := f.service.Login(ctx, LoginDTO{Email: "ana@x.io", Password: "secret1"}, client)
	require.NoError(t, err)

	err = f.service.Logout(ctx, LogoutDTO{UserID: other.ID, RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrInvalidLogoutToken)

	err = f.service.Logout(ctx, LogoutDTO{UserID: u.ID, RefreshToken: login.RefreshToken, Provider: "google"})
	assert.ErrorIs(t, err, domain.ErrInvalidLogoutToken)

	require.NoError(t, f.service.Logout(ctx, LogoutDTO{UserID: u.ID, RefreshToken: login.RefreshToken}))
	assert.True(t, f.refresh[tokenKey{u.ID, security.DefaultProvider}].IsRevoked)

	_, err = f.service.RefreshToken(ctx, login.RefreshToken, client)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenNotFound)
}

func TestResendOtp(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.user("verified@x.io", true, false)
	pending := f.user("pending@x.io", false, false)

	err := f.service.ResendOtp(ctx, ResendOtpDTO{Email: "verified@x.io", Type: domain.OtpVerifyEmail})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyVerified)

	require.NoError(t, f.service.ResendOtp(ctx, ResendOtpDTO{Email: "verified@x.io", Type: domain.OtpResetPassword}))

	require.NoError(t, f.service.ResendOtp(ctx, ResendOtpDTO{Email: "pending@x.io", Type: domain.OtpVerifyEmail}))
	require.NoError(t, f.service.ResendOtp(ctx, ResendOtpDTO{Email: "pending@x.io", Type: domain.OtpVerifyEmail}))
	assert.Equal(t, f.mailer.sent[len(f.mailer.sent)-1].code, f.otps.code(pending.ID, domain.OtpVerifyEmail))
	assert.Len(t, f.mailer.sent, 3)

	err = f.service.ResendOtp(ctx, ResendOtpDTO{Email: "ghost@x.io", Type: domain.OtpVerifyEmail})
	assert.ErrorIs(t, err, userdomain.ErrUserNotExist)
}
