package domain

import (
	"net/http"

	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
)

var (
	ErrUserBlocked          = apperror.New(http.StatusForbidden, "USER_IS_BLOCKED", "User is blocked")
	ErrInvalidPassword      = apperror.New(http.StatusUnauthorized, "INVALID_PASSWORD", "Password is incorrect")
	ErrEmailAlreadyExists   = apperror.New(http.StatusConflict, "EMAIL_ALREADY_EXISTS", "Email already exists")
	ErrUsernameTaken        = apperror.New(http.StatusConflict, "USERNAME_ALREADY_EXISTS", "Username already exists")
	ErrEmailAlreadyVerified = apperror.New(http.StatusBadRequest, "EMAIL_ALREADY_VERIFIED", "Email already verified")
	ErrRefreshTokenNotFound = apperror.New(http.StatusUnauthorized, "REFRESH_TOKEN_NOT_FOUND", "Refresh token not found")
	ErrUserNotFound         = apperror.New(http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	ErrInvalidLogoutToken   = apperror.New(http.StatusUnauthorized, "INVALID_LOGOUT_TOKEN", "Invalid token for logout or token does not belong to the user")

	ErrOtpNotFound = apperror.New(http.StatusUnauthorized, "OTP_NOT_FOUND", "OTP code not found or expired")
	ErrOtpExpired  = apperror.New(http.StatusUnauthorized, "OTP_EXPIRED", "OTP code has expired")
)
