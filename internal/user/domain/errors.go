package domain

import (
	"net/http"

	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
)

var (
	ErrUserNotExist            = apperror.New(http.StatusNotFound, "USER_NOT_EXIST", "User does not exist")
	ErrUserAlreadyBanned       = apperror.New(http.StatusConflict, "USER_ALREADY_BANNED", "User is already banned")
	ErrUserNotBanned           = apperror.New(http.StatusBadRequest, "USER_NOT_BANNED", "User is not banned")
	ErrWarningNotFound         = apperror.New(http.StatusNotFound, "WARNING_NOT_FOUND", "Warning does not exist")
	ErrPasswordConfirmMismatch = apperror.New(http.StatusBadRequest, "PASSWORD_CONFIRM_MISMATCH", "New password and confirm password do not match")
)
