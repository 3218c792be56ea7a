package apperror

import (
	"errors"
	"net/http"
)

// Error is the static error object returned to API clients as
// {statusCode, message, errorCode}.
type Error struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	ErrorCode  string `json:"errorCode"`
}

func New(statusCode int, errorCode, message string) *Error {
	return &Error{StatusCode: statusCode, Message: message, ErrorCode: errorCode}
}

func (e *Error) Error() string {
	return e.ErrorCode + ": " + e.Message
}

// Is matches on the error code so that errors built per call (with a dynamic
// message) still match their sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.ErrorCode == t.ErrorCode
}

// WithMessage copies the error replacing its message.
func (e *Error) WithMessage(message string) *Error {
	return &Error{StatusCode: e.StatusCode, Message: message, ErrorCode: e.ErrorCode}
}

// CodeOf returns the error code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.ErrorCode
	}
	return ""
}

var (
	ErrInternal   = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred")
	ErrValidation = New(http.StatusBadRequest, "CLASS_VALIDATION_FAILED", "Class validation failed")

	ErrAccessTokenExpired  = New(http.StatusUnauthorized, "ACCESS_TOKEN_EXPIRED", "Access token has expired")
	ErrInvalidAccessToken  = New(http.StatusUnauthorized, "INVALID_ACCESS_TOKEN", "Access token is invalid")
	ErrUnknownAccessToken  = New(http.StatusUnauthorized, "UNKNOWN_ACCESS_TOKEN", "Unknown error occurred while verifying access token")
	ErrRefreshTokenExpired = New(http.StatusUnauthorized, "REFRESH_TOKEN_EXPIRED", "Refresh token has expired")
	ErrInvalidRefreshToken = New(http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Refresh token is invalid")
	ErrUnknownRefreshToken = New(http.StatusUnauthorized, "UNKNOWN_REFRESH_TOKEN", "Unknown error occurred while verifying refresh token")
	ErrMissingAuthHeader   = New(http.StatusUnauthorized, "MISSING_AUTH_HEADER", "Authorization header is missing or malformed")

	ErrUserBanned     = New(http.StatusForbidden, "USER_IS_BANNED", "User is banned")
	ErrUserForbidden  = New(http.StatusForbidden, "USER_NOT_PERMISSION", "You do not have permission to access this resource")
	ErrUserUnverified = New(http.StatusUnauthorized, "USER_IS_UNVERIFIED", "Your account has not been verified yet.")
)
