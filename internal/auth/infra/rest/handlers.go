package rest

import (
	"net/http"

	"github.com/cristianortiz/bidmarket/internal/auth/application"
	"github.com/cristianortiz/bidmarket/internal/auth/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/httpserver"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Provider string `json:"provider" validate:"omitempty,oneof=local"`
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	IsSeller *bool  `json:"isSeller" validate:"required"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type verifyOtpRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Type   string `json:"type" validate:"required,oneof=VERIFY_EMAIL RESET_PASSWORD"`
	Code   string `json:"code" validate:"required,len=6,numeric"`
}

type checkEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	UserID             string `json:"userId" validate:"required,uuid"`
	Code               string `json:"code" validate:"required,len=6,numeric"`
	NewPassword        string `json:"newPassword" validate:"required,min=6"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,min=6"`
}

type logoutRequest struct {
	UserID       string `json:"userId" validate:"required,uuid"`
	RefreshToken string `json:"refreshToken" validate:"required"`
	Provider     string `json:"provider"`
}

type resendOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Type  string `json:"type" validate:"required,oneof=VERIFY_EMAIL RESET_PASSWORD"`
}

type AuthHandler struct {
	service application.AuthService
}

func NewAuthHandler(service application.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	g := router.Group("/auth")
	g.Post("/login", h.login)
	g.Post("/register", h.register)
	g.Post("/refresh-token", h.refreshToken)
	g.Post("/verify-otp", h.verifyOtp)
	g.Post("/check-email", h.checkEmail)
	g.Post("/reset-password", h.resetPassword)
	g.Post("/logout", h.logout)
	g.Post("/resend-otp", h.resendOtp)
}

func clientInfo(c *fiber.Ctx) application.ClientInfo {
	return application.ClientInfo{IP: c.IP(), UserAgent: c.Get(fiber.HeaderUserAgent)}
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := httpserver.BindAndValidate(c, &req); err != nil {
		return err
	}
	in := application.LoginDTO{Email: req.Email, Password: req.Password, Provider: req.Provider}
	out, err := h.service.Login(c.UserContext(), in, clientInfo(c))
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Login successfully", out)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := httpserver.BindAndValidate(c, &req); err != nil {
		return err
	}
	in := application.RegisterDTO{Email: req.Email, Username: req.Username, Password: req.Password, IsSeller: *req.IsSeller}
	out, err := h.service.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusCreated, "Register successfully", out)
}

func (h *AuthHandler) refreshToken(c *fiber.Ctx) error {
	var req refreshTokenRequest
	if err := httpserver.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := h.service.RefreshToken(c.UserContext(), req.RefreshToken, clientInfo(c))
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Refresh token successfully", out)
}

func (h *AuthHandler) verifyOtp(c *fiber.Ctx) error {
	var req verifyOtpRequest
	if err := httpserver.BindAndValidate(c, &req); err != nil {
		return err
	}
	in := application.VerifyOtpDTO{UserID: uuid.MustParse(req.UserID), Type: domain.OtpType(req.Type), Code: req.Code}
	if err := h.service.VerifyOtp(c.UserContext(), in); err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "OTP verified successfully", httpserver.Empty())
}

func (h *AuthHandler) checkEmail(c *fiber.Ctx) error {
	var req checkEmailRequest
	if err := httpserver.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := h.service.CheckEmail(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "OTP has been sent successfully", out)
}

func (h *AuthHandler) resetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := httpserver.BindAndValidate(c, &req); err != nil {
		return err
	}
	in := application.ResetPasswordDTO{
		UserID:             uuid.MustParse(req.UserID),
		Code:               req.Code,
		NewPassword:        req.NewPassword,
		ConfirmNewPassword: req.ConfirmNewPassword,
	}
	if err := h.service.ResetPassword(c.UserContext(), in); err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Reset password successfully", httpserver.Empty())
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	var req logoutRequest
	if err := httpserver.BindAndValidate(c, &req); err != nil {
		return err
	}
	in := application.LogoutDTO{UserID: uuid.MustParse(req.UserID), RefreshToken: req.RefreshToken, Provider: req.Provider}
	if err := h.service.Logout(c.UserContext(), in); err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Logout successfully", httpserver.Empty())
}

func (h *AuthHandler) resendOtp(c *fiber.Ctx) error {
	var req resendOtpRequest
	if err := httpserver.BindAndValidate(c, &req); err != nil {
		return err
	}
	in := application.ResendOtpDTO{Email: req.Email, Type: domain.OtpType(req.Type)}
	if err := h.service.ResendOtp(c.UserContext(), in); err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "OTP has been resent successfully", httpserver.Empty())
}
