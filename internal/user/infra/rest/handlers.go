package rest

import (
	"net/http"

	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/cristianortiz/bidmarket/internal/shared/httpserver"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/user/application"
	"github.com/gofiber/fiber/v2"
)

type updatePasswordRequest struct {
	NewPassword        string `json:"newPassword" validate:"required,min=6"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,min=6"`
}

type createWarningRequest struct {
	Reason      string  `json:"reason" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type UserHandler struct {
	service application.UserService
	auth    *httpserver.Authenticator
}

func NewUserHandler(service application.UserService, auth *httpserver.Authenticator) *UserHandler {
	return &UserHandler{service: service, auth: auth}
}

func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	g := router.Group("/users", h.auth.Required())
	adminOnly := httpserver.RequireRoles(identity.RoleAdmin)

	g.Get("/", adminOnly, h.find)
	g.Patch("/password", h.updatePassword)
	g.Delete("/warnings/:warningId", adminOnly, h.removeWarning)
	g.Get("/:userId/warnings", adminOnly, h.warnings)
	g.Post("/:userId/warnings", adminOnly, h.createWarning)
	g.Patch("/:userId/ban", adminOnly, h.ban)
	g.Patch("/:userId/unban", adminOnly, h.unban)
}

func (h *UserHandler) find(c *fiber.Ctx) error {
	var (
		in  application.FindUsersDTO
		err error
	)
	if in.Page, err = httpserver.QueryPage(c); err != nil {
		return err
	}
	if in.IsVerified, err = httpserver.QueryBool(c, "isVerified"); err != nil {
		return err
	}
	if in.IsBanned, err = httpserver.QueryBool(c, "isBanned"); err != nil {
		return err
	}
	if in.CreatedAfter, err = httpserver.QueryTime(c, "createdAfter"); err != nil {
		return err
	}
	if in.CreatedBefore, err = httpserver.QueryTime(c, "createdBefore"); err != nil {
		return err
	}
	if raw := c.Query("role"); raw != "" {
		role := identity.Role(raw)
		if !role.Valid() {
			return apperror.ErrValidation.WithMessage("role must be one of ADMIN, BIDDER, SELLER")
		}
		in.Role = &role
	}
	in.Email = c.Query("email")
	in.Username = c.Query("username")

	out, err := h.service.FindUsers(c.UserContext(), in)
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Users retrieved successfully", out)
}

func (h *UserHandler) updatePassword(c *fiber.Ctx) error {
	var req updatePasswordRequest
	if err := httpserver.BindAndValidate(c, &req); err != nil {
		return err
	}
	in := application.UpdatePasswordDTO{NewPassword: req.NewPassword, ConfirmNewPassword: req.ConfirmNewPassword}
	if err := h.service.UpdatePassword(c.UserContext(), httpserver.ActorFrom(c), in); err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Update password successfully", httpserver.Empty())
}

func (h *UserHandler) warnings(c *fiber.Ctx) error {
	userID, err := httpserver.ParamUUID(c, "userId")
	if err != nil {
		return err
	}
	out, err := h.service.GetUserWarnings(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "User warnings retrieved successfully", out)
}

func (h *UserHandler) createWarning(c *fiber.Ctx) error {
	userID, err := httpserver.ParamUUID(c, "userId")
	if err != nil {
		return err
	}
	var req createWarningRequest
	if err := httpserver.BindAndValidate(c, &req); err != nil {
		return err
	}
	in := application.CreateWarningDTO{UserID: userID, Reason: req.Reason, Description: req.Description}
	out, err := h.service.CreateWarning(c.UserContext(), httpserver.ActorFrom(c), in)
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusCreated, "Warning created successfully", out)
}

func (h *UserHandler) removeWarning(c *fiber.Ctx) error {
	warningID, err := httpserver.ParamUUID(c, "warningId")
	if err != nil {
		return err
	}
	out, err := h.service.RemoveWarning(c.UserContext(), warningID)
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Warning removed successfully", out)
}

func (h *UserHandler) ban(c *fiber.Ctx) error {
	userID, err := httpserver.ParamUUID(c, "userId")
	if err != nil {
		return err
	}
	out, err := h.service.BanUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "User banned successfully", out)
}

func (h *UserHandler) unban(c *fiber.Ctx) error {
	userID, err := httpserver.ParamUUID(c, "userId")
	if err != nil {
		return err
	}
	out, err := h.service.UnbanUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "User unbanned successfully", out)
}
