package rest

import (
	"net/http"
	"strings"

	"github.com/cristianortiz/bidmarket/internal/profile/application"
	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/cristianortiz/bidmarket/internal/shared/httpserver"
	"github.com/cristianortiz/bidmarket/internal/shared/storage"
	"github.com/gofiber/fiber/v2"
)

type profileForm struct {
	FullName    *string `json:"fullName" validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,max=20"`
}

func optional(c *fiber.Ctx, field string) *string {
	v := strings.TrimSpace(c.FormValue(field))
	if v == "" {
		return nil
	}
	return &v
}

type ProfileHandler struct {
	service application.ProfileService
	auth    *httpserver.Authenticator
}

func NewProfileHandler(service application.ProfileService, auth *httpserver.Authenticator) *ProfileHandler {
	return &ProfileHandler{service: service, auth: auth}
}

func (h *ProfileHandler) RegisterRoutes(router fiber.Router) {
	g := router.Group("/profile")
	g.Get("/:userId", h.auth.Optional(), h.get)
	g.Put("/", h.auth.Required(), h.update)
}

func (h *ProfileHandler) get(c *fiber.Ctx) error {
	userID, err := httpserver.ParamUUID(c, "userId")
	if err != nil {
		return err
	}
	out, err := h.service.GetProfile(c.UserContext(), httpserver.ActorFrom(c), userID)
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Get profile successfully", out)
}

func (h *ProfileHandler) update(c *fiber.Ctx) error {
	form := profileForm{FullName: optional(c, "fullName"), PhoneNumber: optional(c, "phoneNumber")}
	if err := httpserver.Validate(form); err != nil {
		return err
	}

	files, release, err := httpserver.FormFiles(c, "avatar")
	if err != nil {
		return err
	}
	defer release()
	if len(files) > 1 {
		return apperror.ErrValidation.WithMessage("Only one avatar can be uploaded")
	}

	in := application.UpdateProfileDTO{FullName: form.FullName, PhoneNumber: form.PhoneNumber}
	var avatar *storage.File
	if len(files) == 1 {
		avatar = &files[0]
	}
	out, err := h.service.UpdateProfile(c.UserContext(), httpserver.ActorFrom(c), in, avatar)
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Profile updated successfully", out)
}
