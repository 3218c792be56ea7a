package rest

import (
	"net/http"

	"github.com/cristianortiz/bidmarket/internal/address/application"
	"github.com/cristianortiz/bidmarket/internal/address/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/cristianortiz/bidmarket/internal/shared/httpserver"
	"github.com/gofiber/fiber/v2"
)

type addressRequest struct {
	StreetAddress string  `json:"streetAddress" validate:"required,max=255"`
	City          string  `json:"city" validate:"required,max=100"`
	State         *string `json:"state" validate:"omitempty,max=100"`
	PostalCode    *string `json:"postalCode" validate:"omitempty,max=20"`
	Country       string  `json:"country" validate:"required,max=100"`
	AddressType   string  `json:"addressType" validate:"required,oneof=HOME WORK BILLING SHIPPING OTHER"`
}

type AddressHandler struct {
	service application.AddressService
	auth    *httpserver.Authenticator
}

func NewAddressHandler(service application.AddressService, auth *httpserver.Authenticator) *AddressHandler {
	return &AddressHandler{service: service, auth: auth}
}

func (h *AddressHandler) RegisterRoutes(router fiber.Router) {
	g := router.Group("/addresses")
	g.Get("/:userId", h.list)
	g.Put("/", h.auth.Required(), h.replace)
}

func (h *AddressHandler) list(c *fiber.Ctx) error {
	userID, err := httpserver.ParamUUID(c, "userId")
	if err != nil {
		return err
	}
	out, err := h.service.GetAddresses(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Addresses retrieved successfully", out)
}

// replace takes a bare JSON array as body.
func (h *AddressHandler) replace(c *fiber.Ctx) error {
	var req []addressRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.ErrValidation.WithMessage("Request body must be an array of addresses")
	}
	if len(req) > domain.MaxAddresses {
		return domain.ErrTooManyAddresses
	}

	in := make([]application.NewAddressDTO, 0, len(req))
	for _, a := range req {
		if err := httpserver.Validate(a); err != nil {
			return err
		}
		in = append(in, application.NewAddressDTO{
			StreetAddress: a.StreetAddress,
			City:          a.City,
			State:         a.State,
			PostalCode:    a.PostalCode,
			Country:       a.Country,
			AddressType:   domain.Type(a.AddressType),
		})
	}
	if err := h.service.ReplaceAddresses(c.UserContext(), httpserver.ActorFrom(c), in); err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Addresses updated successfully", httpserver.Empty())
}
