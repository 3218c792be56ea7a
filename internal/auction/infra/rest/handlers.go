package rest

import (
	"net/http"
	"time"

	"github.com/cristianortiz/bidmarket/internal/auction/application"
	"github.com/cristianortiz/bidmarket/internal/auction/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/cristianortiz/bidmarket/internal/shared/httpserver"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type lineRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// auctionRequest is the body of create and update. Prices travel as numeric
// strings to keep their precision.
type auctionRequest struct {
	Title               string        `json:"title" validate:"required,max=255"`
	StartTime           time.Time     `json:"startTime" validate:"required"`
	EndTime             time.Time     `json:"endTime" validate:"required"`
	StartingPrice       string        `json:"startingPrice" validate:"required,numeric"`
	MinimumBidIncrement string        `json:"minimumBidIncrement" validate:"required,numeric"`
	Products            []lineRequest `json:"products" validate:"required,min=1,dive"`
}

func (r auctionRequest) toInput() (application.AuctionInputDTO, error) {
	starting, err := decimal.NewFromString(r.StartingPrice)
	if err != nil {
		return application.AuctionInputDTO{}, domain.ErrInvalidAuctionPrice
	}
	increment, err := decimal.NewFromString(r.MinimumBidIncrement)
	if err != nil {
		return application.AuctionInputDTO{}, domain.ErrInvalidAuctionPrice
	}
	lines := make([]application.LineDTO, len(r.Products))
	for i, p := range r.Products {
		// already validated as uuid
		lines[i] = application.LineDTO{ProductID: uuid.MustParse(p.ProductID), Quantity: p.Quantity}
	}
	return application.AuctionInputDTO{
		Title:               r.Title,
		StartTime:           r.StartTime,
		EndTime:             r.EndTime,
		StartingPrice:       starting,
		MinimumBidIncrement: increment,
		Products:            lines,
	}, nil
}

type cancelRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type extendRequest struct {
	NewEndTime time.Time `json:"newEndTime" validate:"required"`
}

type AuctionHandler struct {
	service application.AuctionService
	auth    *httpserver.Authenticator
}

func NewAuctionHandler(service application.AuctionService, auth *httpserver.Authenticator) *AuctionHandler {
	return &AuctionHandler{service: service, auth: auth}
}

func (h *AuctionHandler) RegisterRoutes(router fiber.Router) {
	g := router.Group("/auctions")

	g.Get("/", h.search)
	g.Get("/:id", h.detail)

	g.Post("/", h.auth.Required(), httpserver.RequireRoles(identity.RoleSeller), h.create)
	g.Put("/:id", h.auth.Required(), httpserver.RequireRoles(identity.RoleSeller), h.update)
	g.Patch("/:id/confirm", h.auth.Required(), httpserver.RequireRoles(identity.RoleAdmin), h.confirm)
	g.Patch("/:id/cancel", h.auth.Required(), httpserver.RequireRoles(identity.RoleAdmin), h.cancel)
	g.Patch("/:id/close", h.auth.Required(), httpserver.RequireRoles(identity.RoleSeller, identity.RoleAdmin), h.close)
	g.Patch("/:id/reopen", h.auth.Required(), httpserver.RequireRoles(identity.RoleSeller, identity.RoleAdmin), h.reopen)
	g.Patch("/:id/extend", h.auth.Required(), httpserver.RequireRoles(identity.RoleSeller), h.extend)
}

func (h *AuctionHandler) create(c *fiber.Ctx) error {
	var req auctionRequest
	if err := httpserver.BindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}
	out, err := h.service.CreateAuction(c.UserContext(), httpserver.ActorFrom(c), in)
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusCreated, "Auction created successfully", out)
}

func (h *AuctionHandler) detail(c *fiber.Ctx) error {
	id, err := httpserver.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.service.GetAuctionDetail(c.UserContext(), id)
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Auction detail retrieved successfully", out)
}

func (h *AuctionHandler) update(c *fiber.Ctx) error {
	id, err := httpserver.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req auctionRequest
	if err := httpserver.BindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}
	if err := h.service.UpdateAuction(c.UserContext(), httpserver.ActorFrom(c), id, in); err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Auction updated successfully", httpserver.Empty())
}

func (h *AuctionHandler) confirm(c *fiber.Ctx) error {
	id, err := httpserver.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.ConfirmAuction(c.UserContext(), id); err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Auction confirmed successfully", httpserver.Empty())
}

func (h *AuctionHandler) cancel(c *fiber.Ctx) error {
	id, err := httpserver.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req cancelRequest
	if err := httpserver.BindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.CancelAuction(c.UserContext(), id, req.Reason); err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Auction canceled successfully", httpserver.Empty())
}

func (h *AuctionHandler) close(c *fiber.Ctx) error {
	id, err := httpserver.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.CloseAuction(c.UserContext(), httpserver.ActorFrom(c), id); err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Auction closed successfully", nil)
}

func (h *AuctionHandler) reopen(c *fiber.Ctx) error {
	id, err := httpserver.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.ReopenAuction(c.UserContext(), httpserver.ActorFrom(c), id); err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Auction reopened successfully", httpserver.Empty())
}

func (h *AuctionHandler) extend(c *fiber.Ctx) error {
	id, err := httpserver.ParamUUID(c, "id")
	if err != nil {
		return err
	}
	var req extendRequest
	if err := httpserver.BindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.service.ExtendAuction(c.UserContext(), httpserver.ActorFrom(c), id, req.NewEndTime); err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Auction extended successfully", httpserver.Empty())
}

func (h *AuctionHandler) search(c *fiber.Ctx) error {
	q, err := parseSearch(c)
	if err != nil {
		return err
	}
	out, err := h.service.SearchAuctions(c.UserContext(), q)
	if err != nil {
		return err
	}
	return httpserver.Respond(c, http.StatusOK, "Auctions retrieved successfully", out)
}

func parseSearch(c *fiber.Ctx) (application.SearchAuctionsDTO, error) {
	var (
		q   application.SearchAuctionsDTO
		err error
	)
	if q.Page, err = httpserver.QueryPage(c); err != nil {
		return q, err
	}
	if q.SellerID, err = httpserver.QueryUUID(c, "sellerId"); err != nil {
		return q, err
	}
	if q.MinPrice, err = httpserver.QueryDecimal(c, "minPrice"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = httpserver.QueryDecimal(c, "maxPrice"); err != nil {
		return q, err
	}
	if q.StartTime, err = httpserver.QueryTime(c, "startTime"); err != nil {
		return q, err
	}
	if q.EndTime, err = httpserver.QueryTime(c, "endTime"); err != nil {
		return q, err
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.Status(raw)
		if !status.Valid() {
			return q, apperror.ErrValidation.WithMessage("status must be one of PENDING, READY, OPEN, EXTENDED, CLOSED, CANCELED")
		}
		q.Status = &status
	}
	q.Title = c.Query("title")
	q.CategoryTypes = httpserver.QueryList(c, "categoryType")
	return q, nil
}
