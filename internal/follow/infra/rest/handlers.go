package rest

import (
	"context"
	"net/http"

	"github.com/cristianortiz/bidmarket/internal/follow/application"
	"github.com/cristianortiz/bidmarket/internal/shared/httpserver"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type FollowHandler struct {
	service application.FollowService
	auth    *httpserver.Authenticator
}

func NewFollowHandler(service application.FollowService, auth *httpserver.Authenticator) *FollowHandler {
	return &FollowHandler{service: service, auth: auth}
}

func (h *FollowHandler) RegisterRoutes(router fiber.Router) {
	g := router.Group("/follows", h.auth.Required())
	bidders := httpserver.RequireRoles(identity.RoleBidder)
	sellers := httpserver.RequireRoles(identity.RoleSeller)

	g.Post("/follow/:sellerId", bidders, h.relate("sellerId", h.service.Follow, "Follow request sent successfully"))
	g.Delete("/unfollow/:sellerId", bidders, h.relate("sellerId", h.service.Unfollow, "Unfollow successful"))
	g.Patch("/accept/:userId", sellers, h.relate("userId", h.service.Accept, "Follow request accepted successfully"))
	g.Patch("/decline/:userId", sellers, h.relate("userId", h.service.Decline, "Decline successful"))
	g.Patch("/block/:userId", sellers, h.relate("userId", h.service.Block, "Block successful"))
	g.Patch("/unblock/:userId", sellers, h.relate("userId", h.service.Unblock, "Unblock successful"))
}

type relationOp func(ctx context.Context, actor identity.Actor, otherID uuid.UUID) (*application.FollowDTO, error)

// relate builds the handler of one relation action on the user named by param.
func (h *FollowHandler) relate(param string, op relationOp, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		otherID, err := httpserver.ParamUUID(c, param)
		if err != nil {
			return err
		}
		out, err := op(c.UserContext(), httpserver.ActorFrom(c), otherID)
		if err != nil {
			return err
		}
		return httpserver.Respond(c, http.StatusOK, message, out)
	}
}
