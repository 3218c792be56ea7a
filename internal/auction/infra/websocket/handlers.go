package websocket

import (
	"context"
	"encoding/json"

	"github.com/cristianortiz/bidmarket/internal/auction/application"
	"github.com/cristianortiz/bidmarket/internal/auction/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/cristianortiz/bidmarket/internal/shared/logger"
	"github.com/cristianortiz/bidmarket/internal/shared/websocket"
	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// AuctionDetailReader is the slice of the auction service the socket needs.
type AuctionDetailReader interface {
	GetAuctionDetail(ctx context.Context, auctionID uuid.UUID) (*application.AuctionDetailDTO, error)
}

// AuctionWSHandler streams auction lifecycle changes to the clients watching
// an auction. One hub topic per auction ID.
type AuctionWSHandler struct {
	auctions AuctionDetailReader
	hub      *websocket.Hub
}

func NewAuctionWSHandler(auctions AuctionDetailReader, hub *websocket.Hub) *AuctionWSHandler {
	return &AuctionWSHandler{auctions: auctions, hub: hub}
}

// Broadcast implements domain.Broadcaster.
func (h *AuctionWSHandler) Broadcast(e domain.Event) {
	data, err := json.Marshal(newUpdateMessage(e))
	if err != nil {
		log.Error("Failed to marshal auction update", zap.String("auctionID", e.AuctionID.String()), zap.Error(err))
		return
	}
	h.hub.Publish(e.AuctionID.String(), data)
}

// RegisterRoutes mounts GET /ws/auctions/:id.
func (h *AuctionWSHandler) RegisterRoutes(ctx context.Context, router fiber.Router) {
	router.Get("/ws/auctions/:id", h.upgrade, fiberws.New(func(conn *fiberws.Conn) {
		h.serve(ctx, conn)
	}))
}

func (h *AuctionWSHandler) upgrade(c *fiber.Ctx) error {
	if !fiberws.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperror.ErrValidation.WithMessage("id must be a valid UUID")
	}
	if _, err := h.auctions.GetAuctionDetail(c.UserContext(), id); err != nil {
		return err
	}
	return c.Next()
}

// serve blocks for the lifetime of the connection.
func (h *AuctionWSHandler) serve(ctx context.Context, conn *fiberws.Conn) {
	client := websocket.NewClient(h.hub, conn, conn.Params("id"))
	h.hub.RegisterClient(client)

	id, _ := uuid.Parse(client.Topic)
	h.sendSnapshot(ctx, client, id)

	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// ListenForMessages processes the hub inbound messages until ctx is done.
func (h *AuctionWSHandler) ListenForMessages(ctx context.Context) error {
	log.Info("AuctionWSHandler started listening for inbound messages from hub")
	for {
		select {
		case <-ctx.Done():
			log.Info("AuctionWSHandler stopped listening for inbound messages from hub")
			return nil
		case msg := <-h.hub.InboundMessages:
			go h.processMessage(ctx, msg.Client, msg.Data)
		}
	}
}

func (h *AuctionWSHandler) processMessage(ctx context.Context, client *websocket.Client, data []byte) {
	var base BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		h.sendErrorToClient(client, "invalid message format")
		return
	}
	switch base.Type {
	case MessageTypeClientSync:
		id, err := uuid.Parse(client.Topic)
		if err != nil {
			h.sendErrorToClient(client, "invalid auction id")
			return
		}
		h.sendSnapshot(ctx, client, id)
	default:
		h.sendErrorToClient(client, "unknown message type")
	}
}

func (h *AuctionWSHandler) sendSnapshot(ctx context.Context, client *websocket.Client, id uuid.UUID) {
	detail, err := h.auctions.GetAuctionDetail(ctx, id)
	if err != nil {
		log.Warn("Failed to load auction snapshot", zap.String("auctionID", id.String()), zap.Error(err))
		h.sendErrorToClient(client, "failed to load auction state")
		return
	}
	h.send(client, ServerInitialStateMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerInitialState},
		Payload:     detail,
	})
}

func (h *AuctionWSHandler) sendErrorToClient(client *websocket.Client, errorMessage string) {
	errMsg := ServerErrorMessage{BaseMessage: BaseMessage{Type: MessageTypeServerError}}
	errMsg.Payload.Error = errorMessage
	h.send(client, errMsg)
}

// send writes to a single client. A send on a channel the hub already closed
// is recovered.
func (h *AuctionWSHandler) send(client *websocket.Client, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("Failed to marshal websocket message", zap.Error(err))
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Debug("Client left before the message was sent", zap.String("clientID", client.ID))
		}
	}()
	select {
	case client.Send <- data:
	default:
		log.Warn("Client send channel full, message dropped", zap.String("clientID", client.ID))
	}
}
