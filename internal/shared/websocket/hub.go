package websocket

import (
	"context"
	"time"

	"github.com/cristianortiz/bidmarket/internal/shared/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBuffer    = 16
	controlBuffer = 64
)

// Hub keeps the client registry and fans messages out per topic. A topic is
// the ID of the resource the clients watch, e.g. an auction.
type Hub struct {
	// topic -> set of clients
	clients    map[string]map[*Client]struct{}
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	// InboundMessages is consumed by the module handlers (e.g. auction).
	InboundMessages chan *ClientMessage
}

// Client represents a ws individual connection
type Client struct {
	Hub *Hub
	// nil in tests that drive the hub without a network peer
	Conn       *websocket.Conn
	Send       chan []byte
	Topic      string
	ID         string
	RemoteAddr string
}

type Message struct {
	Topic string
	Data  []byte
}

// ClientMessage wraps an inbound frame with the client that sent it.
type ClientMessage struct {
	Client *Client
	Data   []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:         make(map[string]map[*Client]struct{}),
		broadcast:       make(chan *Message, controlBuffer),
		register:        make(chan *Client, controlBuffer),
		unregister:      make(chan *Client, controlBuffer),
		InboundMessages: make(chan *ClientMessage, controlBuffer),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, topic string) *Client {
	c := &Client{
		Hub:   hub,
		Conn:  conn,
		Send:  make(chan []byte, sendBuffer),
		Topic: topic,
		ID:    uuid.NewString(),
	}
	if conn != nil {
		c.RemoteAddr = conn.RemoteAddr().String()
	}
	return c
}

// Run serves the registry until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	log.Info("Websocket hub started")
	for {
		select {
		case <-ctx.Done():
			for topic, clients := range h.clients {
				for client := range clients {
					close(client.Send)
				}
				delete(h.clients, topic)
			}
			log.Info("Websocket hub stopped")
			return nil

		case client := <-h.register:
			h.add(client)

		case client := <-h.unregister:
			h.drainRegistrations()
			h.remove(client)

		case message := <-h.broadcast:
			// registrations queued before the publish take effect first
			h.drainRegistrations()
			clients, ok := h.clients[message.Topic]
			if !ok {
				continue
			}
			log.Debug("Broadcasting message", zap.String("topic", message.Topic), zap.Int("clients", len(clients)))
			for client := range clients {
				select {
				case client.Send <- message.Data:
				default:
					// slow consumer
					log.Warn("Client send buffer full, unregistering",
						zap.String("clientID", client.ID),
						zap.String("topic", client.Topic),
					)
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) add(client *Client) {
	if _, ok := h.clients[client.Topic]; !ok {
		h.clients[client.Topic] = make(map[*Client]struct{})
	}
	h.clients[client.Topic][client] = struct{}{}
	log.Info("Client registered",
		zap.String("clientID", client.ID),
		zap.String("topic", client.Topic),
		zap.String("remote_addr", client.RemoteAddr),
		zap.Int("total_clients", h.count()),
	)
}

func (h *Hub) drainRegistrations() {
	for {
		select {
		case client := <-h.register:
			h.add(client)
		default:
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.Topic]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.Topic)
	}
	log.Info("Client unregistered",
		zap.String("clientID", client.ID),
		zap.String("topic", client.Topic),
		zap.Int("total_clients", h.count()),
	)
}

func (h *Hub) count() int {
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	default:
		log.Error("Register channel is full, client registration failed",
			zap.String("clientID", client.ID),
			zap.String("topic", client.Topic),
		)
		if client.Conn != nil {
			_ = client.Conn.Close()
		}
	}
}

func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	default:
		log.Error("Unregister channel is full, client unregistration failed",
			zap.String("clientID", client.ID),
			zap.String("topic", client.Topic),
		)
	}
}

// Publish queues data for every client subscribed to topic. It never blocks.
func (h *Hub) Publish(topic string, data []byte) {
	select {
	case h.broadcast <- &Message{Topic: topic, Data: data}:
	default:
		log.Error("Broadcast channel is full, message dropped", zap.String("topic", topic))
	}
}

// ReadPump forwards client frames to InboundMessages. Run one per client.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { return c.Conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		if ctx.Err() != nil {
			return
		}

		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("WebSocket read error",
					zap.String("clientID", c.ID),
					zap.String("topic", c.Topic),
					zap.Error(err),
				)
			}
			return
		}

		select {
		case c.Hub.InboundMessages <- &ClientMessage{Client: c, Data: message}:
		default:
			log.Error("Hub InboundMessages channel is full, dropping message",
				zap.String("clientID", c.ID),
				zap.String("topic", c.Topic),
			)
		}
	}
}

// WritePump is the single writer of the connection: one frame per message
// plus periodic pings.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			err := c.Conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			if err != nil {
				log.Debug("Failed to send close control message", zap.String("clientID", c.ID), zap.Error(err))
			}
			return

		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// the hub closed the channel
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error("Failed to write message to client",
					zap.String("clientID", c.ID),
					zap.String("topic", c.Topic),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Error("Failed to write ping message to client",
					zap.String("clientID", c.ID),
					zap.Error(err),
				)
				return
			}
		}
	}
}
