package websocket

import (
	"time"

	"github.com/cristianortiz/bidmarket/internal/auction/application"
	"github.com/cristianortiz/bidmarket/internal/auction/domain"
	"github.com/google/uuid"
)

// MessageType defines ws type message
type MessageType string

const (
	MessageTypeClientSync          MessageType = "client_sync"           // client asks for a fresh snapshot
	MessageTypeServerAuctionUpdate MessageType = "server_auction_update" // a committed lifecycle change
	MessageTypeServerError         MessageType = "server_error"
	MessageTypeServerInitialState  MessageType = "server_initial_state" // snapshot sent on connect and on sync
)

// BaseMessage is base struct for all the WS messages, includes a Type field for identify the message type
type BaseMessage struct {
	Type MessageType `json:"type"`
}

type ServerAuctionUpdateMessage struct {
	BaseMessage
	Payload struct {
		EventID    uuid.UUID     `json:"eventId"`
		AuctionID  uuid.UUID     `json:"auctionId"`
		Action     domain.Action `json:"action"`
		Status     domain.Status `json:"status"`
		EndTime    time.Time     `json:"endTime"`
		OccurredAt time.Time     `json:"occurredAt"`
	} `json:"payload"`
}

type ServerErrorMessage struct {
	BaseMessage
	Payload struct {
		Error string `json:"error"`
	} `json:"payload"`
}

// ServerInitialStateMessage carries the auction detail as served by the REST API.
type ServerInitialStateMessage struct {
	BaseMessage
	Payload *application.AuctionDetailDTO `json:"payload"`
}

func newUpdateMessage(e domain.Event) ServerAuctionUpdateMessage {
	msg := ServerAuctionUpdateMessage{BaseMessage: BaseMessage{Type: MessageTypeServerAuctionUpdate}}
	msg.Payload.EventID = e.EventID
	msg.Payload.AuctionID = e.AuctionID
	msg.Payload.Action = e.Action
	msg.Payload.Status = e.Status
	msg.Payload.EndTime = e.EndTime
	msg.Payload.OccurredAt = e.OccurredAt
	return msg
}
