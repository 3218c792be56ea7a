package outbox

import (
	"context"

	"github.com/cristianortiz/bidmarket/internal/auction/domain"
)

// Inserter is implemented by events.Outbox.
type Inserter interface {
	Insert(ctx context.Context, eventID, topic, key string, payload any) error
}

// EventRecorder implements domain.EventRecorder on the transactional outbox.
// Events are keyed by auction so a partitioned consumer sees them in order.
type EventRecorder struct {
	outbox Inserter
	topic  string
}

func NewEventRecorder(outbox Inserter, topic string) *EventRecorder {
	return &EventRecorder{outbox: outbox, topic: topic}
}

func (r *EventRecorder) Record(ctx context.Context, e domain.Event) error {
	return r.outbox.Insert(ctx, e.EventID.String(), r.topic, e.AuctionID.String(), e)
}
