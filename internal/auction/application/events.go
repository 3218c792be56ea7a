package application

import (
	"context"
	"time"

	"github.com/cristianortiz/bidmarket/internal/auction/domain"
)

// TransitionMetrics counts committed transitions.
type TransitionMetrics interface {
	ObserveTransition(action, status string)
}

// EventSink records events inside the unit of work and fans them out once
// the transaction committed. Every collaborator is optional.
type EventSink struct {
	recorder    domain.EventRecorder
	broadcaster domain.Broadcaster
	metrics     TransitionMetrics
}

func NewEventSink(recorder domain.EventRecorder, broadcaster domain.Broadcaster, metrics TransitionMetrics) EventSink {
	return EventSink{recorder: recorder, broadcaster: broadcaster, metrics: metrics}
}

func (s EventSink) record(ctx context.Context, a *domain.Auction, action domain.Action, at time.Time) (domain.Event, error) {
	e := domain.NewEvent(a, action, at)
	if s.recorder == nil {
		return e, nil
	}
	return e, s.recorder.Record(ctx, e)
}

func (s EventSink) publish(e domain.Event) {
	if s.metrics != nil {
		s.metrics.ObserveTransition(string(e.Action), string(e.Status))
	}
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(e)
	}
}
