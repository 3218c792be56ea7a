package events

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianortiz/bidmarket/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

type PendingStore interface {
	FetchPending(ctx context.Context, limit int) ([]Record, error)
	MarkSent(ctx context.Context, id int64) error
}

// Relay polls the outbox and forwards pending events to the broker in id
// order. A record is marked sent only after the broker acknowledged it, so
// delivery is at least once.
type Relay struct {
	store     PendingStore
	publisher Publisher
	interval  time.Duration
	batchSize int
}

func NewRelay(store PendingStore, publisher Publisher, interval time.Duration, batchSize int) *Relay {
	if interval <= 0 {
		interval = time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Relay{store: store, publisher: publisher, interval: interval, batchSize: batchSize}
}

func (r *Relay) Run(ctx context.Context) error {
	log.Info("Outbox relay started", zap.Duration("interval", r.interval))
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Outbox relay stopped")
			return nil
		case <-ticker.C:
			if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
				log.Warn("Outbox relay flush failed", zap.Error(err))
			}
		}
	}
}

// Flush forwards one batch and returns how many records were sent. It stops
// at the first failure to keep per-key ordering.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	records, err := r.store.FetchPending(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("relay: fetch pending: %w", err)
	}

	sent := 0
	for _, rec := range records {
		if err := r.publisher.Publish(ctx, rec.Topic, rec.Key, rec.Payload); err != nil {
			return sent, fmt.Errorf("relay: publish event %s: %w", rec.EventID, err)
		}
		if err := r.store.MarkSent(ctx, rec.ID); err != nil {
			return sent, fmt.Errorf("relay: mark event %s sent: %w", rec.EventID, err)
		}
		sent++
	}
	if sent > 0 {
		log.Debug("Outbox relay forwarded events", zap.Int("count", sent))
	}
	return sent, nil
}
