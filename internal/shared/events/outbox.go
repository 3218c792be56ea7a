package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cristianortiz/bidmarket/internal/shared/db"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is a row of auction_events_outbox.
type Record struct {
	ID        int64           `json:"id"`
	EventID   string          `json:"event_id"`
	Topic     string          `json:"topic"`
	Key       string          `json:"key"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at"`
}

// Outbox stores events next to the business rows that produced them. Insert
// joins the unit of work carried by ctx, so an event exists only if the
// mutation committed.
type Outbox struct {
	pool *pgxpool.Pool
}

func NewOutbox(pool *pgxpool.Pool) *Outbox {
	return &Outbox{pool: pool}
}

func (o *Outbox) Insert(ctx context.Context, eventID, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("outbox: marshal payload: %w", err)
	}
	_, err = db.Conn(ctx, o.pool).Exec(ctx,
		`INSERT INTO auction_events_outbox (event_id, topic, key, payload) VALUES ($1, $2, $3, $4)`,
		eventID, topic, key, data)
	if err != nil {
		return fmt.Errorf("outbox: insert event %s: %w", eventID, err)
	}
	return nil
}

func (o *Outbox) MarkSent(ctx context.Context, id int64) error {
	_, err := db.Conn(ctx, o.pool).Exec(ctx, `UPDATE auction_events_outbox SET sent_at = now() WHERE id = $1`, id)
	return err
}

func (o *Outbox) FetchPending(ctx context.Context, limit int) ([]Record, error) {
	rows, err := db.Conn(ctx, o.pool).Query(ctx,
		`SELECT id, event_id, topic, key, payload, created_at, sent_at
		   FROM auction_events_outbox
		  WHERE sent_at IS NULL
		  ORDER BY id
		  LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.Topic, &rec.Key, &rec.Payload, &rec.CreatedAt, &rec.SentAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
