package events

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher delivers an already encoded event to a broker topic.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher builds a writer without a fixed topic: every message
// names its own, as stored in the outbox.
func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now().UTC(),
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
