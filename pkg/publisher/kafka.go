package publisher

import (
	"context"
	"fmt"

	"devevents/pkg/kafka"
	"devevents/pkg/middleware"
)

type KafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType, key string, payload any) error {
	msg, err := kafka.NewMessage().
		WithKey(key).
		WithEventID("").
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		WithValue(payload).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build %s message: %w", eventType, err)
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
