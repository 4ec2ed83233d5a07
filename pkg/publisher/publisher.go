package publisher

import (
	"context"
)

const (
	EventCreated   = "event.created"
	EventUpdated   = "event.updated"
	EventDeleted   = "event.deleted"
	BookingCreated = "booking.created"
	BookingDeleted = "booking.deleted"
)

// SchemaVersion is bumped whenever a payload shape changes incompatibly.
const SchemaVersion = "1"

// Publisher announces committed writes to downstream consumers. key is the
// id of the affected record and payload is JSON-encoded.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, any) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
