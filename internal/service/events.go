package service

import (
	"context"
	"time"

	"carfleet-backend/internal/domain"
)

// EventType names a domain event emitted by the booking core.
type EventType string

const (
	EventRentalCreated   EventType = "RENTAL_CREATED"
	EventRentalConfirmed EventType = "RENTAL_CONFIRMED"
	EventRentalActivated EventType = "RENTAL_ACTIVATED"
	EventRentalExtended  EventType = "RENTAL_EXTENDED"
	EventRentalCompleted EventType = "RENTAL_COMPLETED"
	EventRentalCancelled EventType = "RENTAL_CANCELLED"
	EventPaymentPosted   EventType = "PAYMENT_POSTED"
	EventPaymentDeleted  EventType = "PAYMENT_DELETED"
)

// Event is the state snapshot handed to the surrounding layer after a
// committed mutation. The core never renders documents or messages itself.
type Event struct {
	Type       EventType
	Rental     *domain.Rental
	ActorID    int32
	OccurredOn time.Time
	Attributes map[string]string
}

// EventSink receives committed domain events. Implementations must not
// fail the originating operation; delivery problems are theirs to log.
type EventSink interface {
	Publish(ctx context.Context, ev Event)
}

// NopSink discards events. Useful for tests and the cron runner.
type NopSink struct{}

func (NopSink) Publish(context.Context, Event) {}
