package ports

import (
	"context"
	"time"

	"orderwizard/internal/core/domain/model/kernel"
)

// EventType names an asynchronous result delivered to the presentation layer.
type EventType string

const (
	EventCompletionDateRefined EventType = "completion_date.refined"
	EventPaymentRefined        EventType = "payment.refined"
	EventDiscountRefined       EventType = "discount.refined"
	EventRemoteWarning         EventType = "remote.warning"
	EventStageChanged          EventType = "stage.changed"
	EventSessionClosed         EventType = "session.closed"
)

// Event is one message for the clients watching a session.
type Event struct {
	SessionID kernel.UUID `json:"sessionId"`
	Type      EventType   `json:"type"`
	Payload   any         `json:"payload,omitempty"`
	At        time.Time   `json:"at"`
}

// EventPublisher delivers events. Publishing never blocks the wizard on slow consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}
