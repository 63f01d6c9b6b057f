package port

import (
	"context"
)

// Subjects used for simulator events
const (
	SubjectTick            = "dashboard.tick"
	SubjectAlertTransition = "dashboard.alert.transition"
)

// EventPublisher defines the interface for publishing events to a message broker
type EventPublisher interface {
	// PublishEvent publishes an event to the specified subject
	PublishEvent(ctx context.Context, subject string, event any) error

	// Close closes the connection to the message broker
	Close() error
}
