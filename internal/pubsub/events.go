// Package pubsub provides a generic publish/subscribe event system used for
// log entries and buffer modification notifications.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// LoggedEvent carries a formatted log entry.
	LoggedEvent EventType = "logged"
	// ChangedEvent is published after a buffer mutation.
	ChangedEvent EventType = "changed"
	// WillModifyEvent is published when a scoped modification is admitted.
	WillModifyEvent EventType = "will_modify"
	// DidModifyEvent is published when a scoped modification ends, on every exit path.
	DidModifyEvent EventType = "did_modify"
	// ForbiddenEvent is published when a host vetoes a scoped modification.
	ForbiddenEvent EventType = "forbidden"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
