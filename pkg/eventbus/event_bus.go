// Package eventbus provides event-driven progress reporting for graph runs.
package eventbus

import (
	"context"

	"github.com/dukex/reelflow/pkg/events"
)

type Event interface {
	GetType() events.EventType
}

// EventPublisher is the progress sink contract: the engine publishes run and
// node lifecycle events through it.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

type EventHandler func(ctx context.Context, event any) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}

// NullPublisher discards all events. Useful for callers that do not care
// about progress.
type NullPublisher struct{}

func (NullPublisher) Publish(_ context.Context, _ string, _ Event) error {
	return nil
}
