package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dukex/reelflow/pkg/eventbus"
	"github.com/dukex/reelflow/pkg/events"
)

// Listener subscribes to every run lifecycle event and writes a structured
// log line per event. Useful as an audit trail and as a template for real
// consumers such as notification or billing services.
type Listener struct {
	eventBus eventbus.EventBus
	logger   *slog.Logger
}

func NewListener(eventBus eventbus.EventBus, logger *slog.Logger) *Listener {
	return &Listener{
		eventBus: eventBus,
		logger:   logger,
	}
}

// Start registers the handlers and blocks until the context is cancelled or
// an interrupt arrives.
func (l *Listener) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := l.registerHandlers(); err != nil {
		return fmt.Errorf("failed to register event handlers: %w", err)
	}

	if err := l.eventBus.Subscribe(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to run events: %w", err)
	}

	l.logger.InfoContext(ctx, "Listening for run events")

	<-ctx.Done()

	l.logger.Info("Shutting down event listener")

	return nil
}

func (l *Listener) registerHandlers() error {
	handlers := map[events.EventType]eventbus.EventHandler{
		events.RunStartedEvent: func(ctx context.Context, event any) error {
			started, ok := event.(*events.RunStarted)
			if !ok {
				return fmt.Errorf("unexpected payload for %s", events.RunStartedEvent)
			}

			l.logger.InfoContext(ctx, "Run started",
				"run_id", started.RunID,
				"graph_id", started.GraphID,
				"nodes", started.NodeCount)

			return nil
		},
		events.RunCompletedEvent: func(ctx context.Context, event any) error {
			completed, ok := event.(*events.RunCompleted)
			if !ok {
				return fmt.Errorf("unexpected payload for %s", events.RunCompletedEvent)
			}

			l.logger.InfoContext(ctx, "Run completed",
				"run_id", completed.RunID,
				"graph_id", completed.GraphID,
				"duration", completed.Duration)

			return nil
		},
		events.RunFailedEvent: func(ctx context.Context, event any) error {
			failed, ok := event.(*events.RunFailed)
			if !ok {
				return fmt.Errorf("unexpected payload for %s", events.RunFailedEvent)
			}

			l.logger.ErrorContext(ctx, "Run failed",
				"run_id", failed.RunID,
				"graph_id", failed.GraphID,
				"node_id", failed.NodeID,
				"error", failed.Error)

			return nil
		},
		events.NodeStartedEvent: func(ctx context.Context, event any) error {
			started, ok := event.(*events.NodeStarted)
			if !ok {
				return fmt.Errorf("unexpected payload for %s", events.NodeStartedEvent)
			}

			l.logger.DebugContext(ctx, "Node started",
				"run_id", started.RunID,
				"node_id", started.NodeID,
				"input_keys", started.InputKeys)

			return nil
		},
		events.NodeFinishedEvent: func(ctx context.Context, event any) error {
			finished, ok := event.(*events.NodeFinished)
			if !ok {
				return fmt.Errorf("unexpected payload for %s", events.NodeFinishedEvent)
			}

			l.logger.DebugContext(ctx, "Node finished",
				"run_id", finished.RunID,
				"node_id", finished.NodeID,
				"duration_ms", finished.DurationMs)

			return nil
		},
		events.NodeFailedEvent: func(ctx context.Context, event any) error {
			failed, ok := event.(*events.NodeFailed)
			if !ok {
				return fmt.Errorf("unexpected payload for %s", events.NodeFailedEvent)
			}

			l.logger.WarnContext(ctx, "Node failed",
				"run_id", failed.RunID,
				"node_id", failed.NodeID,
				"error", failed.Error)

			return nil
		},
	}

	for eventType, handler := range handlers {
		if err := l.eventBus.Handle(eventType, handler); err != nil {
			return err
		}
	}

	return nil
}
