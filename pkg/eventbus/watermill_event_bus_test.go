package eventbus_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/reelflow/pkg/channels/gochannel"
	"github.com/dukex/reelflow/pkg/eventbus"
	"github.com/dukex/reelflow/pkg/events"
)

func testBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() {
		_ = bus.Close()
	})

	return bus
}

func TestWatermillEventBus_PublishSubscribe(t *testing.T) {
	bus := testBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu       sync.Mutex
		received []*events.RunStarted
	)

	err := bus.Handle(events.RunStartedEvent, func(_ context.Context, event any) error {
		started, ok := event.(*events.RunStarted)
		require.True(t, ok)

		mu.Lock()
		received = append(received, started)
		mu.Unlock()

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, bus.Subscribe(ctx))

	err = bus.Publish(ctx, "graph-1", events.RunStarted{
		BaseEvent: events.BaseEvent{
			ID:      "evt-1",
			Type:    events.RunStartedEvent,
			GraphID: "graph-1",
			RunID:   "run-1",
		},
		NodeCount: 4,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(received) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "run-1", received[0].RunID)
	assert.Equal(t, 4, received[0].NodeCount)
}

func TestWatermillEventBus_UnhandledTypeIsAcked(t *testing.T) {
	bus := testBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// No handler registered for node.finished; publishing must not block
	// or error.
	require.NoError(t, bus.Subscribe(ctx))

	err := bus.Publish(ctx, "graph-1", events.NodeFinished{
		BaseEvent: events.BaseEvent{Type: events.NodeFinishedEvent, GraphID: "graph-1", RunID: "run-1"},
		NodeID:    "n1",
	})
	require.NoError(t, err)
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	bus := testBus(t)

	first := bus.GenerateID()
	second := bus.GenerateID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
