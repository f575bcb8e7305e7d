package graph_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/reelflow/pkg/graph"
)

func positionOf(t *testing.T, order []string, id string) int {
	t.Helper()

	for i, candidate := range order {
		if candidate == id {
			return i
		}
	}

	t.Fatalf("node %s missing from order %v", id, order)

	return -1
}

func TestTopologicalOrder_Chain(t *testing.T) {
	g := graph.New("test", testRegistry(t))
	ctx := context.Background()

	src, err := g.AddNode(ctx, "textinput", "Topic", map[string]any{"text": "sunsets"})
	require.NoError(t, err)

	mid, err := g.AddNode(ctx, "prompt", "Prompts", map[string]any{"template": "{{.topic}}"})
	require.NoError(t, err)

	sink, err := g.AddNode(ctx, "fetch", "Notify", map[string]any{"url": "http://example.com"})
	require.NoError(t, err)

	_, err = g.Connect(src.ID, "text", mid.ID, "topic")
	require.NoError(t, err)

	_, err = g.Connect(mid.ID, "prompt_1", sink.ID, "main")
	require.NoError(t, err)

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{src.ID, mid.ID, sink.ID}, order)
}

func TestTopologicalOrder_RespectsEveryEdge(t *testing.T) {
	g := graph.New("test", testRegistry(t))
	ctx := context.Background()

	topic, err := g.AddNode(ctx, "textinput", "Topic", map[string]any{"text": "sunsets"})
	require.NoError(t, err)

	prompts, err := g.AddNode(ctx, "prompt", "Prompts", map[string]any{"template": "scene {{.scene}}", "count": float64(2)})
	require.NoError(t, err)

	left, err := g.AddNode(ctx, "fetch", "Left", map[string]any{"url": "http://example.com"})
	require.NoError(t, err)

	right, err := g.AddNode(ctx, "fetch", "Right", map[string]any{"url": "http://example.com"})
	require.NoError(t, err)

	_, err = g.Connect(topic.ID, "text", prompts.ID, "topic")
	require.NoError(t, err)

	_, err = g.Connect(prompts.ID, "prompt_1", left.ID, "main")
	require.NoError(t, err)

	_, err = g.Connect(prompts.ID, "prompt_2", right.ID, "main")
	require.NoError(t, err)

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	require.Len(t, order, 4)

	assert.Less(t, positionOf(t, order, topic.ID), positionOf(t, order, prompts.ID))
	assert.Less(t, positionOf(t, order, prompts.ID), positionOf(t, order, left.ID))
	assert.Less(t, positionOf(t, order, prompts.ID), positionOf(t, order, right.ID))
}

func TestTopologicalOrder_Deterministic(t *testing.T) {
	g := graph.New("test", testRegistry(t))
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := g.AddNode(ctx, "textinput", name, map[string]any{"text": name})
		require.NoError(t, err)
	}

	first, err := g.TopologicalOrder()
	require.NoError(t, err)

	for range 10 {
		again, err := g.TopologicalOrder()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTopologicalOrder_Cycle(t *testing.T) {
	g := graph.New("test", testRegistry(t))
	ctx := context.Background()

	a, err := g.AddNode(ctx, "fetch", "A", map[string]any{"url": "http://example.com"})
	require.NoError(t, err)

	b, err := g.AddNode(ctx, "fetch", "B", map[string]any{"url": "http://example.com"})
	require.NoError(t, err)

	_, err = g.Connect(a.ID, "success", b.ID, "main")
	require.NoError(t, err)

	_, err = g.Connect(b.ID, "success", a.ID, "main")
	require.NoError(t, err)

	_, err = g.TopologicalOrder()
	require.Error(t, err)
	require.True(t, graph.IsCycleError(err))
	require.ErrorIs(t, err, graph.ErrCycleDetected)

	var cycleErr *graph.CycleError

	require.True(t, errors.As(err, &cycleErr))
	require.GreaterOrEqual(t, len(cycleErr.Path), 3)
	assert.Equal(t, cycleErr.Path[0], cycleErr.Path[len(cycleErr.Path)-1])
}

func TestTopologicalOrder_DuplicateEdgesCollapse(t *testing.T) {
	g := graph.New("test", testRegistry(t))
	ctx := context.Background()

	src, err := g.AddNode(ctx, "prompt", "Prompts", map[string]any{"template": "scene {{.scene}}", "count": float64(2)})
	require.NoError(t, err)

	dst, err := g.AddNode(ctx, "stitch", "Stitch", map[string]any{"count": float64(2)})
	require.NoError(t, err)

	// Two parallel connections between the same node pair are one edge.
	_, err = g.Connect(src.ID, "prompt_1", dst.ID, "clip_1")
	require.NoError(t, err)

	_, err = g.Connect(src.ID, "prompt_2", dst.ID, "clip_2")
	require.NoError(t, err)

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{src.ID, dst.ID}, order)
}
