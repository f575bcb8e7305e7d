package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/reelflow/pkg/graph"
)

func issueMessages(issues []graph.ValidationIssue) []string {
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.String())
	}

	return messages
}

func TestValidate_EmptyGraph(t *testing.T) {
	g := graph.New("test", testRegistry(t))

	issues := g.Validate()
	require.Len(t, issues, 1)
	assert.Equal(t, "graph has no nodes", issues[0].Message)
}

func TestValidate_RunnableGraph(t *testing.T) {
	g := graph.New("test", testRegistry(t))
	ctx := context.Background()

	src, err := g.AddNode(ctx, "textinput", "Topic", map[string]any{"text": "sunsets"})
	require.NoError(t, err)

	dst, err := g.AddNode(ctx, "prompt", "Prompts", map[string]any{"template": "{{.topic}}", "count": float64(2)})
	require.NoError(t, err)

	_, err = g.Connect(src.ID, "text", dst.ID, "topic")
	require.NoError(t, err)

	assert.Empty(t, g.Validate())
}

func TestValidate_NodeSemanticIssue(t *testing.T) {
	g := graph.New("test", testRegistry(t))

	node, err := g.AddNode(context.Background(), "textinput", "Topic", map[string]any{"text": ""})
	require.NoError(t, err)

	// Empty text violates both the config schema and the node's own check.
	issues := g.Validate()
	require.Len(t, issues, 2)

	for _, issue := range issues {
		assert.Equal(t, node.ID, issue.NodeID)
	}

	messages := strings.Join(issueMessages(issues), "\n")
	assert.Contains(t, messages, "config:")
	assert.Contains(t, messages, "text must not be empty")
}

func TestValidate_UnconnectedRequiredInputs(t *testing.T) {
	g := graph.New("test", testRegistry(t))

	node, err := g.AddNode(context.Background(), "stitch", "Stitch", map[string]any{"count": float64(2)})
	require.NoError(t, err)

	issues := g.Validate()
	require.Len(t, issues, 2)

	for i, issue := range issues {
		assert.Equal(t, node.ID, issue.NodeID)
		assert.Equal(t, []string{"clip_1", "clip_2"}[i], issue.Port)
		assert.Contains(t, issue.Message, "required input has no incoming connection")
	}
}

func TestValidate_CollectsAcrossNodes(t *testing.T) {
	g := graph.New("test", testRegistry(t))
	ctx := context.Background()

	empty, err := g.AddNode(ctx, "textinput", "Empty", map[string]any{"text": ""})
	require.NoError(t, err)

	lonely, err := g.AddNode(ctx, "stitch", "Lonely", map[string]any{"count": float64(2)})
	require.NoError(t, err)

	// Two issues for the empty text node, two for the unconnected clips.
	issues := g.Validate()
	require.Len(t, issues, 4)

	messages := strings.Join(issueMessages(issues), "\n")
	assert.Contains(t, messages, empty.ID)
	assert.Contains(t, messages, lonely.ID)
}

func TestValidate_ReportsCycle(t *testing.T) {
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

	issues := g.Validate()
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "cycle")
}
