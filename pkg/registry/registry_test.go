package registry_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/protocol"
	"github.com/dukex/reelflow/pkg/registry"
)

type echoNode struct {
	id   string
	text string
}

func (n *echoNode) ID() string                       { return n.id }
func (n *echoNode) Type() string                     { return "echo" }
func (n *echoNode) InputPorts() []models.InputPort   { return nil }
func (n *echoNode) OutputPorts() []models.OutputPort { return nil }
func (n *echoNode) Validate() []error                { return nil }

func (n *echoNode) Execute(_ context.Context, _ map[string]any) (map[string]any, error) {
	return map[string]any{"text": n.text}, nil
}

type echoFactory struct {
	typeTag string
}

func (f *echoFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	text, _ := config["text"].(string)

	return &echoNode{id: id, text: text}, nil
}

func (f *echoFactory) ID() string          { return f.typeTag }
func (f *echoFactory) Name() string        { return "Echo" }
func (f *echoFactory) Description() string { return "Echoes its configured text" }

func (f *echoFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string"},
		},
		"required": []string{"text"},
	}
}

func TestRegistry_CreateNode(t *testing.T) {
	reg := registry.NewRegistry(slog.Default())
	reg.RegisterNode(&echoFactory{typeTag: "echo"})

	node, err := reg.CreateNode(context.Background(), "echo", "node-1", map[string]any{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "node-1", node.ID())

	outputs, err := node.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", outputs["text"])
}

func TestRegistry_CreateNode_UnknownType(t *testing.T) {
	reg := registry.NewRegistry(slog.Default())

	_, err := reg.CreateNode(context.Background(), "ghost", "node-1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestRegistry_NodeTypes_RegistrationOrder(t *testing.T) {
	reg := registry.NewRegistry(slog.Default())
	reg.RegisterNode(&echoFactory{typeTag: "charlie"})
	reg.RegisterNode(&echoFactory{typeTag: "alpha"})
	reg.RegisterNode(&echoFactory{typeTag: "bravo"})

	types := reg.NodeTypes()
	require.Len(t, types, 3)
	assert.Equal(t, "charlie", types[0].Type)
	assert.Equal(t, "alpha", types[1].Type)
	assert.Equal(t, "bravo", types[2].Type)
}

func TestRegistry_RegisterNode_Replaces(t *testing.T) {
	reg := registry.NewRegistry(slog.Default())
	reg.RegisterNode(&echoFactory{typeTag: "echo"})
	reg.RegisterNode(&echoFactory{typeTag: "echo"})

	assert.Len(t, reg.NodeTypes(), 1)
}

func TestRegistry_ValidateConfig(t *testing.T) {
	reg := registry.NewRegistry(slog.Default())
	reg.RegisterNode(&echoFactory{typeTag: "echo"})

	violations, err := reg.ValidateConfig("echo", map[string]any{"text": "hi"})
	require.NoError(t, err)
	assert.Empty(t, violations)

	violations, err = reg.ValidateConfig("echo", map[string]any{"text": 12})
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "text")

	violations, err = reg.ValidateConfig("echo", map[string]any{})
	require.NoError(t, err)
	require.Len(t, violations, 1)

	_, err = reg.ValidateConfig("ghost", map[string]any{})
	require.Error(t, err)
}

func TestRegistry_HealthCheck(t *testing.T) {
	reg := registry.NewRegistry(slog.Default())
	reg.RegisterNode(&echoFactory{typeTag: "echo"})

	details, healthy := reg.HealthCheck()
	assert.True(t, healthy)
	assert.Equal(t, 1, details["node_types"])
}
