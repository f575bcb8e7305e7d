// Package prompt provides a prompt fan-out node: one topic in, a
// config-driven number of scene prompts out.
package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/template"
)

const (
	InputPortTopic = "topic"

	maxPromptCount = 12
)

// OutputPortName returns the name of the i-th (1-based) prompt output port.
func OutputPortName(i int) string {
	return fmt.Sprintf("prompt_%d", i)
}

// PromptNode renders a template once per scene. Its output port count is a
// pure function of the count config field, so changing count reshapes the
// node's ports.
type PromptNode struct {
	id           string
	templateExpr string
	count        int
}

func NewPromptNode(id string, config map[string]any) (*PromptNode, error) {
	templateExpr, _ := config["template"].(string)

	count := 1
	if raw, ok := config["count"].(float64); ok {
		count = int(raw)
	} else if raw, ok := config["count"].(int); ok {
		count = raw
	}

	return &PromptNode{
		id:           id,
		templateExpr: templateExpr,
		count:        count,
	}, nil
}

// ID returns the node ID.
func (n *PromptNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *PromptNode) Type() string {
	return "prompt"
}

// Validate checks the template and the scene count bounds.
func (n *PromptNode) Validate() []error {
	var errs []error

	if n.templateExpr == "" {
		errs = append(errs, errors.New("template must not be empty"))
	}

	if n.count < 1 || n.count > maxPromptCount {
		errs = append(errs, fmt.Errorf("count must be between 1 and %d", maxPromptCount))
	}

	return errs
}

// Execute renders the template once per scene, exposing .scene (1-based) and
// .topic to the template, and emits one prompt per output port.
func (n *PromptNode) Execute(_ context.Context, inputs map[string]any) (map[string]any, error) {
	topic, _ := inputs[InputPortTopic].(string)

	outputs := make(map[string]any, n.count)

	for i := 1; i <= n.count; i++ {
		data := map[string]any{
			"scene":  i,
			"scenes": n.count,
			"topic":  topic,
			"inputs": inputs,
		}

		rendered, err := template.Render(n.templateExpr, data)
		if err != nil {
			return nil, fmt.Errorf("failed to render prompt %d: %w", i, err)
		}

		outputs[OutputPortName(i)] = fmt.Sprintf("%v", rendered)
	}

	return outputs, nil
}

// InputPorts returns the input ports for the node.
func (n *PromptNode) InputPorts() []models.InputPort {
	return []models.InputPort{
		{
			Port: models.Port{
				ID:          models.MakePortID(n.id, InputPortTopic),
				NodeID:      n.id,
				Name:        InputPortTopic,
				Kind:        models.PortKindText,
				Description: "Topic interpolated into every prompt",
			},
			Required: false,
		},
	}
}

// OutputPorts returns one prompt port per configured scene.
func (n *PromptNode) OutputPorts() []models.OutputPort {
	ports := make([]models.OutputPort, 0, n.count)

	for i := 1; i <= n.count; i++ {
		name := OutputPortName(i)
		ports = append(ports, models.OutputPort{
			Port: models.Port{
				ID:          models.MakePortID(n.id, name),
				NodeID:      n.id,
				Name:        name,
				Kind:        models.PortKindText,
				Description: fmt.Sprintf("Prompt for scene %d", i),
			},
		})
	}

	return ports
}
