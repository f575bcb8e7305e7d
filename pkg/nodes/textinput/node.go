// Package textinput provides a static text source node.
package textinput

import (
	"context"
	"errors"

	"github.com/dukex/reelflow/pkg/models"
)

const OutputPortText = "text"

// TextInputNode emits a configured text value. It has no inputs and is the
// usual root of a generation pipeline.
type TextInputNode struct {
	id   string
	text string
}

func NewTextInputNode(id string, config map[string]any) (*TextInputNode, error) {
	text, _ := config["text"].(string)

	return &TextInputNode{
		id:   id,
		text: text,
	}, nil
}

// ID returns the node ID.
func (n *TextInputNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *TextInputNode) Type() string {
	return "textinput"
}

// Validate checks that the configured text is non-empty.
func (n *TextInputNode) Validate() []error {
	if n.text == "" {
		return []error{errors.New("text must not be empty")}
	}

	return nil
}

// Execute emits the configured text on the text port.
func (n *TextInputNode) Execute(_ context.Context, _ map[string]any) (map[string]any, error) {
	return map[string]any{
		OutputPortText: n.text,
	}, nil
}

// InputPorts returns the input ports for the node.
func (n *TextInputNode) InputPorts() []models.InputPort {
	return nil
}

// OutputPorts returns the output ports for the node.
func (n *TextInputNode) OutputPorts() []models.OutputPort {
	return []models.OutputPort{
		{
			Port: models.Port{
				ID:          models.MakePortID(n.id, OutputPortText),
				NodeID:      n.id,
				Name:        OutputPortText,
				Kind:        models.PortKindText,
				Description: "The configured text value",
			},
		},
	}
}
