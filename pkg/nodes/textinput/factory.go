package textinput

import (
	"context"

	"github.com/dukex/reelflow/pkg/protocol"
)

// TextInputNodeFactory creates TextInputNode instances.
type TextInputNodeFactory struct{}

func NewTextInputNodeFactory() protocol.NodeFactory {
	return &TextInputNodeFactory{}
}

func (f *TextInputNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewTextInputNode(id, config)
}

func (f *TextInputNodeFactory) ID() string {
	return "textinput"
}

func (f *TextInputNodeFactory) Name() string {
	return "Text Input"
}

func (f *TextInputNodeFactory) Description() string {
	return "Emits a static text value, typically the topic or prompt seeding a pipeline"
}

func (f *TextInputNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "The text value to emit",
				"minLength":   1,
			},
		},
		"required": []string{"text"},
	}
}
