package prompt

import (
	"context"

	"github.com/dukex/reelflow/pkg/protocol"
)

// PromptNodeFactory creates PromptNode instances.
type PromptNodeFactory struct{}

func NewPromptNodeFactory() protocol.NodeFactory {
	return &PromptNodeFactory{}
}

func (f *PromptNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewPromptNode(id, config)
}

func (f *PromptNodeFactory) ID() string {
	return "prompt"
}

func (f *PromptNodeFactory) Name() string {
	return "Prompt Fan-Out"
}

func (f *PromptNodeFactory) Description() string {
	return "Renders a prompt template once per scene; the output port count follows the count config field"
}

func (f *PromptNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"template": map[string]any{
				"type":        "string",
				"description": "Go template rendered per scene with .scene, .scenes and .topic",
				"examples": []string{
					"Scene {{.scene}} of {{.scenes}}: {{.topic}}, cinematic lighting",
				},
			},
			"count": map[string]any{
				"type":        "number",
				"description": "Number of prompts to produce",
				"default":     1,
				"minimum":     1,
				"maximum":     maxPromptCount,
			},
		},
		"required": []string{"template"},
	}
}
