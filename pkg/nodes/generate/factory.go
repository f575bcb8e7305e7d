package generate

import (
	"context"

	"github.com/dukex/reelflow/pkg/protocol"
)

// GenerateNodeFactory creates GenerateNode instances bound to a generation client.
type GenerateNodeFactory struct {
	client protocol.GenerationClient
}

func NewGenerateNodeFactory(client protocol.GenerationClient) protocol.NodeFactory {
	return &GenerateNodeFactory{client: client}
}

func (f *GenerateNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewGenerateNode(id, config, f.client)
}

func (f *GenerateNodeFactory) ID() string {
	return "generate"
}

func (f *GenerateNodeFactory) Name() string {
	return "Video Generation"
}

func (f *GenerateNodeFactory) Description() string {
	return "Generates a video clip from a prompt through the configured provider, with node-owned retries"
}

func (f *GenerateNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"provider": map[string]any{
				"type":        "string",
				"description": "Generation provider",
				"default":     "google",
				"enum":        []string{"openai", "google"},
			},
			"settings": map[string]any{
				"type":        "object",
				"description": "Provider-specific settings passed through unchanged",
				"examples": []map[string]any{
					{"seconds": "8", "size": "720x1280"},
					{"model": "veo-3.0-generate-001", "aspect_ratio": "16:9"},
				},
			},
			"prompt_style": map[string]any{
				"type":        "string",
				"description": "Optional style suffix appended to every prompt",
			},
			"retries": map[string]any{
				"type":        "object",
				"description": "Retry configuration for failed submissions",
				"properties": map[string]any{
					"attempts": map[string]any{
						"type":        "number",
						"description": "Number of attempts (including the initial one)",
						"default":     1,
						"minimum":     1,
						"maximum":     10,
					},
					"delay": map[string]any{
						"type":        "number",
						"description": "Delay between attempts in milliseconds",
						"default":     1000,
						"minimum":     0,
						"maximum":     30000,
					},
				},
			},
		},
	}
}
