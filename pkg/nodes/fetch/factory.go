package fetch

import (
	"context"

	"github.com/dukex/reelflow/pkg/protocol"
)

// FetchNodeFactory creates FetchNode instances.
type FetchNodeFactory struct{}

func NewFetchNodeFactory() protocol.NodeFactory {
	return &FetchNodeFactory{}
}

func (f *FetchNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewFetchNode(id, config)
}

func (f *FetchNodeFactory) ID() string {
	return "fetch"
}

func (f *FetchNodeFactory) Name() string {
	return "HTTP Fetch"
}

func (f *FetchNodeFactory) Description() string {
	return "Performs an HTTP request with retries and separate success/error output ports"
}

func (f *FetchNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "HTTP URL to request. Supports templating with {{.inputs.main}}",
			},
			"method": map[string]any{
				"type":        "string",
				"description": "HTTP method",
				"default":     "GET",
				"enum":        []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
			},
			"headers": map[string]any{
				"type":        "object",
				"description": "HTTP headers. Values support templating",
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Request body. Supports templating for dynamic content",
			},
			"timeout": map[string]any{
				"type":        "number",
				"description": "Request timeout in seconds",
				"default":     30,
				"minimum":     1,
				"maximum":     300,
			},
			"retries": map[string]any{
				"type":        "object",
				"description": "Retry configuration for failed requests",
				"properties": map[string]any{
					"attempts": map[string]any{
						"type":        "number",
						"description": "Number of attempts (including the initial request)",
						"default":     1,
						"minimum":     1,
						"maximum":     10,
					},
					"delay": map[string]any{
						"type":        "number",
						"description": "Delay between retries in milliseconds",
						"default":     1000,
						"minimum":     0,
						"maximum":     30000,
					},
				},
			},
		},
		"required": []string{"url"},
	}
}
