// Package generate provides the video clip generation node. It delegates to
// a GenerationClient and owns its own retry policy.
package generate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/protocol"
)

const (
	InputPortPrompt    = "prompt"
	OutputPortVideo    = "video"
	OutputPortMetadata = "metadata"
)

var supportedProviders = map[string]bool{
	"openai": true,
	"google": true,
}

// GenerateConfig defines the configuration for generation nodes.
type GenerateConfig struct {
	Provider    string         `json:"provider"`
	Settings    map[string]any `json:"settings"`
	Attempts    int            `json:"attempts"`
	RetryDelay  int            `json:"retry_delay"` // milliseconds
	PromptStyle string         `json:"prompt_style,omitempty"`
}

// GenerateNode turns one prompt into one video clip through the generation
// service. The engine does no polling or retrying on its behalf; both live
// here and in the client.
type GenerateNode struct {
	id     string
	config GenerateConfig
	client protocol.GenerationClient
}

func NewGenerateNode(id string, config map[string]any, client protocol.GenerationClient) (*GenerateNode, error) {
	if client == nil {
		return nil, errors.New("generation client is required")
	}

	cfg := GenerateConfig{
		Provider:   "google",
		Settings:   make(map[string]any),
		Attempts:   1,
		RetryDelay: 1000,
	}

	if provider, ok := config["provider"].(string); ok && provider != "" {
		cfg.Provider = provider
	}

	if settings, ok := config["settings"].(map[string]any); ok {
		for k, v := range settings {
			cfg.Settings[k] = v
		}
	}

	if promptStyle, ok := config["prompt_style"].(string); ok {
		cfg.PromptStyle = promptStyle
	}

	if retries, ok := config["retries"].(map[string]any); ok {
		if attempts, ok := retries["attempts"].(float64); ok {
			cfg.Attempts = int(attempts)
		}

		if delay, ok := retries["delay"].(float64); ok {
			cfg.RetryDelay = int(delay)
		}
	}

	return &GenerateNode{
		id:     id,
		config: cfg,
		client: client,
	}, nil
}

// ID returns the node ID.
func (n *GenerateNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *GenerateNode) Type() string {
	return "generate"
}

// Validate checks the provider tag and retry bounds.
func (n *GenerateNode) Validate() []error {
	var errs []error

	if !supportedProviders[n.config.Provider] {
		errs = append(errs, fmt.Errorf("unsupported provider %q", n.config.Provider))
	}

	if n.config.Attempts < 1 || n.config.Attempts > 10 {
		errs = append(errs, errors.New("retries.attempts must be between 1 and 10"))
	}

	return errs
}

// Execute submits the prompt and blocks until the provider resolves the
// job, retrying the whole submission on failure per the retry config.
func (n *GenerateNode) Execute(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	promptText, _ := inputs[InputPortPrompt].(string)
	if promptText == "" {
		return nil, errors.New("prompt input is empty")
	}

	if n.config.PromptStyle != "" {
		promptText = promptText + ", " + n.config.PromptStyle
	}

	req := protocol.GenerationRequest{
		Prompt:   promptText,
		Provider: n.config.Provider,
		Settings: n.config.Settings,
	}

	var lastErr error

	for attempt := 1; attempt <= n.config.Attempts; attempt++ {
		artifact, err := n.client.Generate(ctx, req, nil)
		if err == nil {
			return map[string]any{
				OutputPortVideo: artifact.URL,
				OutputPortMetadata: map[string]any{
					"job_id":   artifact.JobID,
					"provider": n.config.Provider,
					"prompt":   promptText,
					"extra":    artifact.Metadata,
				},
			}, nil
		}

		lastErr = err

		if attempt < n.config.Attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(n.config.RetryDelay) * time.Millisecond):
			}
		}
	}

	return nil, fmt.Errorf("generation failed after %d attempts: %w", n.config.Attempts, lastErr)
}

// InputPorts returns the input ports for the node.
func (n *GenerateNode) InputPorts() []models.InputPort {
	return []models.InputPort{
		{
			Port: models.Port{
				ID:          models.MakePortID(n.id, InputPortPrompt),
				NodeID:      n.id,
				Name:        InputPortPrompt,
				Kind:        models.PortKindText,
				Description: "Prompt describing the clip to generate",
			},
			Required: true,
		},
	}
}

// OutputPorts returns the output ports for the node.
func (n *GenerateNode) OutputPorts() []models.OutputPort {
	return []models.OutputPort{
		{
			Port: models.Port{
				ID:          models.MakePortID(n.id, OutputPortVideo),
				NodeID:      n.id,
				Name:        OutputPortVideo,
				Kind:        models.PortKindVideo,
				Description: "Location of the generated clip",
			},
		},
		{
			Port: models.Port{
				ID:          models.MakePortID(n.id, OutputPortMetadata),
				NodeID:      n.id,
				Name:        OutputPortMetadata,
				Kind:        models.PortKindJSON,
				Description: "Provider job metadata",
			},
		},
	}
}
