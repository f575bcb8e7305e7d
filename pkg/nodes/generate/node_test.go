package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dukex/reelflow/pkg/protocol"
)

type fakeClient struct {
	requests []protocol.GenerationRequest
	failures int
	err      error
}

func (c *fakeClient) Generate(_ context.Context, req protocol.GenerationRequest, _ protocol.GenerationProgressFunc) (*protocol.GenerationArtifact, error) {
	c.requests = append(c.requests, req)

	if len(c.requests) <= c.failures {
		if c.err != nil {
			return nil, c.err
		}

		return nil, errors.New("provider unavailable")
	}

	return &protocol.GenerationArtifact{
		JobID:    "job-42",
		URL:      "/videos/clip.mp4",
		Metadata: map[string]any{"duration": 8},
	}, nil
}

func TestGenerateNode_Execute(t *testing.T) {
	client := &fakeClient{}

	node, err := NewGenerateNode("node-1", map[string]any{"provider": "openai"}, client)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outputs, err := node.Execute(context.Background(), map[string]any{"prompt": "a slow pan over dunes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outputs[OutputPortVideo] != "/videos/clip.mp4" {
		t.Errorf("unexpected video output: %v", outputs[OutputPortVideo])
	}

	metadata, ok := outputs[OutputPortMetadata].(map[string]any)
	if !ok {
		t.Fatalf("expected metadata map, got %T", outputs[OutputPortMetadata])
	}

	if metadata["job_id"] != "job-42" || metadata["provider"] != "openai" {
		t.Errorf("unexpected metadata: %v", metadata)
	}

	if len(client.requests) != 1 {
		t.Errorf("expected 1 request, got %d", len(client.requests))
	}
}

func TestGenerateNode_Execute_PromptStyle(t *testing.T) {
	client := &fakeClient{}

	node, _ := NewGenerateNode("node-1", map[string]any{"prompt_style": "cinematic, 35mm"}, client)

	_, err := node.Execute(context.Background(), map[string]any{"prompt": "a harbor at dawn"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sent := client.requests[0].Prompt
	if sent != "a harbor at dawn, cinematic, 35mm" {
		t.Errorf("prompt style not appended: %q", sent)
	}
}

func TestGenerateNode_Execute_EmptyPrompt(t *testing.T) {
	node, _ := NewGenerateNode("node-1", map[string]any{}, &fakeClient{})

	if _, err := node.Execute(context.Background(), map[string]any{}); err == nil {
		t.Error("expected error for empty prompt")
	}
}

func TestGenerateNode_Execute_RetriesThenSucceeds(t *testing.T) {
	client := &fakeClient{failures: 2}

	node, _ := NewGenerateNode("node-1", map[string]any{
		"retries": map[string]any{"attempts": float64(3), "delay": float64(0)},
	}, client)

	outputs, err := node.Execute(context.Background(), map[string]any{"prompt": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outputs[OutputPortVideo] != "/videos/clip.mp4" {
		t.Errorf("unexpected video output: %v", outputs[OutputPortVideo])
	}

	if len(client.requests) != 3 {
		t.Errorf("expected 3 attempts, got %d", len(client.requests))
	}
}

func TestGenerateNode_Execute_ExhaustsRetries(t *testing.T) {
	client := &fakeClient{failures: 10, err: errors.New("quota exceeded")}

	node, _ := NewGenerateNode("node-1", map[string]any{
		"retries": map[string]any{"attempts": float64(2), "delay": float64(0)},
	}, client)

	_, err := node.Execute(context.Background(), map[string]any{"prompt": "x"})
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}

	if !strings.Contains(err.Error(), "after 2 attempts") {
		t.Errorf("unexpected error: %v", err)
	}

	if !errors.Is(err, client.err) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}

	if len(client.requests) != 2 {
		t.Errorf("expected 2 attempts, got %d", len(client.requests))
	}
}

func TestGenerateNode_Validate(t *testing.T) {
	tests := []struct {
		name   string
		config map[string]any
		errs   int
	}{
		{"defaults", map[string]any{}, 0},
		{"openai", map[string]any{"provider": "openai"}, 0},
		{"unknown provider", map[string]any{"provider": "acme"}, 1},
		{"attempts too high", map[string]any{"retries": map[string]any{"attempts": float64(11)}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := NewGenerateNode("node-1", tt.config, &fakeClient{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if errs := node.Validate(); len(errs) != tt.errs {
				t.Errorf("expected %d validation errors, got %v", tt.errs, errs)
			}
		})
	}
}

func TestGenerateNode_RequiresClient(t *testing.T) {
	if _, err := NewGenerateNode("node-1", map[string]any{}, nil); err == nil {
		t.Error("expected error for nil client")
	}
}

func TestGenerateNode_Ports(t *testing.T) {
	node, _ := NewGenerateNode("node-1", map[string]any{}, &fakeClient{})

	inputs := node.InputPorts()
	if len(inputs) != 1 || !inputs[0].Required {
		t.Errorf("expected single required prompt input, got %v", inputs)
	}

	outputs := node.OutputPorts()
	if len(outputs) != 2 {
		t.Fatalf("expected 2 output ports, got %d", len(outputs))
	}

	if outputs[0].Name != OutputPortVideo || outputs[1].Name != OutputPortMetadata {
		t.Errorf("unexpected output ports: %s, %s", outputs[0].Name, outputs[1].Name)
	}
}
