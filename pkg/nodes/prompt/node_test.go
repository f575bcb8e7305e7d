package prompt

import (
	"context"
	"testing"
)

func TestPromptNode_Execute(t *testing.T) {
	node, err := NewPromptNode("node-1", map[string]any{
		"template": "scene {{.scene}} of {{.scenes}}: {{.topic}}",
		"count":    float64(3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outputs, err := node.Execute(context.Background(), map[string]any{"topic": "city rain"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(outputs) != 3 {
		t.Fatalf("expected 3 outputs, got %d", len(outputs))
	}

	if outputs["prompt_1"] != "scene 1 of 3: city rain" {
		t.Errorf("unexpected prompt_1: %v", outputs["prompt_1"])
	}

	if outputs["prompt_3"] != "scene 3 of 3: city rain" {
		t.Errorf("unexpected prompt_3: %v", outputs["prompt_3"])
	}
}

func TestPromptNode_Execute_NoTopic(t *testing.T) {
	node, _ := NewPromptNode("node-1", map[string]any{"template": "scene {{.scene}}"})

	outputs, err := node.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outputs["prompt_1"] != "scene 1" {
		t.Errorf("unexpected prompt_1: %v", outputs["prompt_1"])
	}
}

func TestPromptNode_Execute_BadTemplate(t *testing.T) {
	node, _ := NewPromptNode("node-1", map[string]any{"template": "{{.broken"})

	if _, err := node.Execute(context.Background(), nil); err == nil {
		t.Error("expected render error")
	}
}

func TestPromptNode_DefaultCount(t *testing.T) {
	node, _ := NewPromptNode("node-1", map[string]any{"template": "x"})

	if len(node.OutputPorts()) != 1 {
		t.Errorf("expected 1 output port by default, got %d", len(node.OutputPorts()))
	}
}

func TestPromptNode_OutputPortsFollowCount(t *testing.T) {
	node, _ := NewPromptNode("node-1", map[string]any{"template": "x", "count": float64(4)})

	ports := node.OutputPorts()
	if len(ports) != 4 {
		t.Fatalf("expected 4 output ports, got %d", len(ports))
	}

	if ports[0].Name != "prompt_1" || ports[3].Name != "prompt_4" {
		t.Errorf("unexpected port names %s, %s", ports[0].Name, ports[3].Name)
	}

	if ports[1].ID != "node-1:prompt_2" {
		t.Errorf("unexpected port id %s", ports[1].ID)
	}
}

func TestPromptNode_Validate(t *testing.T) {
	tests := []struct {
		name   string
		config map[string]any
		errs   int
	}{
		{"valid", map[string]any{"template": "x", "count": float64(2)}, 0},
		{"empty template", map[string]any{"count": float64(2)}, 1},
		{"count too low", map[string]any{"template": "x", "count": float64(0)}, 1},
		{"count too high", map[string]any{"template": "x", "count": float64(13)}, 1},
		{"both wrong", map[string]any{"count": float64(0)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, _ := NewPromptNode("node-1", tt.config)
			if errs := node.Validate(); len(errs) != tt.errs {
				t.Errorf("expected %d validation errors, got %v", tt.errs, errs)
			}
		})
	}
}
