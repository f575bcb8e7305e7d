package lognode

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLogNode_Execute_PassesInputThrough(t *testing.T) {
	var buf bytes.Buffer

	node, err := NewLogNode("node-1", map[string]any{"message": "checkpoint"}, testLogger(&buf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outputs, err := node.Execute(context.Background(), map[string]any{"main": "payload"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outputs[OutputPortMain] != "payload" {
		t.Errorf("expected passthrough, got %v", outputs[OutputPortMain])
	}

	if !strings.Contains(buf.String(), "checkpoint") {
		t.Errorf("message not logged: %s", buf.String())
	}

	if !strings.Contains(buf.String(), "node-1") {
		t.Errorf("node id missing from log: %s", buf.String())
	}
}

func TestLogNode_Execute_RendersMessage(t *testing.T) {
	var buf bytes.Buffer

	node, _ := NewLogNode("node-1", map[string]any{"message": "got {{.main}}"}, testLogger(&buf))

	_, err := node.Execute(context.Background(), map[string]any{"main": "sunsets"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(buf.String(), "got sunsets") {
		t.Errorf("template not rendered: %s", buf.String())
	}
}

func TestLogNode_Execute_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			var buf bytes.Buffer

			node, err := NewLogNode("node-1", map[string]any{"message": "x", "level": level}, testLogger(&buf))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if _, err := node.Execute(context.Background(), nil); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !strings.Contains(buf.String(), "level="+strings.ToUpper(level)) {
				t.Errorf("expected %s entry, got %s", level, buf.String())
			}
		})
	}
}

func TestLogNode_RequiresMessage(t *testing.T) {
	if _, err := NewLogNode("node-1", map[string]any{}, slog.Default()); err == nil {
		t.Error("expected error for missing message")
	}
}

func TestLogNode_Validate_Level(t *testing.T) {
	node, err := NewLogNode("node-1", map[string]any{"message": "x", "level": "verbose"}, slog.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	errs := node.Validate()
	if len(errs) != 1 {
		t.Fatalf("expected 1 validation error, got %v", errs)
	}

	if !strings.Contains(errs[0].Error(), "verbose") {
		t.Errorf("unexpected message: %v", errs[0])
	}
}
