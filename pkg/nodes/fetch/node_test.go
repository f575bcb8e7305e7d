package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestFetchNode_Execute_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	node, err := NewFetchNode("node-1", map[string]any{"url": server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outputs, err := node.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	success, ok := outputs[OutputPortSuccess].(map[string]any)
	if !ok {
		t.Fatalf("expected success output, got %v", outputs)
	}

	if success["status_code"] != http.StatusOK {
		t.Errorf("unexpected status: %v", success["status_code"])
	}

	body, ok := success["body"].(map[string]any)
	if !ok || body["ok"] != true {
		t.Errorf("expected parsed JSON body, got %v", success["body"])
	}
}

func TestFetchNode_Execute_NonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain text"))
	}))
	defer server.Close()

	node, _ := NewFetchNode("node-1", map[string]any{"url": server.URL})

	outputs, err := node.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	success := outputs[OutputPortSuccess].(map[string]any)
	if success["body"] != "plain text" {
		t.Errorf("expected raw string body, got %v", success["body"])
	}
}

func TestFetchNode_Execute_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	node, _ := NewFetchNode("node-1", map[string]any{"url": server.URL})

	outputs, err := node.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("error statuses go to the error port, not the run: %v", err)
	}

	if _, ok := outputs[OutputPortSuccess]; ok {
		t.Error("success port should be empty")
	}

	errOut, ok := outputs[OutputPortError].(map[string]any)
	if !ok {
		t.Fatalf("expected error output, got %v", outputs)
	}

	if errOut["success"] != false {
		t.Errorf("unexpected error payload: %v", errOut)
	}
}

func TestFetchNode_Execute_Retries(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	node, _ := NewFetchNode("node-1", map[string]any{
		"url":     server.URL,
		"retries": map[string]any{"attempts": float64(3), "delay": float64(0)},
	})

	outputs, err := node.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := outputs[OutputPortSuccess]; !ok {
		t.Errorf("expected success after retries, got %v", outputs)
	}

	if calls.Load() != 3 {
		t.Errorf("expected 3 requests, got %d", calls.Load())
	}
}

func TestFetchNode_Execute_TemplatedRequest(t *testing.T) {
	var gotPath, gotHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeader = r.Header.Get("X-Topic")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	node, _ := NewFetchNode("node-1", map[string]any{
		"url":     server.URL + "/topics/{{.main}}",
		"headers": map[string]any{"X-Topic": "{{.main}}"},
	})

	_, err := node.Execute(context.Background(), map[string]any{"main": "sunsets"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/topics/sunsets" {
		t.Errorf("url template not rendered: %s", gotPath)
	}

	if gotHeader != "sunsets" {
		t.Errorf("header template not rendered: %s", gotHeader)
	}
}

func TestFetchNode_Execute_TransportFailure(t *testing.T) {
	// Closed server: connection refused should land on the error port.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	node, _ := NewFetchNode("node-1", map[string]any{"url": server.URL})

	outputs, err := node.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("transport failures go to the error port, not the run: %v", err)
	}

	if _, ok := outputs[OutputPortError]; !ok {
		t.Errorf("expected error output, got %v", outputs)
	}
}

func TestFetchNode_RequiresURL(t *testing.T) {
	if _, err := NewFetchNode("node-1", map[string]any{}); err == nil {
		t.Error("expected error for missing url")
	}
}

func TestFetchNode_Validate(t *testing.T) {
	node, _ := NewFetchNode("node-1", map[string]any{
		"url":     "http://example.com",
		"retries": map[string]any{"attempts": float64(11)},
	})

	errs := node.Validate()
	if len(errs) != 1 {
		t.Fatalf("expected 1 validation error, got %v", errs)
	}
}
