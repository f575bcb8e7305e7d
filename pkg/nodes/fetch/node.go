// Package fetch provides a generic HTTP request node with success/error
// output ports.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/template"
)

const (
	InputPortMain     = "main"
	OutputPortSuccess = "success"
	OutputPortError   = "error"
)

// FetchConfig defines the configuration for fetch nodes.
type FetchConfig struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body,omitempty"`
	Timeout int               `json:"timeout"`
	Retries RetryConfig       `json:"retries"`
}

// RetryConfig defines retry behavior for HTTP requests.
type RetryConfig struct {
	Attempts int `json:"attempts"`
	Delay    int `json:"delay"`
}

// FetchNode performs an HTTP request. URL, headers and body are templates
// rendered against the node's input bag. Transport failures surface on the
// error port rather than failing the run, so downstream nodes can branch.
type FetchNode struct {
	id     string
	config FetchConfig
}

func NewFetchNode(id string, config map[string]any) (*FetchNode, error) {
	cfg := FetchConfig{
		Method:  "GET",
		Headers: make(map[string]string),
		Timeout: 30,
		Retries: RetryConfig{Attempts: 1, Delay: 0},
	}

	if url, ok := config["url"].(string); ok {
		cfg.URL = url
	} else {
		return nil, errors.New("missing required field 'url'")
	}

	if method, ok := config["method"].(string); ok {
		cfg.Method = strings.ToUpper(method)
	}

	if headers, ok := config["headers"].(map[string]any); ok {
		for k, v := range headers {
			if strVal, ok := v.(string); ok {
				cfg.Headers[k] = strVal
			}
		}
	}

	if body, ok := config["body"].(string); ok {
		cfg.Body = body
	}

	if timeout, ok := config["timeout"].(float64); ok {
		cfg.Timeout = int(timeout)
	}

	if retries, ok := config["retries"].(map[string]any); ok {
		if attempts, ok := retries["attempts"].(float64); ok {
			cfg.Retries.Attempts = int(attempts)
		}

		if delay, ok := retries["delay"].(float64); ok {
			cfg.Retries.Delay = int(delay)
		}
	}

	return &FetchNode{
		id:     id,
		config: cfg,
	}, nil
}

// ID returns the node ID.
func (n *FetchNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *FetchNode) Type() string {
	return "fetch"
}

// Validate checks the URL and retry bounds.
func (n *FetchNode) Validate() []error {
	var errs []error

	if n.config.URL == "" {
		errs = append(errs, errors.New("url must not be empty"))
	}

	if n.config.Retries.Attempts < 1 || n.config.Retries.Attempts > 10 {
		errs = append(errs, errors.New("retries.attempts must be between 1 and 10"))
	}

	return errs
}

// Execute performs the HTTP request and returns the result on the success
// or error port.
func (n *FetchNode) Execute(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	renderedURL, err := template.RenderWithInputs(n.config.URL, inputs)
	if err != nil {
		return n.errorResult(fmt.Sprintf("failed to render URL template: %v", err)), nil
	}

	urlStr, ok := renderedURL.(string)
	if !ok {
		return n.errorResult("URL template must render to string"), nil
	}

	var renderedBody string

	if n.config.Body != "" {
		renderedBodyAny, err := template.RenderWithInputs(n.config.Body, inputs)
		if err != nil {
			return n.errorResult(fmt.Sprintf("failed to render body template: %v", err)), nil
		}

		renderedBody = fmt.Sprintf("%v", renderedBodyAny)
	}

	headers := make(map[string]string, len(n.config.Headers))

	for key, value := range n.config.Headers {
		renderedValue, err := template.RenderWithInputs(value, inputs)
		if err != nil {
			headers[key] = value // Use original value if template fails
		} else if strVal, ok := renderedValue.(string); ok {
			headers[key] = strVal
		} else {
			headers[key] = value
		}
	}

	client := &http.Client{Timeout: time.Duration(n.config.Timeout) * time.Second}

	var lastErr error

	for attempt := 1; attempt <= n.config.Retries.Attempts; attempt++ {
		body, status, err := n.doRequest(ctx, client, urlStr, renderedBody, headers)
		if err == nil && status < http.StatusBadRequest {
			return map[string]any{
				OutputPortSuccess: map[string]any{
					"body":        body,
					"status_code": status,
				},
			}, nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("request returned status %d", status)
		}

		if attempt < n.config.Retries.Attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(n.config.Retries.Delay) * time.Millisecond):
			}
		}
	}

	return n.errorResult(lastErr.Error()), nil
}

func (n *FetchNode) doRequest(ctx context.Context, client *http.Client, url, body string, headers map[string]string) (any, int, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, n.config.Method, url, reader)
	if err != nil {
		return nil, 0, err
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return string(raw), resp.StatusCode, nil
	}

	return parsed, resp.StatusCode, nil
}

func (n *FetchNode) errorResult(message string) map[string]any {
	return map[string]any{
		OutputPortError: map[string]any{
			"error":   message,
			"success": false,
		},
	}
}

// InputPorts returns the input ports for the node.
func (n *FetchNode) InputPorts() []models.InputPort {
	return []models.InputPort{
		{
			Port: models.Port{
				ID:          models.MakePortID(n.id, InputPortMain),
				NodeID:      n.id,
				Name:        InputPortMain,
				Kind:        models.PortKindAny,
				Description: "Optional upstream value available to url/body templates",
			},
			Required: false,
		},
	}
}

// OutputPorts returns the output ports for the node.
func (n *FetchNode) OutputPorts() []models.OutputPort {
	return []models.OutputPort{
		{
			Port: models.Port{
				ID:          models.MakePortID(n.id, OutputPortSuccess),
				NodeID:      n.id,
				Name:        OutputPortSuccess,
				Kind:        models.PortKindJSON,
				Description: "Response body and status for 2xx/3xx responses",
			},
		},
		{
			Port: models.Port{
				ID:          models.MakePortID(n.id, OutputPortError),
				NodeID:      n.id,
				Name:        OutputPortError,
				Kind:        models.PortKindJSON,
				Description: "Error information when the request fails",
			},
		},
	}
}
