// Package lognode provides a passthrough node that logs a rendered message.
package lognode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/template"
)

const (
	InputPortMain      = "main"
	OutputPortMain     = "main"
	defaultLoggerLevel = "info"
)

// LogNode logs a templated message and forwards its input unchanged, so it
// can be spliced into any edge of a graph for debugging.
type LogNode struct {
	id      string
	message string
	level   string
	logger  *slog.Logger
}

func NewLogNode(id string, config map[string]any, logger *slog.Logger) (*LogNode, error) {
	message, ok := config["message"].(string)
	if !ok || message == "" {
		return nil, errors.New("missing required field 'message'")
	}

	level := defaultLoggerLevel
	if raw, ok := config["level"].(string); ok && raw != "" {
		level = strings.ToLower(raw)
	}

	return &LogNode{
		id:      id,
		message: message,
		level:   level,
		logger:  logger.With("node_id", id),
	}, nil
}

// ID returns the node ID.
func (n *LogNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *LogNode) Type() string {
	return "log"
}

// Validate checks the message and level.
func (n *LogNode) Validate() []error {
	var errs []error

	if n.message == "" {
		errs = append(errs, errors.New("message must not be empty"))
	}

	switch n.level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unsupported log level %q", n.level))
	}

	return errs
}

// Execute renders and logs the message, then passes the input through.
func (n *LogNode) Execute(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	rendered, err := template.RenderWithInputs(n.message, inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to render log message: %w", err)
	}

	message := fmt.Sprintf("%v", rendered)

	switch n.level {
	case "debug":
		n.logger.DebugContext(ctx, message)
	case "warn":
		n.logger.WarnContext(ctx, message)
	case "error":
		n.logger.ErrorContext(ctx, message)
	default:
		n.logger.InfoContext(ctx, message)
	}

	return map[string]any{
		OutputPortMain: inputs[InputPortMain],
	}, nil
}

// InputPorts returns the input ports for the node.
func (n *LogNode) InputPorts() []models.InputPort {
	return []models.InputPort{
		{
			Port: models.Port{
				ID:          models.MakePortID(n.id, InputPortMain),
				NodeID:      n.id,
				Name:        InputPortMain,
				Kind:        models.PortKindAny,
				Description: "Value to log and pass through",
			},
			Required: false,
		},
	}
}

// OutputPorts returns the output ports for the node.
func (n *LogNode) OutputPorts() []models.OutputPort {
	return []models.OutputPort{
		{
			Port: models.Port{
				ID:          models.MakePortID(n.id, OutputPortMain),
				NodeID:      n.id,
				Name:        OutputPortMain,
				Kind:        models.PortKindAny,
				Description: "The unchanged input value",
			},
		},
	}
}
