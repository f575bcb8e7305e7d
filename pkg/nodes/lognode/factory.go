package lognode

import (
	"context"
	"log/slog"

	"github.com/dukex/reelflow/pkg/protocol"
)

// LogNodeFactory creates LogNode instances sharing one logger.
type LogNodeFactory struct {
	logger *slog.Logger
}

func NewLogNodeFactory(logger *slog.Logger) protocol.NodeFactory {
	return &LogNodeFactory{logger: logger}
}

func (f *LogNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewLogNode(id, config, f.logger)
}

func (f *LogNodeFactory) ID() string {
	return "log"
}

func (f *LogNodeFactory) Name() string {
	return "Log"
}

func (f *LogNodeFactory) Description() string {
	return "Logs a templated message and passes its input through unchanged"
}

func (f *LogNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "Message to log. Supports templating with {{.inputs.main}}",
			},
			"level": map[string]any{
				"type":        "string",
				"description": "Log level",
				"default":     "info",
				"enum":        []string{"debug", "info", "warn", "error"},
			},
		},
		"required": []string{"message"},
	}
}
