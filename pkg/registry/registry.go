// Package registry provides node type registration and instantiation.
package registry

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"plugin"

	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/protocol"
	"github.com/xeipuuv/gojsonschema"
)

// Registry maps node type tags to their factories. New node types register a
// tag -> factory mapping; the graph, scheduler and engine never need to know
// about concrete node types.
type Registry struct {
	logger        *slog.Logger
	nodeFactories map[string]protocol.NodeFactory
	order         []string
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:        log,
		nodeFactories: make(map[string]protocol.NodeFactory),
	}
}

// RegisterNode registers a node factory, replacing any previous factory with
// the same type tag.
func (r *Registry) RegisterNode(factory protocol.NodeFactory) {
	if _, exists := r.nodeFactories[factory.ID()]; !exists {
		r.order = append(r.order, factory.ID())
	}

	r.nodeFactories[factory.ID()] = factory
}

// CreateNode instantiates a node of the given type with the given config.
// Ports are derived from the config during creation, so a node created twice
// from the same config exposes identical ports.
func (r *Registry) CreateNode(ctx context.Context, nodeType, id string, config map[string]any) (protocol.Node, error) {
	factory, ok := r.nodeFactories[nodeType]
	if !ok {
		return nil, fmt.Errorf("node type '%s' not registered", nodeType)
	}

	return factory.Create(ctx, id, config)
}

// NodeTypes returns metadata for every registered node type in registration order.
func (r *Registry) NodeTypes() []*models.RegisteredNodeType {
	types := make([]*models.RegisteredNodeType, 0, len(r.order))
	for _, id := range r.order {
		factory := r.nodeFactories[id]
		types = append(types, &models.RegisteredNodeType{
			Type:        factory.ID(),
			Name:        factory.Name(),
			Description: factory.Description(),
			Schema:      factory.Schema(),
		})
	}

	return types
}

// ValidateConfig checks a config map against the node type's JSON schema and
// returns the list of violations as human-readable messages.
func (r *Registry) ValidateConfig(nodeType string, config map[string]any) ([]string, error) {
	factory, ok := r.nodeFactories[nodeType]
	if !ok {
		return nil, fmt.Errorf("node type '%s' not registered", nodeType)
	}

	schemaLoader := gojsonschema.NewGoLoader(factory.Schema())
	documentLoader := gojsonschema.NewGoLoader(config)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to validate config for node type '%s': %w", nodeType, err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, resultError := range result.Errors() {
		violations = append(violations, resultError.String())
	}

	return violations, nil
}

// HealthCheck reports the registered node type count.
func (r *Registry) HealthCheck() (map[string]any, bool) {
	return map[string]any{
		"status":     "ok",
		"node_types": len(r.nodeFactories),
	}, true
}

// LoadNodePlugins loads NodeFactory plugins from .so files under pluginsPath/nodes.
func (r *Registry) LoadNodePlugins(pluginsPath string) ([]protocol.NodeFactory, error) {
	return loadPlugin[protocol.NodeFactory](r.logger, pluginsPath, "Node")
}

func loadPlugin[T any](logger *slog.Logger, pluginsPath string, symbolName string) ([]T, error) {
	rootPath := pluginsPath + "/nodes"
	root := os.DirFS(rootPath)

	pluginPathList, err := fs.Glob(root, "**/*.so")
	if err != nil {
		return nil, err
	}

	l := logger.With(slog.String("path", pluginsPath), slog.String("type", symbolName))
	l.Info("Loading plugins")

	pluginList := make([]T, 0, len(pluginPathList))

	for _, p := range pluginPathList {
		plg, err := plugin.Open(rootPath + "/" + p)
		if err != nil {
			return nil, fmt.Errorf("failed to open plugin %s: %w", p, err)
		}

		v, err := plg.Lookup(symbolName)
		if err != nil {
			return nil, fmt.Errorf("failed to look up symbol %s in plugin %s: %w", symbolName, p, err)
		}

		castV, ok := v.(T)
		if !ok {
			return nil, fmt.Errorf("plugin %s does not export a %s factory", p, symbolName)
		}

		pluginList = append(pluginList, castV)

		l.Info("Loaded node plugin", slog.String("plugin", p))
	}

	return pluginList, nil
}
