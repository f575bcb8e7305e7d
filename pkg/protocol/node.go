// Package protocol defines the interfaces and contracts for pluggable nodes
// and their external collaborators.
package protocol

import (
	"context"

	"github.com/dukex/reelflow/pkg/models"
)

// Node is a typed processing unit. A node's ports are a pure function of the
// config it was created with: creating two nodes with the same id and config
// yields identical port lists.
//
// Execute receives an input bag keyed by lower-cased input port name and
// returns an output bag keyed by output port name. It must only be invoked
// when Validate returns no errors and every required input key is present.
type Node interface {
	// ID returns the node instance id, unique within a graph.
	ID() string

	// Type returns the node type tag.
	Type() string

	// InputPorts returns the input ports derived from the node's config.
	InputPorts() []models.InputPort

	// OutputPorts returns the output ports derived from the node's config.
	OutputPorts() []models.OutputPort

	// Validate performs local semantic checks on the node's config. It
	// returns problems as values and never panics.
	Validate() []error

	// Execute runs the node. It may delegate to an external service and
	// block for an unbounded time; retry and backoff are the node's own
	// responsibility.
	Execute(ctx context.Context, inputs map[string]any) (map[string]any, error)
}

// NodeFactory creates node instances and provides metadata about the node type.
type NodeFactory interface {
	// Create creates a new node instance with the given configuration.
	Create(ctx context.Context, id string, config map[string]any) (Node, error)

	// ID returns the unique identifier for this node type.
	ID() string

	// Name returns the human-readable name for this node type.
	Name() string

	// Description returns a description of what this node does.
	Description() string

	// Schema returns the JSON schema for configuring this node.
	Schema() map[string]any
}
