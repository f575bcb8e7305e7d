package graph

import (
	"fmt"
)

// ValidationIssue is one actionable problem found during aggregate
// validation. Issues name the offending node and port where applicable.
type ValidationIssue struct {
	NodeID  string `json:"node_id,omitempty"`
	Port    string `json:"port,omitempty"`
	Message string `json:"message"`
}

func (i ValidationIssue) String() string {
	switch {
	case i.NodeID != "" && i.Port != "":
		return fmt.Sprintf("node %s, port %s: %s", i.NodeID, i.Port, i.Message)
	case i.NodeID != "":
		return fmt.Sprintf("node %s: %s", i.NodeID, i.Message)
	default:
		return i.Message
	}
}

// Validate collects every problem that would prevent the graph from running:
// an empty graph, per-node config problems (JSON schema plus the node's own
// semantic checks), required input ports without an incoming connection, and
// dependency cycles. All problems are collected rather than failing on the
// first; execution must refuse to start while the list is non-empty.
func (g *Graph) Validate() []ValidationIssue {
	issues := make([]ValidationIssue, 0)

	if len(g.members) == 0 {
		return append(issues, ValidationIssue{Message: "graph has no nodes"})
	}

	for _, m := range g.members {
		nodeID := m.stored.ID

		violations, err := g.registry.ValidateConfig(m.stored.Type, m.stored.Config)
		if err != nil {
			issues = append(issues, ValidationIssue{NodeID: nodeID, Message: err.Error()})
		}

		for _, violation := range violations {
			issues = append(issues, ValidationIssue{NodeID: nodeID, Message: "config: " + violation})
		}

		for _, validationErr := range m.runtime.Validate() {
			issues = append(issues, ValidationIssue{NodeID: nodeID, Message: validationErr.Error()})
		}

		for _, input := range m.runtime.InputPorts() {
			if !input.Required {
				continue
			}

			if _, connected := g.IncomingConnection(input.ID); !connected {
				issues = append(issues, ValidationIssue{
					NodeID:  nodeID,
					Port:    input.Name,
					Message: "required input has no incoming connection",
				})
			}
		}
	}

	if _, err := g.TopologicalOrder(); err != nil {
		issues = append(issues, ValidationIssue{Message: err.Error()})
	}

	return issues
}
