// Package models defines the core domain models for node graph execution.
package models

// PortKind tags the kind of value a port carries.
type PortKind string

const (
	PortKindText  PortKind = "text"
	PortKindVideo PortKind = "video"
	PortKindJSON  PortKind = "json"
	PortKindAny   PortKind = "any"
)

// Port represents a connection point on a node.
type Port struct {
	ID          string   `json:"id"`      // Globally unique: "{nodeID}:{portName}"
	NodeID      string   `json:"node_id"` // Which node this port belongs to
	Name        string   `json:"name"`    // Port name (unique within node)
	Kind        PortKind `json:"kind"`
	Description string   `json:"description,omitempty"`
}

// InputPort extends Port with input-specific properties.
type InputPort struct {
	Port

	// Required inputs must have exactly one incoming connection before a
	// graph is considered runnable.
	Required bool `json:"required"`
}

// OutputPort extends Port with output-specific properties.
type OutputPort struct {
	Port
}

// PortDirection represents the direction of data flow for a port.
type PortDirection string

const (
	PortDirectionInput  PortDirection = "input"
	PortDirectionOutput PortDirection = "output"
)

func (p InputPort) GetDirection() PortDirection {
	return PortDirectionInput
}

func (p OutputPort) GetDirection() PortDirection {
	return PortDirectionOutput
}

// ParsePortID parses a port ID in format "{node_id}:{port_name}" into components.
func ParsePortID(portID string) (string, string, bool) {
	for i := range len(portID) {
		if portID[i] == ':' {
			return portID[:i], portID[i+1:], true
		}
	}

	return "", "", false
}

// MakePortID creates a port ID from node ID and port name.
func MakePortID(nodeID, portName string) string {
	return nodeID + ":" + portName
}
