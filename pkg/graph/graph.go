package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/protocol"
	"github.com/dukex/reelflow/pkg/registry"
	"github.com/google/uuid"
)

// member pairs the stored form of a node with its live instance. The live
// instance is rebuilt through the registry whenever config changes, which is
// what keeps ports a pure function of config.
type member struct {
	stored  *models.GraphNode
	runtime protocol.Node
}

// Graph holds nodes and connections and enforces their structural
// invariants. All mutations go through validated operations; no dangling
// port or node reference survives a returned mutation.
type Graph struct {
	id          string
	name        string
	registry    *registry.Registry
	members     []*member // insertion order, drives scheduling tie-breaks
	index       map[string]*member
	connections []*models.Connection
	metadata    map[string]any
	createdAt   time.Time
}

// New creates an empty graph with a generated id.
func New(name string, reg *registry.Registry) *Graph {
	return NewWithID("graph-"+uuid.New().String()[:8], name, reg)
}

// NewWithID creates an empty graph with the caller's id. Used when loading
// from the portable form.
func NewWithID(id, name string, reg *registry.Registry) *Graph {
	return &Graph{
		id:        id,
		name:      name,
		registry:  reg,
		index:     make(map[string]*member),
		metadata:  make(map[string]any),
		createdAt: time.Now().UTC(),
	}
}

func (g *Graph) ID() string {
	return g.id
}

func (g *Graph) Name() string {
	return g.name
}

// Nodes returns the stored nodes in insertion order.
func (g *Graph) Nodes() []*models.GraphNode {
	nodes := make([]*models.GraphNode, 0, len(g.members))
	for _, m := range g.members {
		nodes = append(nodes, m.stored)
	}

	return nodes
}

// Connections returns the connections in creation order.
func (g *Graph) Connections() []*models.Connection {
	return append([]*models.Connection(nil), g.connections...)
}

// Node returns the stored node by id.
func (g *Graph) Node(id string) (*models.GraphNode, bool) {
	m, ok := g.index[id]
	if !ok {
		return nil, false
	}

	return m.stored, true
}

// Runtime returns the live node instance by id.
func (g *Graph) Runtime(id string) (protocol.Node, bool) {
	m, ok := g.index[id]
	if !ok {
		return nil, false
	}

	return m.runtime, true
}

// IncomingConnection returns the connection targeting the given input port
// id, if any. An input port is the target of at most one connection.
func (g *Graph) IncomingConnection(targetPortID string) (*models.Connection, bool) {
	for _, conn := range g.connections {
		if conn.TargetPort == targetPortID {
			return conn, true
		}
	}

	return nil, false
}

// AddNode instantiates a node of the given type with a generated id and adds
// it to the graph.
func (g *Graph) AddNode(ctx context.Context, nodeType, name string, config map[string]any) (*models.GraphNode, error) {
	return g.AddNodeWithID(ctx, "node-"+uuid.New().String()[:8], nodeType, name, config, 0, 0)
}

// AddNodeWithID instantiates a node with the caller's id. Used when loading
// from the portable form.
func (g *Graph) AddNodeWithID(ctx context.Context, id, nodeType, name string, config map[string]any, posX, posY int) (*models.GraphNode, error) {
	if _, exists := g.index[id]; exists {
		return nil, fmt.Errorf("node id %q already in graph", id)
	}

	if config == nil {
		config = make(map[string]any)
	}

	runtime, err := g.registry.CreateNode(ctx, nodeType, id, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create node of type %q: %w", nodeType, err)
	}

	stored := &models.GraphNode{
		ID:        id,
		Type:      nodeType,
		Name:      name,
		Config:    config,
		PositionX: posX,
		PositionY: posY,
	}

	m := &member{stored: stored, runtime: runtime}
	g.members = append(g.members, m)
	g.index[id] = m

	return stored, nil
}

// RemoveNode removes a node and every connection touching it.
func (g *Graph) RemoveNode(id string) error {
	if _, ok := g.index[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	delete(g.index, id)

	for i, m := range g.members {
		if m.stored.ID == id {
			g.members = append(g.members[:i], g.members[i+1:]...)

			break
		}
	}

	g.removeConnections(func(conn *models.Connection) bool {
		srcNode, _, _ := models.ParsePortID(conn.SourcePort)
		dstNode, _, _ := models.ParsePortID(conn.TargetPort)

		return srcNode == id || dstNode == id
	})

	return nil
}

// UpdateNodeConfig replaces a node's config, recomputes its ports and drops
// exactly the connections whose endpoint port vanished. On error nothing
// changes.
func (g *Graph) UpdateNodeConfig(ctx context.Context, id string, config map[string]any) error {
	m, ok := g.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	if config == nil {
		config = make(map[string]any)
	}

	runtime, err := g.registry.CreateNode(ctx, m.stored.Type, id, config)
	if err != nil {
		return fmt.Errorf("failed to recreate node %q with new config: %w", id, err)
	}

	m.runtime = runtime
	m.stored.Config = config

	g.cleanupForNode(id)

	return nil
}

// SetPosition stores opaque layout coordinates for a node. The core never
// interprets them.
func (g *Graph) SetPosition(id string, x, y int) error {
	m, ok := g.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	m.stored.PositionX = x
	m.stored.PositionY = y

	return nil
}

// Connect creates a connection from an output port to an input port. The
// checks run in a fixed order and any failure returns before any mutation:
// both nodes exist, source is an output, target is an input, the target is
// unoccupied, the connection is not a duplicate.
func (g *Graph) Connect(fromNodeID, fromPortName, toNodeID, toPortName string) (*models.Connection, error) {
	return g.connectWithID("conn-"+uuid.New().String()[:8], fromNodeID, fromPortName, toNodeID, toPortName)
}

func (g *Graph) connectWithID(connID, fromNodeID, fromPortName, toNodeID, toPortName string) (*models.Connection, error) {
	from, ok := g.index[fromNodeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, fromNodeID)
	}

	to, ok := g.index[toNodeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, toNodeID)
	}

	sourcePortID, err := g.resolveOutputPort(from, fromPortName)
	if err != nil {
		return nil, err
	}

	targetPortID, err := g.resolveInputPort(to, toPortName)
	if err != nil {
		return nil, err
	}

	if existing, occupied := g.IncomingConnection(targetPortID); occupied {
		if existing.SourcePort == sourcePortID {
			return nil, fmt.Errorf("%w: %s -> %s", ErrDuplicateConnection, sourcePortID, targetPortID)
		}

		return nil, fmt.Errorf("%w: %s", ErrInputOccupied, targetPortID)
	}

	conn := &models.Connection{
		ID:         connID,
		SourcePort: sourcePortID,
		TargetPort: targetPortID,
	}
	g.connections = append(g.connections, conn)

	return conn, nil
}

// Disconnect removes a connection by id. Removing an unknown id is a no-op.
func (g *Graph) Disconnect(connectionID string) {
	g.removeConnections(func(conn *models.Connection) bool {
		return conn.ID == connectionID
	})
}

func (g *Graph) resolveOutputPort(m *member, portName string) (string, error) {
	for _, port := range m.runtime.OutputPorts() {
		if port.Name == portName {
			return port.ID, nil
		}
	}

	for _, port := range m.runtime.InputPorts() {
		if port.Name == portName {
			return "", fmt.Errorf("%w: %s is an input port of %s", ErrInvalidDirection, portName, m.stored.ID)
		}
	}

	return "", fmt.Errorf("%w: node %s has no output port %q", ErrPortNotFound, m.stored.ID, portName)
}

func (g *Graph) resolveInputPort(m *member, portName string) (string, error) {
	for _, port := range m.runtime.InputPorts() {
		if port.Name == portName {
			return port.ID, nil
		}
	}

	for _, port := range m.runtime.OutputPorts() {
		if port.Name == portName {
			return "", fmt.Errorf("%w: %s is an output port of %s", ErrInvalidDirection, portName, m.stored.ID)
		}
	}

	return "", fmt.Errorf("%w: node %s has no input port %q", ErrPortNotFound, m.stored.ID, portName)
}

// cleanupForNode removes exactly the connections whose endpoint on the given
// node references a port id the node no longer describes.
func (g *Graph) cleanupForNode(nodeID string) {
	m, ok := g.index[nodeID]
	if !ok {
		return
	}

	valid := make(map[string]bool)
	for _, port := range m.runtime.InputPorts() {
		valid[port.ID] = true
	}

	for _, port := range m.runtime.OutputPorts() {
		valid[port.ID] = true
	}

	g.removeConnections(func(conn *models.Connection) bool {
		srcNode, _, _ := models.ParsePortID(conn.SourcePort)
		dstNode, _, _ := models.ParsePortID(conn.TargetPort)

		if srcNode == nodeID && !valid[conn.SourcePort] {
			return true
		}

		if dstNode == nodeID && !valid[conn.TargetPort] {
			return true
		}

		return false
	})
}

func (g *Graph) removeConnections(drop func(*models.Connection) bool) {
	kept := g.connections[:0]

	for _, conn := range g.connections {
		if !drop(conn) {
			kept = append(kept, conn)
		}
	}

	g.connections = kept
}
