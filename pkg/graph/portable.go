package graph

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/registry"
)

// ToDocument converts the graph to its portable representation. Positions
// are passed through unmodified; ports are never serialized because they are
// derived from config.
func (g *Graph) ToDocument() *models.GraphDocument {
	nodes := make([]*models.GraphNode, 0, len(g.members))

	for _, m := range g.members {
		config := make(map[string]any, len(m.stored.Config))
		for k, v := range m.stored.Config {
			config[k] = v
		}

		nodes = append(nodes, &models.GraphNode{
			ID:        m.stored.ID,
			Type:      m.stored.Type,
			Name:      m.stored.Name,
			Config:    config,
			PositionX: m.stored.PositionX,
			PositionY: m.stored.PositionY,
		})
	}

	connections := make([]*models.Connection, 0, len(g.connections))
	for _, conn := range g.connections {
		copied := *conn
		connections = append(connections, &copied)
	}

	metadata := make(map[string]any, len(g.metadata))
	for k, v := range g.metadata {
		metadata[k] = v
	}

	return &models.GraphDocument{
		ID:          g.id,
		Name:        g.name,
		Nodes:       nodes,
		Connections: connections,
		Metadata:    metadata,
		CreatedAt:   g.createdAt,
		UpdatedAt:   time.Now().UTC(),
	}
}

// FromDocument reconstructs a graph from its portable representation. Every
// node is re-instantiated through the registry so ports are recomputed from
// the stored config. Connections go back through the validated connect path;
// a connection whose port no longer exists (the registry's port derivation
// may have changed since the document was written) is dropped with a warning
// instead of failing the whole load.
func FromDocument(ctx context.Context, doc *models.GraphDocument, reg *registry.Registry, logger *slog.Logger) (*Graph, error) {
	g := NewWithID(doc.ID, doc.Name, reg)

	if doc.Metadata != nil {
		for k, v := range doc.Metadata {
			g.metadata[k] = v
		}
	}

	if !doc.CreatedAt.IsZero() {
		g.createdAt = doc.CreatedAt
	}

	for _, node := range doc.Nodes {
		_, err := g.AddNodeWithID(ctx, node.ID, node.Type, node.Name, node.Config, node.PositionX, node.PositionY)
		if err != nil {
			return nil, err
		}
	}

	for _, conn := range doc.Connections {
		srcNode, srcPort, okSrc := models.ParsePortID(conn.SourcePort)
		dstNode, dstPort, okDst := models.ParsePortID(conn.TargetPort)

		if !okSrc || !okDst {
			logger.Warn("Dropping malformed connection",
				slog.String("graph_id", doc.ID),
				slog.String("connection_id", conn.ID))

			continue
		}

		if _, err := g.connectWithID(conn.ID, srcNode, srcPort, dstNode, dstPort); err != nil {
			logger.Warn("Dropping stale connection",
				slog.String("graph_id", doc.ID),
				slog.String("connection_id", conn.ID),
				slog.String("reason", err.Error()))
		}
	}

	return g, nil
}
