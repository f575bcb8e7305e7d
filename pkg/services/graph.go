package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dukex/reelflow/pkg/engine"
	"github.com/dukex/reelflow/pkg/eventbus"
	"github.com/dukex/reelflow/pkg/graph"
	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/persistence"
	"github.com/dukex/reelflow/pkg/registry"
)

// ErrGraphNotFound is returned when a graph is not found.
var ErrGraphNotFound = persistence.ErrGraphNotFound

// GraphService coordinates graph documents, the node registry and the engine.
type GraphService struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	engine      *engine.Engine
	publisher   eventbus.EventPublisher
	logger      *slog.Logger
}

// NewGraphService creates a new graph service.
func NewGraphService(
	persistence persistence.Persistence,
	registry *registry.Registry,
	engine *engine.Engine,
	publisher eventbus.EventPublisher,
	logger *slog.Logger,
) *GraphService {
	return &GraphService{
		persistence: persistence,
		registry:    registry,
		engine:      engine,
		publisher:   publisher,
		logger:      logger.With("module", "services"),
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *GraphService) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List returns all stored graph documents.
func (s *GraphService) List(ctx context.Context) ([]*models.GraphDocument, error) {
	docs, err := s.persistence.GraphRepository().Graphs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}

	return docs, nil
}

// FetchByID returns a stored graph document by ID.
func (s *GraphService) FetchByID(ctx context.Context, id string) (*models.GraphDocument, error) {
	return s.persistence.GraphRepository().GraphByID(ctx, id)
}

// Create stores a new graph document. Unknown node types and stale
// connections are rejected up front by materializing the graph once.
func (s *GraphService) Create(ctx context.Context, doc *models.GraphDocument) (*models.GraphDocument, error) {
	if doc == nil {
		return nil, ErrGraphNil
	}

	if doc.Name == "" {
		return nil, ErrGraphNameRequired
	}

	if doc.ID == "" {
		doc.ID = "graph-" + uuid.New().String()[:8]
	}

	doc.CreatedAt = time.Now().UTC()

	materialized, err := s.materialize(ctx, doc)
	if err != nil {
		return nil, err
	}

	// Store the canonical form so stale connections never persist.
	canonical := materialized.ToDocument()
	canonical.CreatedAt = doc.CreatedAt

	if err := s.persistence.GraphRepository().SaveGraph(ctx, canonical); err != nil {
		return nil, fmt.Errorf("failed to save graph: %w", err)
	}

	return canonical, nil
}

// Update replaces a stored graph document.
func (s *GraphService) Update(ctx context.Context, id string, doc *models.GraphDocument) (*models.GraphDocument, error) {
	if doc == nil {
		return nil, ErrGraphNil
	}

	existing, err := s.persistence.GraphRepository().GraphByID(ctx, id)
	if err != nil {
		return nil, err
	}

	doc.ID = existing.ID
	doc.CreatedAt = existing.CreatedAt

	materialized, err := s.materialize(ctx, doc)
	if err != nil {
		return nil, err
	}

	canonical := materialized.ToDocument()
	canonical.CreatedAt = existing.CreatedAt

	if err := s.persistence.GraphRepository().SaveGraph(ctx, canonical); err != nil {
		return nil, fmt.Errorf("failed to save graph %s: %w", id, err)
	}

	return canonical, nil
}

// Delete removes a stored graph document.
func (s *GraphService) Delete(ctx context.Context, id string) error {
	if _, err := s.persistence.GraphRepository().GraphByID(ctx, id); err != nil {
		return err
	}

	return s.persistence.GraphRepository().DeleteGraph(ctx, id)
}

// Validate materializes the stored graph and returns its aggregate issues.
func (s *GraphService) Validate(ctx context.Context, id string) ([]graph.ValidationIssue, error) {
	doc, err := s.persistence.GraphRepository().GraphByID(ctx, id)
	if err != nil {
		return nil, err
	}

	materialized, err := s.materialize(ctx, doc)
	if err != nil {
		return nil, err
	}

	return materialized.Validate(), nil
}

// Run executes the stored graph and records the run result. The recorded
// result is returned even when the run fails partway.
func (s *GraphService) Run(ctx context.Context, id string) (*models.RunResult, error) {
	doc, err := s.persistence.GraphRepository().GraphByID(ctx, id)
	if err != nil {
		return nil, err
	}

	materialized, err := s.materialize(ctx, doc)
	if err != nil {
		return nil, err
	}

	run, runErr := s.engine.Run(ctx, materialized, s.publisher)
	if run != nil {
		if saveErr := s.persistence.RunRepository().SaveRun(ctx, run); saveErr != nil {
			s.logger.ErrorContext(ctx, "Failed to persist run result", "run_id", run.ID, "error", saveErr)
		}
	}

	if runErr != nil {
		var validationErr *engine.ValidationError
		if errors.As(runErr, &validationErr) {
			return nil, NewValidationError("Run", "graph_not_runnable", validationErr.Error(), ErrGraphNotRunnable)
		}

		return run, runErr
	}

	return run, nil
}

// RunByID returns a recorded run result.
func (s *GraphService) RunByID(ctx context.Context, id string) (*models.RunResult, error) {
	return s.persistence.RunRepository().RunByID(ctx, id)
}

// RunsByGraph returns the recorded runs for a graph, newest first.
func (s *GraphService) RunsByGraph(ctx context.Context, graphID string) ([]*models.RunResult, error) {
	if _, err := s.persistence.GraphRepository().GraphByID(ctx, graphID); err != nil {
		return nil, err
	}

	return s.persistence.RunRepository().RunsByGraph(ctx, graphID)
}

// NodeTypes lists the registered node types.
func (s *GraphService) NodeTypes() []*models.RegisteredNodeType {
	return s.registry.NodeTypes()
}

// RegistryHealthCheck reports the registry health.
func (s *GraphService) RegistryHealthCheck() (map[string]any, bool) {
	return s.registry.HealthCheck()
}

func (s *GraphService) materialize(ctx context.Context, doc *models.GraphDocument) (*graph.Graph, error) {
	materialized, err := graph.FromDocument(ctx, doc, s.registry, s.logger)
	if err != nil {
		return nil, NewValidationError("materialize", "unknown_node_type", err.Error(), ErrUnknownNodeType)
	}

	return materialized, nil
}
