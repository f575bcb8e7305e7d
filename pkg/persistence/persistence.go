// Package persistence provides data storage abstraction for graph documents
// and run results.
package persistence

import (
	"context"

	"github.com/dukex/reelflow/pkg/models"
)

// GraphRepository stores graph documents in their portable form.
type GraphRepository interface {
	Graphs(ctx context.Context) ([]*models.GraphDocument, error)
	SaveGraph(ctx context.Context, doc *models.GraphDocument) error
	GraphByID(ctx context.Context, id string) (*models.GraphDocument, error)
	DeleteGraph(ctx context.Context, id string) error
}

// RunRepository stores run results.
type RunRepository interface {
	SaveRun(ctx context.Context, run *models.RunResult) error
	RunByID(ctx context.Context, id string) (*models.RunResult, error)
	RunsByGraph(ctx context.Context, graphID string) ([]*models.RunResult, error)
}

type Persistence interface {
	GraphRepository() GraphRepository
	RunRepository() RunRepository
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
