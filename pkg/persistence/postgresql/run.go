package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/persistence"
)

// RunRepository handles run result database operations.
type RunRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *sql.DB, logger *slog.Logger) *RunRepository {
	return &RunRepository{
		db:     db,
		logger: logger.With("module", "postgresql"),
	}
}

// SaveRun upserts a run result.
func (rr *RunRepository) SaveRun(ctx context.Context, run *models.RunResult) error {
	raw, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run %s: %w", run.ID, err)
	}

	_, err = rr.db.ExecContext(ctx, `
		INSERT INTO runs (id, graph_id, status, result, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			result = EXCLUDED.result,
			finished_at = EXCLUDED.finished_at
	`, run.ID, run.GraphID, string(run.Status), raw, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	return nil
}

// RunByID retrieves a run result by its ID.
func (rr *RunRepository) RunByID(ctx context.Context, id string) (*models.RunResult, error) {
	var raw []byte

	err := rr.db.QueryRowContext(ctx, "SELECT result FROM runs WHERE id = $1", id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewRunError("RunByID", id, persistence.ErrRunNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to fetch run %s: %w", id, err)
	}

	var run models.RunResult
	if err := json.Unmarshal(raw, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run %s: %w", id, err)
	}

	return &run, nil
}

// RunsByGraph returns all runs recorded for a graph, newest first.
func (rr *RunRepository) RunsByGraph(ctx context.Context, graphID string) ([]*models.RunResult, error) {
	rows, err := rr.db.QueryContext(ctx, "SELECT result FROM runs WHERE graph_id = $1 ORDER BY started_at DESC", graphID)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs for graph %s: %w", graphID, err)
	}
	defer rows.Close()

	runs := make([]*models.RunResult, 0)

	for rows.Next() {
		var raw []byte

		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}

		var run models.RunResult
		if err := json.Unmarshal(raw, &run); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run result: %w", err)
		}

		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run rows: %w", err)
	}

	return runs, nil
}
