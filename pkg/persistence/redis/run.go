// Package redis provides Redis-backed persistence for graph documents and
// runs. Both are stored as JSON values with sorted-set indexes for ordered
// listing.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/persistence"
)

const (
	runKeyPrefix      = "reelflow:runs:"
	graphRunsPrefix   = "reelflow:graph-runs:"
	maxRunsPerGraphID = 1000
)

// RunRepository stores run results in Redis, indexed per graph by start time.
type RunRepository struct {
	client *redis.Client
	logger *slog.Logger
}

// NewClient creates a Redis client from a redis:// URL.
func NewClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return redis.NewClient(opts), nil
}

// NewRunRepository creates a new Redis run repository.
func NewRunRepository(client *redis.Client, logger *slog.Logger) *RunRepository {
	return &RunRepository{
		client: client,
		logger: logger.With("module", "redis"),
	}
}

// SaveRun stores the run and indexes it under its graph.
func (rr *RunRepository) SaveRun(ctx context.Context, run *models.RunResult) error {
	raw, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run %s: %w", run.ID, err)
	}

	pipe := rr.client.TxPipeline()
	pipe.Set(ctx, runKeyPrefix+run.ID, raw, 0)
	pipe.ZAdd(ctx, graphRunsPrefix+run.GraphID, redis.Z{
		Score:  float64(run.StartedAt.UnixMilli()),
		Member: run.ID,
	})
	// Cap the per-graph index so it cannot grow without bound.
	pipe.ZRemRangeByRank(ctx, graphRunsPrefix+run.GraphID, 0, -maxRunsPerGraphID-1)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	return nil
}

// RunByID retrieves a run result by its ID.
func (rr *RunRepository) RunByID(ctx context.Context, id string) (*models.RunResult, error) {
	raw, err := rr.client.Get(ctx, runKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
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

// RunsByGraph returns the runs recorded for a graph, newest first.
func (rr *RunRepository) RunsByGraph(ctx context.Context, graphID string) ([]*models.RunResult, error) {
	ids, err := rr.client.ZRevRange(ctx, graphRunsPrefix+graphID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs for graph %s: %w", graphID, err)
	}

	runs := make([]*models.RunResult, 0, len(ids))

	for _, id := range ids {
		run, err := rr.RunByID(ctx, id)
		if err != nil {
			if persistence.IsRunNotFound(err) {
				// Index entry outlived its run record, skip it.
				rr.logger.WarnContext(ctx, "Dropping dangling run index entry", "run_id", id, "graph_id", graphID)

				continue
			}

			return nil, err
		}

		runs = append(runs, run)
	}

	return runs, nil
}
