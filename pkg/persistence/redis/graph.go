package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dukex/reelflow/pkg/models"
	"github.com/dukex/reelflow/pkg/persistence"
)

const (
	graphKeyPrefix = "reelflow:graphs:"
	graphIndexKey  = "reelflow:graphs"
)

// GraphRepository stores graph documents in Redis, indexed by creation time.
type GraphRepository struct {
	client *redis.Client
	logger *slog.Logger
}

// NewGraphRepository creates a new Redis graph repository.
func NewGraphRepository(client *redis.Client, logger *slog.Logger) *GraphRepository {
	return &GraphRepository{
		client: client,
		logger: logger.With("module", "redis"),
	}
}

// Graphs returns all stored graph documents, newest first.
func (gr *GraphRepository) Graphs(ctx context.Context) ([]*models.GraphDocument, error) {
	ids, err := gr.client.ZRevRange(ctx, graphIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}

	graphs := make([]*models.GraphDocument, 0, len(ids))

	for _, id := range ids {
		doc, err := gr.GraphByID(ctx, id)
		if err != nil {
			if persistence.IsGraphNotFound(err) {
				// Index entry outlived its graph record, skip it.
				gr.logger.WarnContext(ctx, "Dropping dangling graph index entry", "graph_id", id)

				continue
			}

			return nil, err
		}

		graphs = append(graphs, doc)
	}

	return graphs, nil
}

// GraphByID retrieves a graph document by its ID.
func (gr *GraphRepository) GraphByID(ctx context.Context, id string) (*models.GraphDocument, error) {
	raw, err := gr.client.Get(ctx, graphKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, persistence.NewGraphError("GraphByID", id, persistence.ErrGraphNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to fetch graph %s: %w", id, err)
	}

	var doc models.GraphDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal graph %s: %w", id, err)
	}

	return &doc, nil
}

// SaveGraph stores the graph document and indexes it by creation time.
func (gr *GraphRepository) SaveGraph(ctx context.Context, doc *models.GraphDocument) error {
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}

	doc.UpdatedAt = now

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal graph %s: %w", doc.ID, err)
	}

	pipe := gr.client.TxPipeline()
	pipe.Set(ctx, graphKeyPrefix+doc.ID, raw, 0)
	pipe.ZAdd(ctx, graphIndexKey, redis.Z{
		Score:  float64(doc.CreatedAt.UnixMilli()),
		Member: doc.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save graph %s: %w", doc.ID, err)
	}

	return nil
}

// DeleteGraph removes a graph document and its index entry. Deleting a
// missing graph is not an error.
func (gr *GraphRepository) DeleteGraph(ctx context.Context, id string) error {
	pipe := gr.client.TxPipeline()
	pipe.Del(ctx, graphKeyPrefix+id)
	pipe.ZRem(ctx, graphIndexKey, id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete graph %s: %w", id, err)
	}

	return nil
}
