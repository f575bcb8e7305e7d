package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dukex/reelflow/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface backed by Redis.
type Persistence struct {
	client    *redis.Client
	graphRepo *GraphRepository
	runRepo   *RunRepository
}

// NewPersistence creates a Redis-backed persistence layer from a redis:// URL.
func NewPersistence(redisURL string, logger *slog.Logger) (persistence.Persistence, error) {
	client, err := NewClient(redisURL)
	if err != nil {
		return nil, err
	}

	return &Persistence{
		client:    client,
		graphRepo: NewGraphRepository(client, logger),
		runRepo:   NewRunRepository(client, logger),
	}, nil
}

// GraphRepository returns the graph repository implementation.
func (p *Persistence) GraphRepository() persistence.GraphRepository {
	return p.graphRepo
}

// RunRepository returns the run repository implementation.
func (p *Persistence) RunRepository() persistence.RunRepository {
	return p.runRepo
}

// HealthCheck pings the Redis server.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the underlying Redis client.
func (p *Persistence) Close(_ context.Context) error {
	return p.client.Close()
}
