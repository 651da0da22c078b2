package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"painelans/backend/services/operadoras-service/internal/models"
)

const estatisticasKey = "operadoras:estatisticas"

// ErrMiss means nothing is cached under the key.
var ErrMiss = errors.New("cache: miss")

// EstatisticasCache keeps the aggregated statistics in redis.
type EstatisticasCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEstatisticasCache returns redis-backed cache.
func NewEstatisticasCache(client *redis.Client, ttl time.Duration) *EstatisticasCache {
	return &EstatisticasCache{client: client, ttl: ttl}
}

// Get returns cached statistics or ErrMiss.
func (c *EstatisticasCache) Get(ctx context.Context) (*models.Estatisticas, error) {
	raw, err := c.client.Get(ctx, estatisticasKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}
	var stats models.Estatisticas
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Set stores statistics with the configured TTL.
func (c *EstatisticasCache) Set(ctx context.Context, stats *models.Estatisticas) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, estatisticasKey, data, c.ttl).Err()
}

// Invalidate drops the cached value.
func (c *EstatisticasCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, estatisticasKey).Err()
}
