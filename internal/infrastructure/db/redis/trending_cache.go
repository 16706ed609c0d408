package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/feedyapp/feedy-api/internal/core/ports"
)

const trendingKey = "trending:categories"

// TrendingCache stores the precomputed trending-categories ranking as a
// single JSON value with a TTL.
type TrendingCache struct {
	client *redis.Client
}

// NewTrendingCache creates a TrendingCache wrapping the given Redis client.
func NewTrendingCache(client *redis.Client) *TrendingCache {
	return &TrendingCache{client: client}
}

// Get returns the cached ranking, or an empty slice when the cache is cold.
func (c *TrendingCache) Get(ctx context.Context) ([]ports.CategoryTrend, error) {
	raw, err := c.client.Get(ctx, trendingKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("trending cache get: %w", err)
	}

	var trends []ports.CategoryTrend
	if err := json.Unmarshal(raw, &trends); err != nil {
		return nil, fmt.Errorf("trending cache decode: %w", err)
	}
	return trends, nil
}

// Set replaces the cached ranking.
func (c *TrendingCache) Set(ctx context.Context, trends []ports.CategoryTrend, ttl time.Duration) error {
	raw, err := json.Marshal(trends)
	if err != nil {
		return fmt.Errorf("trending cache encode: %w", err)
	}
	return c.client.Set(ctx, trendingKey, raw, ttl).Err()
}
