package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
)

// opTimeout bounds every cache operation so a slow Redis cannot stall the
// request pool; the resolution engine treats timeouts as misses.
const opTimeout = 500 * time.Millisecond

// ResultCache stores resolution results in Redis as JSON values keyed by the
// query's deterministic cache key.
type ResultCache struct {
	client *redis.Client
}

// NewResultCache creates a ResultCache wrapping the given Redis client.
func NewResultCache(client *redis.Client) *ResultCache {
	return &ResultCache{client: client}
}

// Get returns the cached result for key, or domain.ErrCacheMiss when absent.
func (c *ResultCache) Get(ctx context.Context, key string) (*domain.ResolutionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var result domain.ResolutionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		// A corrupt entry behaves like a miss; it will be overwritten.
		return nil, fmt.Errorf("cache get: decode entry: %w", err)
	}
	return &result, nil
}

// Put stores result under key with the given TTL.
func (c *ResultCache) Put(ctx context.Context, key string, result *domain.ResolutionResult, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache put: encode entry: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}
