package ports

import (
	"context"
	"time"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
)

// ResultCache stores resolution results under their deterministic query key.
// The cache is a pure accelerator: callers must treat any error from Get as a
// miss and any error from Put as non-fatal.
type ResultCache interface {
	// Get returns the cached result for key, or domain.ErrCacheMiss.
	Get(ctx context.Context, key string) (*domain.ResolutionResult, error)
	// Put stores result under key, expiring after ttl.
	Put(ctx context.Context, key string, result *domain.ResolutionResult, ttl time.Duration) error
}
