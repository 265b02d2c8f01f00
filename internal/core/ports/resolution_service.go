package ports

import (
	"context"
	"time"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
)

// ResolveInput carries the parameters for one nearest-earthquake resolution.
type ResolveInput struct {
	CityID       string
	StartDate    time.Time
	EndDate      time.Time
	MinMagnitude float64
	// ThresholdSet is false when the request omitted min_magnitude; the
	// service then substitutes domain.DefaultMinMagnitude.
	ThresholdSet bool
}

// ResolutionService resolves the single nearest qualifying earthquake for a
// city and date range.
type ResolutionService interface {
	// Resolve validates input, consults the cache, and on miss queries the
	// catalog and ranks events by distance. It fails only on invalid input
	// (domain.ErrInvalidQuery, domain.ErrCityNotFound) or terminal upstream
	// failure (domain.ErrUpstreamUnavailable, domain.ErrRangeTooLarge).
	Resolve(ctx context.Context, input ResolveInput) (*domain.ResolutionResult, error)
}

// HistoryPage is one page of resolution history.
type HistoryPage struct {
	Records     []*domain.SearchRecord
	Total       int64
	Page        int
	PageSize    int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// HistoryService records resolutions and serves the paginated history.
type HistoryService interface {
	// Record appends one immutable history entry for a completed resolution.
	// Cache hits are recorded too: history reflects user activity, not
	// upstream work.
	Record(ctx context.Context, result *domain.ResolutionResult) (*domain.SearchRecord, error)
	// List returns the requested page, most recent first. page and pageSize
	// are clamped to sane bounds rather than rejected.
	List(ctx context.Context, page, pageSize int) (*HistoryPage, error)
}
