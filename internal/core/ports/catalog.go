package ports

import (
	"context"
	"time"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
)

// CatalogClient fetches seismic events from the upstream earthquake feed.
type CatalogClient interface {
	// FetchEvents returns every event in the inclusive [start, end] date
	// range with magnitude >= minMagnitude. An empty range is a valid answer
	// (empty slice, nil error); it is never reported as a failure. Terminal
	// transport failures yield domain.ErrUpstreamUnavailable and a query the
	// upstream refuses as too large yields domain.ErrRangeTooLarge.
	FetchEvents(ctx context.Context, start, end time.Time, minMagnitude float64) ([]domain.Earthquake, error)
}
