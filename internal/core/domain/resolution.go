package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidQuery = errors.New("invalid resolution query")

	// ErrCacheMiss is returned by a result cache when no entry exists for the
	// requested key.
	ErrCacheMiss = errors.New("resolution not cached")
)

// DefaultMinMagnitude is applied when a query does not specify a threshold.
const DefaultMinMagnitude = 5.0

// DateFormat is the date-only granularity used throughout resolution queries.
const DateFormat = "2006-01-02"

// ResolutionQuery is the value object describing one nearest-earthquake
// search: a city, an inclusive date range, and a minimum magnitude.
type ResolutionQuery struct {
	CityID       string    `json:"city_id"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	MinMagnitude float64   `json:"min_magnitude"`
}

// Validate checks the query's own fields. City existence is checked
// separately by the resolution service.
func (q ResolutionQuery) Validate() error {
	if q.CityID == "" {
		return fmt.Errorf("%w: city_id is required", ErrInvalidQuery)
	}
	if q.StartDate.IsZero() || q.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidQuery)
	}
	if q.EndDate.Before(q.StartDate) {
		return fmt.Errorf("%w: end date precedes start date", ErrInvalidQuery)
	}
	if q.MinMagnitude < 0 {
		return fmt.Errorf("%w: magnitude threshold must be non-negative", ErrInvalidQuery)
	}
	return nil
}

// CacheKey derives the deterministic cache key for this query. Dates are
// normalized to date-only form and the threshold to two decimals, so two
// logically identical queries always collide regardless of how their inputs
// were formatted.
func (q ResolutionQuery) CacheKey() string {
	return fmt.Sprintf("resolution:%s:%s:%s:%.2f",
		q.CityID,
		q.StartDate.UTC().Format(DateFormat),
		q.EndDate.UTC().Format(DateFormat),
		q.MinMagnitude,
	)
}

// ResolutionResult is the outcome of one resolution: the query, the nearest
// qualifying earthquake (nil when the range held none), its distance from the
// city, and the human-readable verdict. It is the unit written to the cache
// and copied into history.
type ResolutionResult struct {
	Query      ResolutionQuery `json:"query"`
	CityName   string          `json:"city_name"`
	Nearest    *Earthquake     `json:"nearest,omitempty"`
	DistanceKm float64         `json:"distance_km,omitempty"`
	VerboseMsg string          `json:"verbose_msg"`
	ResolvedAt time.Time       `json:"resolved_at"`

	// CacheHit marks whether this result was served from the cache. It is a
	// per-call marker, not part of the cached value.
	CacheHit bool `json:"-"`
}

// SearchRecord is the append-only history entry for one resolution. Seq is a
// monotonically increasing identifier allocated at write time: it gives every
// record a stable identity and a total order that appends never disturb.
// Page numbers address the live newest-first sequence, so an append shifts
// which records a given page number holds; Seq is what clients key on to
// resume or deduplicate across pages.
type SearchRecord struct {
	Seq          int64      `json:"seq" bson:"seq"`
	CityName     string     `json:"city_name" bson:"city_name"`
	CityID       string     `json:"city_id" bson:"city_id"`
	StartDate    time.Time  `json:"start_date" bson:"start_date"`
	EndDate      time.Time  `json:"end_date" bson:"end_date"`
	MinMagnitude float64    `json:"min_magnitude" bson:"min_magnitude"`
	Location     string     `json:"nearest_earthquake_location,omitempty" bson:"nearest_earthquake_location,omitempty"`
	Magnitude    *float64   `json:"nearest_earthquake_magnitude,omitempty" bson:"nearest_earthquake_magnitude,omitempty"`
	Time         *time.Time `json:"nearest_earthquake_time,omitempty" bson:"nearest_earthquake_time,omitempty"`
	DistanceKm   *float64   `json:"distance_km,omitempty" bson:"distance_km,omitempty"`
	VerboseMsg   string     `json:"verbose_msg" bson:"verbose_msg"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
}
