package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/api/metrics"
	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/geo"
	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/ports"
)

const defaultCacheTTL = time.Hour

// ResolutionService orchestrates one nearest-earthquake resolution: cache
// lookup, catalog fetch, distance ranking, verdict formatting, write-through.
type ResolutionService struct {
	cities   ports.CityRepository
	catalog  ports.CatalogClient
	cache    ports.ResultCache
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewResolutionService wires the engine's collaborators. cacheTTL <= 0 falls
// back to one hour.
func NewResolutionService(
	cities ports.CityRepository,
	catalog ports.CatalogClient,
	cache ports.ResultCache,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) *ResolutionService {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &ResolutionService{
		cities:   cities,
		catalog:  catalog,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Resolve finds the single nearest earthquake above the query's magnitude
// threshold. Invalid input fails fast before any cache or network I/O. An
// empty catalog answer is a valid result, never an error.
func (s *ResolutionService) Resolve(ctx context.Context, input ports.ResolveInput) (*domain.ResolutionResult, error) {
	query := domain.ResolutionQuery{
		CityID:       input.CityID,
		StartDate:    dateOnly(input.StartDate),
		EndDate:      dateOnly(input.EndDate),
		MinMagnitude: input.MinMagnitude,
	}
	if !input.ThresholdSet {
		query.MinMagnitude = domain.DefaultMinMagnitude
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	city, err := s.cities.FindByID(ctx, query.CityID)
	if err != nil {
		if errors.Is(err, domain.ErrCityNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve: load city: %w", err)
	}

	key := query.CacheKey()
	if cached, cacheErr := s.cache.Get(ctx, key); cacheErr == nil {
		metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
		cached.CacheHit = true
		s.logger.Debug().Str("cache_key", key).Msg("resolution served from cache")
		return cached, nil
	} else if !errors.Is(cacheErr, domain.ErrCacheMiss) {
		// Cache trouble degrades to a miss, never to a failed resolution.
		s.logger.Warn().Err(cacheErr).Str("cache_key", key).Msg("cache read failed, treating as miss")
	}
	metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()

	events, err := s.catalog.FetchEvents(ctx, query.StartDate, query.EndDate, query.MinMagnitude)
	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues("upstream_error").Inc()
		return nil, err
	}

	nearest, distance := s.selectNearest(city, events)

	result := &domain.ResolutionResult{
		Query:      query,
		CityName:   city.Name,
		ResolvedAt: time.Now().UTC(),
	}
	if nearest == nil {
		result.VerboseMsg = fmt.Sprintf(
			"No earthquake of magnitude ≥ %.1f found between %s and %s near %s.",
			query.MinMagnitude,
			query.StartDate.Format(domain.DateFormat),
			query.EndDate.Format(domain.DateFormat),
			city.Name,
		)
		metrics.ResolutionsTotal.WithLabelValues("empty").Inc()
	} else {
		rounded := math.Round(distance*100) / 100
		result.Nearest = nearest
		result.DistanceKm = rounded
		result.VerboseMsg = fmt.Sprintf(
			"%s (magnitude %.1f) occurred %.2f km from %s on %s.",
			nearest.Place,
			nearest.Magnitude,
			rounded,
			city.Name,
			nearest.Time.Format(domain.DateFormat),
		)
		metrics.ResolutionsTotal.WithLabelValues("found").Inc()
	}

	// A caller that has gone away gets nothing cached: partial work is
	// discarded, not written through.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if putErr := s.cache.Put(ctx, key, result, s.cacheTTL); putErr != nil {
		s.logger.Warn().Err(putErr).Str("cache_key", key).Msg("cache write failed")
	}

	s.logger.Info().
		Str("city", city.Name).
		Str("cache_key", key).
		Int("candidates", len(events)).
		Bool("found", nearest != nil).
		Msg("resolution computed")

	return result, nil
}

// selectNearest ranks events by great-circle distance to the city. Ties go to
// the earliest occurrence time; remaining ties keep the first event in input
// order, so repeated runs over identical feed data pick the same event.
// Events with coordinates the calculator rejects are excluded, not fatal.
func (s *ResolutionService) selectNearest(city *domain.City, events []domain.Earthquake) (*domain.Earthquake, float64) {
	var best *domain.Earthquake
	bestDist := math.Inf(1)

	for i := range events {
		ev := &events[i]
		dist, err := geo.Distance(city.Coordinates, ev.Coordinates)
		if err != nil {
			metrics.EventsDiscardedTotal.WithLabelValues("invalid_coordinates").Inc()
			s.logger.Warn().Err(err).
				Str("event_id", ev.ID).
				Str("place", ev.Place).
				Msg("event excluded from ranking")
			continue
		}

		switch {
		case dist < bestDist:
			best, bestDist = ev, dist
		case dist == bestDist && best != nil && ev.Time.Before(best.Time):
			best = ev
		}
	}

	return best, bestDist
}

// dateOnly truncates a timestamp to midnight UTC, the granularity of
// resolution queries.
func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
