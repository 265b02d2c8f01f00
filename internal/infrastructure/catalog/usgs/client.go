// Package usgs implements the catalog client against the USGS fdsnws event
// feed (GeoJSON).
package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/api/metrics"
	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
)

const (
	defaultBaseURL = "https://earthquake.usgs.gov/fdsnws/event/1/query"
	defaultTimeout = 5 * time.Second

	// pageLimit is the USGS hard cap on results per request. Larger ranges
	// are paged transparently with limit/offset so no result set is ever
	// silently truncated.
	pageLimit = 20000

	retryBackoff = 250 * time.Millisecond
)

// Client fetches and normalizes seismic events from the USGS catalog.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a USGS catalog client. An empty baseURL selects the
// public USGS endpoint; timeout <= 0 falls back to 5 seconds.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchEvents returns every event in the inclusive [start, end] range with
// magnitude >= minMagnitude, normalized into domain records. Events the feed
// reports without a magnitude or with unusable coordinates are skipped with a
// data-quality warning. An empty feed is an empty slice, not an error.
func (c *Client) FetchEvents(ctx context.Context, start, end time.Time, minMagnitude float64) ([]domain.Earthquake, error) {
	var events []domain.Earthquake

	// USGS offsets are 1-based.
	for offset := 1; ; {
		features, err := c.fetchPage(ctx, start, end, minMagnitude, offset)
		if err != nil {
			return nil, err
		}

		events = append(events, c.normalize(features)...)

		if len(features) < pageLimit {
			return events, nil
		}
		offset += len(features)
	}
}

func (c *Client) fetchPage(ctx context.Context, start, end time.Time, minMagnitude float64, offset int) ([]feature, error) {
	params := url.Values{
		"format":       {"geojson"},
		"starttime":    {start.UTC().Format(domain.DateFormat)},
		"endtime":      {end.UTC().Format(domain.DateFormat)},
		"minmagnitude": {strconv.FormatFloat(minMagnitude, 'f', -1, 64)},
		"orderby":      {"time-asc"},
		"limit":        {strconv.Itoa(pageLimit)},
		"offset":       {strconv.Itoa(offset)},
	}
	fullURL := c.baseURL + "?" + params.Encode()

	// One bounded retry on transient failures; anything else is terminal.
	features, retryable, err := c.doRequest(ctx, fullURL)
	if err != nil && retryable {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, ctx.Err())
		case <-time.After(retryBackoff):
		}
		c.logger.Warn().Err(err).Msg("catalog request failed, retrying once")
		features, _, err = c.doRequest(ctx, fullURL)
	}
	return features, err
}

// doRequest performs one catalog request. retryable reports whether the
// failure is worth one more attempt (network error, 5xx, 429).
func (c *Client) doRequest(ctx context.Context, fullURL string) (_ []feature, retryable bool, _ error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create catalog request: %w", err)
	}

	startedAt := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.CatalogRequestDuration.WithLabelValues("error").Observe(time.Since(startedAt).Seconds())
		return nil, true, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	metrics.CatalogRequestDuration.WithLabelValues(statusClass(resp.StatusCode)).Observe(time.Since(startedAt).Seconds())

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusBadRequest:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if strings.Contains(strings.ToLower(string(body)), "exceed") {
			return nil, false, fmt.Errorf("%w: %s", domain.ErrRangeTooLarge, strings.TrimSpace(string(body)))
		}
		return nil, false, fmt.Errorf("%w: status 400: %s", domain.ErrUpstreamUnavailable, strings.TrimSpace(string(body)))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, false, fmt.Errorf("%w: decode response: %v", domain.ErrUpstreamUnavailable, err)
	}
	return decoded.Features, false, nil
}

// normalize converts raw GeoJSON features into typed events, dropping the
// unusable ones.
func (c *Client) normalize(features []feature) []domain.Earthquake {
	events := make([]domain.Earthquake, 0, len(features))
	for _, f := range features {
		if f.Properties.Mag == nil {
			metrics.EventsDiscardedTotal.WithLabelValues("missing_magnitude").Inc()
			c.logger.Warn().Str("event_id", f.ID).Msg("catalog event has no magnitude, skipped")
			continue
		}
		if len(f.Geometry.Coordinates) < 2 {
			metrics.EventsDiscardedTotal.WithLabelValues("malformed_coordinates").Inc()
			c.logger.Warn().Str("event_id", f.ID).Msg("catalog event has malformed coordinates, skipped")
			continue
		}

		// GeoJSON order is [longitude, latitude, depth].
		coords := domain.Coordinates{
			Lat: f.Geometry.Coordinates[1],
			Lng: f.Geometry.Coordinates[0],
		}
		if !coords.Valid() {
			metrics.EventsDiscardedTotal.WithLabelValues("malformed_coordinates").Inc()
			c.logger.Warn().
				Str("event_id", f.ID).
				Float64("lat", coords.Lat).
				Float64("lng", coords.Lng).
				Msg("catalog event coordinates out of range, skipped")
			continue
		}

		events = append(events, domain.Earthquake{
			ID:          f.ID,
			Place:       f.Properties.Place,
			Magnitude:   *f.Properties.Mag,
			Coordinates: coords,
			Time:        time.UnixMilli(f.Properties.Time).UTC(),
		})
	}
	return events
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}

// USGS GeoJSON response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string `json:"id"`
	Properties struct {
		Mag   *float64 `json:"mag"`
		Place string   `json:"place"`
		Time  int64    `json:"time"` // epoch milliseconds
	} `json:"properties"`
	Geometry struct {
		Coordinates []float64 `json:"coordinates"` // [lng, lat, depth]
	} `json:"geometry"`
}
