// Package metrics defines and registers all custom Prometheus metrics for the
// earthquake monitor. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "earthquake_monitor"

// ── Resolution metrics ────────────────────────────────────────────────────────

// ResolutionsTotal counts completed resolutions by outcome.
// Label:
//   - outcome: "found", "empty", or "upstream_error"
var ResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resolutions_total",
		Help:      "Total number of nearest-earthquake resolutions, by outcome.",
	},
	[]string{"outcome"},
)

// CacheRequestsTotal counts resolution cache lookups.
// Label:
//   - result: "hit" (served from cache) or "miss" (fresh computation)
var CacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Total number of resolution cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// EventsDiscardedTotal counts upstream events dropped during normalization or
// ranking.
// Label:
//   - reason: "missing_magnitude", "malformed_coordinates", "invalid_coordinates"
var EventsDiscardedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_discarded_total",
		Help:      "Total number of catalog events excluded as unusable, by reason.",
	},
	[]string{"reason"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// CatalogRequestDuration measures one outbound catalog request (a single page,
// not the whole paged fetch).
// Label:
//   - status: HTTP status class ("2xx", "4xx", "5xx") or "error"
var CatalogRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "catalog_request_duration_seconds",
		Help:      "Duration of individual requests to the upstream earthquake catalog.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"status"},
)

// ── History metrics ───────────────────────────────────────────────────────────

// HistoryWritesTotal counts history append attempts.
// Label:
//   - result: "ok" or "error"
var HistoryWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_writes_total",
		Help:      "Total number of resolution history appends, by result.",
	},
	[]string{"result"},
)
