package domain

import (
	"errors"
	"time"
)

var ErrUpstreamUnavailable = errors.New("earthquake catalog unavailable")
var ErrRangeTooLarge = errors.New("date range exceeds catalog search limit")

// Earthquake is a single seismic event normalized from the upstream catalog
// feed. Events are transient: produced fresh on every fetch, never persisted
// as-is and never mutated.
type Earthquake struct {
	ID          string      `json:"id"`
	Place       string      `json:"place"`
	Magnitude   float64     `json:"magnitude"`
	Coordinates Coordinates `json:"coordinates"`
	Time        time.Time   `json:"time"` // occurrence time, UTC
}
