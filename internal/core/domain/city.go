package domain

import (
	"errors"
	"time"
)

var ErrCityNotFound = errors.New("city not found")
var ErrCityExists = errors.New("city already exists")
var ErrInvalidCoordinate = errors.New("invalid coordinate")
var ErrForbidden = errors.New("access forbidden")

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Valid reports whether the pair is inside the WGS84 domain:
// latitude in [-90, 90] and longitude in [-180, 180].
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// City is a named location earthquake searches are resolved against.
// Cities are created once and never deleted while history records reference them.
type City struct {
	ID          string      `json:"id" bson:"_id,omitempty"`
	Name        string      `json:"name" bson:"name"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
}
