// Package geo implements great-circle distance on a spherical Earth.
package geo

import (
	"fmt"
	"math"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometers between two
// points, computed with the haversine formula. Either point outside the
// valid latitude/longitude domain yields domain.ErrInvalidCoordinate.
func Distance(a, b domain.Coordinates) (float64, error) {
	if !a.Valid() {
		return 0, fmt.Errorf("%w: lat=%v lng=%v", domain.ErrInvalidCoordinate, a.Lat, a.Lng)
	}
	if !b.Valid() {
		return 0, fmt.Errorf("%w: lat=%v lng=%v", domain.ErrInvalidCoordinate, b.Lat, b.Lng)
	}

	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat + math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*sinLng*sinLng
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c, nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
