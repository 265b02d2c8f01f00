package ports

import (
	"context"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
)

// CreateCityInput carries the data needed to register a new city.
type CreateCityInput struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// CityService defines use-case operations for cities.
type CityService interface {
	CreateCity(ctx context.Context, input CreateCityInput) (*domain.City, error)
	ListCities(ctx context.Context) ([]*domain.City, error)
}
