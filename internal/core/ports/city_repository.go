package ports

import (
	"context"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
)

// CityRepository defines persistence operations for cities.
type CityRepository interface {
	// Create inserts a new city. A duplicate name yields domain.ErrCityExists.
	Create(ctx context.Context, city *domain.City) (*domain.City, error)
	// FindByID retrieves a city or domain.ErrCityNotFound.
	FindByID(ctx context.Context, id string) (*domain.City, error)
	// List returns all cities ordered by name.
	List(ctx context.Context) ([]*domain.City, error)
}
