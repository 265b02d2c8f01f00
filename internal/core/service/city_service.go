package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/ports"
)

// CityService implements city registration and listing.
type CityService struct {
	repo   ports.CityRepository
	logger zerolog.Logger
}

func NewCityService(repo ports.CityRepository, logger zerolog.Logger) *CityService {
	return &CityService{repo: repo, logger: logger}
}

// CreateCity registers a new city after validating its coordinates.
func (s *CityService) CreateCity(ctx context.Context, input ports.CreateCityInput) (*domain.City, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidQuery)
	}

	coords := domain.Coordinates{Lat: input.Latitude, Lng: input.Longitude}
	if !coords.Valid() {
		return nil, fmt.Errorf("%w: lat=%v lng=%v", domain.ErrInvalidCoordinate, input.Latitude, input.Longitude)
	}

	city := &domain.City{
		Name:        input.Name,
		Coordinates: coords,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, city)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("city", created.Name).Str("city_id", created.ID).Msg("city created")
	return created, nil
}

// ListCities returns all registered cities.
func (s *CityService) ListCities(ctx context.Context) ([]*domain.City, error) {
	return s.repo.List(ctx)
}
