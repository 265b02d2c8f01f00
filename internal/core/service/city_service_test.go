package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/ports"
)

func TestCreateCity(t *testing.T) {
	repo := newStubCityRepo()
	svc := NewCityService(repo, zerolog.Nop())

	created, err := svc.CreateCity(context.Background(), ports.CreateCityInput{
		Name:      "Los Angeles",
		Latitude:  34.0522,
		Longitude: -118.2437,
	})
	if err != nil {
		t.Fatalf("CreateCity: %v", err)
	}
	if created.ID == "" {
		t.Errorf("created city must get an id")
	}
	if created.Name != "Los Angeles" {
		t.Errorf("unexpected name %q", created.Name)
	}
	if created.CreatedAt.IsZero() {
		t.Errorf("CreatedAt not set")
	}

	cities, err := svc.ListCities(context.Background())
	if err != nil {
		t.Fatalf("ListCities: %v", err)
	}
	if len(cities) != 1 {
		t.Errorf("expected one city, got %d", len(cities))
	}
}

func TestCreateCity_Validation(t *testing.T) {
	cases := []struct {
		name    string
		input   ports.CreateCityInput
		wantErr error
	}{
		{
			name:    "missing name",
			input:   ports.CreateCityInput{Latitude: 10, Longitude: 10},
			wantErr: domain.ErrInvalidQuery,
		},
		{
			name:    "latitude out of range",
			input:   ports.CreateCityInput{Name: "Nowhere", Latitude: 91, Longitude: 0},
			wantErr: domain.ErrInvalidCoordinate,
		},
		{
			name:    "longitude out of range",
			input:   ports.CreateCityInput{Name: "Nowhere", Latitude: 0, Longitude: -181},
			wantErr: domain.ErrInvalidCoordinate,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewCityService(newStubCityRepo(), zerolog.Nop())
			if _, err := svc.CreateCity(context.Background(), tc.input); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateCity_DuplicateName(t *testing.T) {
	repo := newStubCityRepo()
	svc := NewCityService(repo, zerolog.Nop())

	input := ports.CreateCityInput{Name: "Tokyo", Latitude: 35.6762, Longitude: 139.6503}
	if _, err := svc.CreateCity(context.Background(), input); err != nil {
		t.Fatalf("first CreateCity: %v", err)
	}
	if _, err := svc.CreateCity(context.Background(), input); !errors.Is(err, domain.ErrCityExists) {
		t.Fatalf("expected ErrCityExists, got %v", err)
	}
}
