package services

import (
	"context"

	"geofence-bknd/internal/places"
)

// PlacesFinder looks up points of interest around a coordinate.
type PlacesFinder interface {
	Nearby(ctx context.Context, lat, lon float64) ([]places.Station, error)
}

type PoliceService struct {
	finder PlacesFinder
}

func NewPoliceService(finder PlacesFinder) *PoliceService {
	return &PoliceService{finder: finder}
}

// Nearest returns the police stations around the coordinate.
func (s *PoliceService) Nearest(ctx context.Context, lat, lon float64) ([]places.Station, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	stations, err := s.finder.Nearby(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	if stations == nil {
		stations = []places.Station{}
	}
	return stations, nil
}
