package services

import (
	"context"
	"fmt"

	"prediction-api/internal/models"
	"prediction-api/internal/repository"
)

type SatelliteService struct {
	satelliteRepository *repository.SatelliteRepository
}

func NewSatelliteService(satelliteRepo *repository.SatelliteRepository) *SatelliteService {
	return &SatelliteService{satelliteRepository: satelliteRepo}
}

// Create registers a satellite together with its band definitions.
func (s *SatelliteService) Create(ctx context.Context, req models.CreateSatelliteRequest) (*models.Satellite, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("badrequest: name is required")
	}
	if len(req.Bands) == 0 {
		return nil, fmt.Errorf("badrequest: at least one band is required")
	}

	seen := make(map[int]bool, len(req.Bands))
	for _, band := range req.Bands {
		if band.Index < 1 {
			return nil, fmt.Errorf("badrequest: band index must be >= 1, got %d", band.Index)
		}
		if band.Name == "" {
			return nil, fmt.Errorf("badrequest: band name is required")
		}
		if seen[band.Index] {
			return nil, fmt.Errorf("badrequest: duplicate band index %d", band.Index)
		}
		seen[band.Index] = true
	}

	satellite := &models.Satellite{Name: req.Name}
	for _, band := range req.Bands {
		satellite.Bands = append(satellite.Bands, models.Band{
			Index:       band.Index,
			Name:        band.Name,
			Description: band.Description,
			Resolution:  band.Resolution,
			Wavelength:  band.Wavelength,
		})
	}

	if err := s.satelliteRepository.Create(ctx, satellite); err != nil {
		return nil, err
	}
	return satellite, nil
}

func (s *SatelliteService) GetByName(ctx context.Context, name string) (*models.Satellite, error) {
	return s.satelliteRepository.GetByName(ctx, name)
}
