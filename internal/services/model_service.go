package services

import (
	"context"
	"fmt"

	"prediction-api/internal/models"
	"prediction-api/internal/repository"
)

type ModelService struct {
	modelRepository     *repository.ModelRepository
	satelliteRepository *repository.SatelliteRepository
}

func NewModelService(modelRepo *repository.ModelRepository, satelliteRepo *repository.SatelliteRepository) *ModelService {
	return &ModelService{modelRepository: modelRepo, satelliteRepository: satelliteRepo}
}

func (s *ModelService) List(ctx context.Context, filter repository.ModelFilter) ([]models.Model, error) {
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, fmt.Errorf("badrequest: invalid model type: %s", filter.Type)
	}
	return s.modelRepository.List(ctx, filter)
}

func (s *ModelService) GetByModelID(ctx context.Context, modelID string) (*models.Model, error) {
	return s.modelRepository.GetByModelID(ctx, modelID)
}

type CreateModelResponse struct {
	Model                 models.Model                 `json:"model"`
	Bands                 []models.Band                `json:"bands"`
	ClassificationClasses []models.ClassificationClass `json:"classification_classes"`
}

// Create registers a model, linking it to the named satellite's bands and
// defining its classification label space.
func (s *ModelService) Create(ctx context.Context, req models.CreateModelRequest) (*CreateModelResponse, error) {
	if req.ModelID == "" {
		return nil, fmt.Errorf("badrequest: model_id is required")
	}
	if req.ModelURL == "" {
		return nil, fmt.Errorf("badrequest: model_url is required")
	}
	if req.SatelliteName == "" {
		return nil, fmt.Errorf("badrequest: satellite_name is required")
	}
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("badrequest: invalid model type: %s", req.Type)
	}
	if req.OutputDtype != "" && !models.IsValidDtype(req.OutputDtype) {
		return nil, fmt.Errorf("badrequest: invalid output_dtype: %s", req.OutputDtype)
	}
	if req.ExpectedImageHeight <= 0 || req.ExpectedImageWidth <= 0 {
		return nil, fmt.Errorf("badrequest: expected image dimensions must be positive")
	}
	if len(req.BandIndices) == 0 {
		return nil, fmt.Errorf("badrequest: band_indices is required")
	}
	if req.Type == models.ModelClassification && len(req.ClassificationClasses) == 0 {
		return nil, fmt.Errorf("badrequest: classification_classes is required for CLASSIFICATION models")
	}

	version := req.Version
	if version == 0 {
		version = 1
	}

	satellite, err := s.satelliteRepository.GetByName(ctx, req.SatelliteName)
	if err != nil {
		return nil, err
	}

	model := models.Model{
		ModelID:             req.ModelID,
		ModelURL:            req.ModelURL,
		Version:             version,
		ExpectedImageHeight: req.ExpectedImageHeight,
		ExpectedImageWidth:  req.ExpectedImageWidth,
		Type:                req.Type,
		OutputDtype:         req.OutputDtype,
	}

	bands, classes, err := s.modelRepository.Create(ctx, &model, satellite.ID, req.BandIndices, req.ClassificationClasses)
	if err != nil {
		return nil, err
	}

	return &CreateModelResponse{
		Model:                 model,
		Bands:                 bands,
		ClassificationClasses: classes,
	}, nil
}
