package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"prediction-api/internal/models"
	"prediction-api/internal/repository"
)

type SCLService struct {
	sclRepository *repository.SCLRepository
	aoiRepository *repository.AOIRepository
}

func NewSCLService(sclRepo *repository.SCLRepository, aoiRepo *repository.AOIRepository) *SCLService {
	return &SCLService{sclRepository: sclRepo, aoiRepository: aoiRepo}
}

// SCLQuery filters scene classification vectors. Day is only applied together
// with AOIID since the timestamp comes from the image join.
type SCLQuery struct {
	Classifications []int
	ImageID         *int64
	AOIID           *int64
	Day             *int64
	Geometry        string
}

// Query returns scene classification vectors as features, each labeled with
// its taxonomy name. Classification codes are validated before touching the
// database.
func (s *SCLService) Query(ctx context.Context, q SCLQuery) (models.FeatureCollection, error) {
	for _, code := range q.Classifications {
		if !models.SCLClass(code).IsValid() {
			return models.FeatureCollection{}, fmt.Errorf("badrequest: invalid scene classification value: %d", code)
		}
	}
	if q.Geometry != "" && !json.Valid([]byte(q.Geometry)) {
		return models.FeatureCollection{}, fmt.Errorf("badrequest: geometry is not valid JSON")
	}

	if q.ImageID != nil {
		exists, err := s.sclRepository.ImageExists(ctx, *q.ImageID)
		if err != nil {
			return models.FeatureCollection{}, err
		}
		if !exists {
			return models.FeatureCollection{}, fmt.Errorf("not_found: image not found: %d", *q.ImageID)
		}
		hasRows, err := s.sclRepository.HasRowsForImage(ctx, *q.ImageID)
		if err != nil {
			return models.FeatureCollection{}, err
		}
		if !hasRows {
			return models.FeatureCollection{}, fmt.Errorf("not_found: no scene classification data for image %d", *q.ImageID)
		}
	}

	if q.AOIID != nil {
		exists, err := s.aoiRepository.Exists(ctx, *q.AOIID)
		if err != nil {
			return models.FeatureCollection{}, err
		}
		if !exists {
			return models.FeatureCollection{}, fmt.Errorf("not_found: AOI not found: %d", *q.AOIID)
		}
	}

	filter := repository.SCLFilter{
		Classifications: q.Classifications,
		ImageID:         q.ImageID,
		AOIID:           q.AOIID,
		GeometryGeoJSON: q.Geometry,
	}
	if q.Day != nil && q.AOIID != nil {
		start := startOfUTCDay(*q.Day)
		end := start.Add(24 * time.Hour)
		filter.Start = &start
		filter.End = &end
	}

	rows, err := s.sclRepository.Query(ctx, filter)
	if err != nil {
		return models.FeatureCollection{}, err
	}
	if len(rows) == 0 {
		return models.FeatureCollection{}, fmt.Errorf("not_found: no scene classification data matched the query")
	}

	features := make([]models.Feature, 0, len(rows))
	for _, row := range rows {
		properties := map[string]any{
			"classification": row.PixelValue,
			"label":          models.SCLClass(row.PixelValue).Name(),
			"imageId":        row.ImageID,
		}
		if row.Timestamp != nil {
			properties["timestamp"] = row.Timestamp.Unix()
		}
		if row.AOIID != nil {
			properties["aoiId"] = *row.AOIID
		}
		features = append(features, models.NewFeature(json.RawMessage(row.Geometry), properties))
	}
	return models.NewFeatureCollection(features), nil
}
