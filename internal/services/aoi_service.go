package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"prediction-api/internal/config"
	"prediction-api/internal/geo"
	"prediction-api/internal/models"
	"prediction-api/internal/repository"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

type AOIService struct {
	aoiRepository    *repository.AOIRepository
	maxAreaKm2       float64
	defaultThreshold int
}

func NewAOIService(aoiRepo *repository.AOIRepository, cfg *config.APIConfig) *AOIService {
	return &AOIService{
		aoiRepository:    aoiRepo,
		maxAreaKm2:       cfg.MaxAOIAreaKm2,
		defaultThreshold: cfg.DefaultAOIThreshold,
	}
}

// CreateAOI validates the submitted polygon against the area policy and
// persists it. The geometry may arrive as a Polygon, a Feature or a
// FeatureCollection.
func (s *AOIService) CreateAOI(ctx context.Context, req models.CreateAOIRequest) (*models.AOI, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("badrequest: name is required")
	}
	if len(req.Geometry) == 0 {
		return nil, fmt.Errorf("badrequest: geometry is required")
	}

	polygon, err := geo.PolygonFromGeoJSON(req.Geometry)
	if err != nil {
		return nil, fmt.Errorf("badrequest: %w", err)
	}

	area, err := geo.ComputeAreaKm2(polygon)
	if err != nil {
		return nil, fmt.Errorf("badrequest: %w", err)
	}
	if area > s.maxAreaKm2 {
		return nil, fmt.Errorf("conflict: AOI area %.2f km2 exceeds the maximum of %.0f km2", area, s.maxAreaKm2)
	}

	geometry, err := models.NewGeoJSONPolygon(polygon)
	if err != nil {
		return nil, fmt.Errorf("badrequest: %w", err)
	}

	aoi := &models.AOI{Name: req.Name, Geometry: geometry}
	if err := s.aoiRepository.Create(ctx, aoi); err != nil {
		return nil, err
	}
	return aoi, nil
}

// ListCenters returns one centroid feature per AOI intersecting the bbox,
// carrying the AOI's area and its image acquisition statistics.
func (s *AOIService) ListCenters(ctx context.Context, bboxParam string) (models.FeatureCollection, error) {
	bbox, err := parseBBoxParam(bboxParam)
	if err != nil {
		return models.FeatureCollection{}, err
	}

	rows, err := s.aoiRepository.ListCentersByBBox(ctx, bbox)
	if err != nil {
		return models.FeatureCollection{}, err
	}

	features := make([]models.Feature, 0, len(rows))
	for _, row := range rows {
		area, err := areaFromWKB(row.GeometryWKB)
		if err != nil {
			return models.FeatureCollection{}, fmt.Errorf("failed to compute area for AOI %d: %w", row.ID, err)
		}

		properties := map[string]any{
			"id":              row.ID,
			"name":            row.Name,
			"area_km2":        roundArea(area),
			"first_image":     unixOrNil(row.FirstImage),
			"last_image":      unixOrNil(row.LastImage),
			"timestamp_count": row.TimestampCount,
		}
		features = append(features, models.NewFeature(json.RawMessage(row.Centroid), properties))
	}
	return models.NewFeatureCollection(features), nil
}

// List returns full AOI polygons intersecting the bbox, each with the count of
// distinct acquisition timestamps that have at least one detection at or above
// the confidence threshold. thresholdPercent < 0 selects the configured
// default.
func (s *AOIService) List(ctx context.Context, bboxParam string, thresholdPercent int) (models.FeatureCollection, error) {
	bbox, err := parseBBoxParam(bboxParam)
	if err != nil {
		return models.FeatureCollection{}, err
	}

	if thresholdPercent < 0 {
		thresholdPercent = s.defaultThreshold
	}
	if thresholdPercent > 100 {
		return models.FeatureCollection{}, fmt.Errorf("badrequest: threshold must be between 0 and 100")
	}

	rows, err := s.aoiRepository.ListByBBox(ctx, bbox, pixelCutoff(thresholdPercent))
	if err != nil {
		return models.FeatureCollection{}, err
	}

	features := make([]models.Feature, 0, len(rows))
	for _, row := range rows {
		area, err := areaFromWKB(row.GeometryWKB)
		if err != nil {
			return models.FeatureCollection{}, fmt.Errorf("failed to compute area for AOI %d: %w", row.ID, err)
		}

		properties := map[string]any{
			"id":              row.ID,
			"name":            row.Name,
			"created_at":      row.CreatedAt.UTC().Format(time.RFC3339),
			"area_km2":        roundArea(area),
			"detection_count": row.DetectionCount,
		}
		features = append(features, models.NewFeature(json.RawMessage(row.Geometry), properties))
	}
	return models.NewFeatureCollection(features), nil
}

func (s *AOIService) GetAOI(ctx context.Context, id int64) (*models.AOI, error) {
	return s.aoiRepository.GetByID(ctx, id)
}

func parseBBoxParam(param string) (geo.BoundingBox, error) {
	if param == "" {
		param = geo.WorldWideBBox
	}
	bbox, err := geo.ParseBoundingBox(param)
	if err != nil {
		return geo.BoundingBox{}, fmt.Errorf("badrequest: %w", err)
	}
	return bbox, nil
}

// pixelCutoff maps a percentage threshold onto the 0-255 pixel value scale,
// rounding half away from zero.
func pixelCutoff(percent int) int {
	return int(math.Round(geo.PercentToAccuracy(float64(percent))))
}

func areaFromWKB(wkb []byte) (float64, error) {
	geometry, err := ewkb.Unmarshal(wkb)
	if err != nil {
		return 0, fmt.Errorf("failed to unmarshal geometry: %w", err)
	}
	polygon, ok := geometry.(*geom.Polygon)
	if !ok {
		return 0, fmt.Errorf("geometry is not a Polygon, got %T", geometry)
	}
	return geo.ComputeAreaKm2(polygon)
}

func roundArea(area float64) float64 {
	return math.Round(area*100) / 100
}

func unixOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}
