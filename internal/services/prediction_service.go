package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"prediction-api/internal/config"
	"prediction-api/internal/database/minio"
	"prediction-api/internal/dispatch"
	"prediction-api/internal/geo"
	"prediction-api/internal/models"
	"prediction-api/internal/repository"
)

const defaultProbabilityThreshold = 0.33

// JobGetter is the slice of the job repository the dispatch path needs.
type JobGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Job, error)
}

type PredictionService struct {
	predictionRepository *repository.PredictionRepository
	aoiRepository        *repository.AOIRepository
	modelRepository      *repository.ModelRepository
	jobs                 JobGetter
	dispatcher           dispatch.WorkflowDispatcher
	artifacts            *minio.ArtifactStore
	maxRowLimit          int
}

func NewPredictionService(
	predictionRepo *repository.PredictionRepository,
	aoiRepo *repository.AOIRepository,
	modelRepo *repository.ModelRepository,
	jobs JobGetter,
	dispatcher dispatch.WorkflowDispatcher,
	artifacts *minio.ArtifactStore,
	cfg *config.APIConfig,
) *PredictionService {
	return &PredictionService{
		predictionRepository: predictionRepo,
		aoiRepository:        aoiRepo,
		modelRepository:      modelRepo,
		jobs:                 jobs,
		dispatcher:           dispatcher,
		artifacts:            artifacts,
		maxRowLimit:          cfg.MaxRowLimit,
	}
}

// List returns prediction vectors as features. The limit is clamped to the
// configured maximum; zero or negative values select the maximum.
func (s *PredictionService) List(ctx context.Context, limit int) (models.FeatureCollection, error) {
	rows, err := s.predictionRepository.ListVectors(ctx, s.clampLimit(limit))
	if err != nil {
		return models.FeatureCollection{}, err
	}

	features := make([]models.Feature, 0, len(rows))
	for _, row := range rows {
		features = append(features, models.NewFeature(json.RawMessage(row.Geometry),
			map[string]any{"pixelValue": row.PixelValue}))
	}
	return models.NewFeatureCollection(features), nil
}

// DayQuery selects predictions for one AOI on one UTC day. AccuracyLimit is a
// percentage; predictions below it are filtered out on the pixel-value scale.
type DayQuery struct {
	Day           int64
	AOIID         int64
	ModelID       string
	AccuracyLimit *int
	Limit         int
}

// ByDayAndAOI returns the predictions intersecting the AOI whose parent image
// was acquired within the UTC day containing Day. SEGMENTATION pixel values
// are converted back to percentages; CLASSIFICATION values stay raw class
// indices.
func (s *PredictionService) ByDayAndAOI(ctx context.Context, q DayQuery) (models.FeatureCollection, error) {
	exists, err := s.aoiRepository.Exists(ctx, q.AOIID)
	if err != nil {
		return models.FeatureCollection{}, err
	}
	if !exists {
		return models.FeatureCollection{}, fmt.Errorf("not_found: AOI not found: %d", q.AOIID)
	}

	if q.ModelID != "" {
		if _, err := s.modelRepository.GetByModelID(ctx, q.ModelID); err != nil {
			return models.FeatureCollection{}, err
		}
	}

	var cutoff *int
	if q.AccuracyLimit != nil {
		if *q.AccuracyLimit < 0 || *q.AccuracyLimit > 100 {
			return models.FeatureCollection{}, fmt.Errorf("badrequest: accuracy limit must be between 0 and 100")
		}
		v := pixelCutoff(*q.AccuracyLimit)
		cutoff = &v
	}

	start := startOfUTCDay(q.Day)
	rows, err := s.predictionRepository.ByDayAndAOI(ctx, repository.DayPredictionFilter{
		AOIID:       q.AOIID,
		Start:       start,
		End:         start.Add(24 * time.Hour),
		ModelID:     q.ModelID,
		PixelCutoff: cutoff,
		Limit:       s.clampLimit(q.Limit),
	})
	if err != nil {
		return models.FeatureCollection{}, err
	}

	features := make([]models.Feature, 0, len(rows))
	for _, row := range rows {
		var pixelValue any = row.PixelValue
		if row.ModelType == models.ModelSegmentation {
			pixelValue = geo.AccuracyToPercent(float64(row.PixelValue))
		}

		properties := map[string]any{
			"pixelValue":            pixelValue,
			"timestamp":             row.Timestamp.Unix(),
			"modelId":               row.ModelID,
			"modelType":             row.ModelType,
			"classificationClasses": []string(row.ClassificationClasses),
		}
		features = append(features, models.NewFeature(json.RawMessage(row.Geometry), properties))
	}
	return models.NewFeatureCollection(features), nil
}

// ImageEntry is one acquisition inside a day bucket.
type ImageEntry struct {
	ImageID   int64           `json:"image_id"`
	Timestamp int64           `json:"timestamp"`
	ImageURL  string          `json:"image_url"`
	BBox      json.RawMessage `json:"bbox"`
}

// ImagesByDay groups the AOI's images into UTC day buckets keyed by the unix
// timestamp of the day's midnight.
func (s *PredictionService) ImagesByDay(ctx context.Context, aoiID int64) (map[int64][]ImageEntry, error) {
	exists, err := s.aoiRepository.Exists(ctx, aoiID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("not_found: AOI not found: %d", aoiID)
	}

	rows, err := s.predictionRepository.ImagesByAOI(ctx, aoiID)
	if err != nil {
		return nil, err
	}

	byDay := make(map[int64][]ImageEntry)
	for _, row := range rows {
		day := row.Timestamp.UTC().Truncate(24 * time.Hour).Unix()
		byDay[day] = append(byDay[day], ImageEntry{
			ImageID:   row.ImageID,
			Timestamp: row.Timestamp.Unix(),
			ImageURL:  s.artifacts.ResolveURL(ctx, row.ImageURL),
			BBox:      json.RawMessage(row.BBox),
		})
	}
	return byDay, nil
}

// Dispatch triggers the external prediction pipeline for each job. All jobs
// are checked before anything runs; a job that already completed aborts the
// whole request.
func (s *PredictionService) Dispatch(ctx context.Context, req models.DispatchRequest) ([]models.DispatchResult, error) {
	if len(req.JobIDs) == 0 {
		return nil, fmt.Errorf("badrequest: job_ids is required")
	}

	threshold := defaultProbabilityThreshold
	if req.ProbabilityThreshold != nil {
		if *req.ProbabilityThreshold < 0 || *req.ProbabilityThreshold > 1 {
			return nil, fmt.Errorf("badrequest: probability_threshold must be between 0 and 1")
		}
		threshold = *req.ProbabilityThreshold
	}

	for _, jobID := range req.JobIDs {
		job, err := s.jobs.GetByID(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if job.Status == models.JobCompleted {
			return nil, fmt.Errorf("conflict: job %d has already completed", jobID)
		}
	}

	results := make([]models.DispatchResult, 0, len(req.JobIDs))
	for _, jobID := range req.JobIDs {
		if err := s.dispatcher.Dispatch(ctx, jobID, threshold); err != nil {
			return nil, fmt.Errorf("failed to dispatch job %d: %w", jobID, err)
		}
		results = append(results, models.DispatchResult{
			JobID:   jobID,
			Message: "dispatched",
		})
	}
	return results, nil
}

func (s *PredictionService) clampLimit(limit int) int {
	if limit <= 0 || limit > s.maxRowLimit {
		return s.maxRowLimit
	}
	return limit
}

func startOfUTCDay(unix int64) time.Time {
	return time.Unix(unix, 0).UTC().Truncate(24 * time.Hour)
}
