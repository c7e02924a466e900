package services

import (
	"context"
	"fmt"
	"time"

	"prediction-api/internal/config"
	"prediction-api/internal/database/minio"
	"prediction-api/internal/models"
	"prediction-api/internal/repository"
)

type JobService struct {
	jobRepository   *repository.JobRepository
	aoiRepository   *repository.AOIRepository
	modelRepository *repository.ModelRepository
	artifacts       *minio.ArtifactStore
	maxRangeDays    int
}

func NewJobService(jobRepo *repository.JobRepository, aoiRepo *repository.AOIRepository, modelRepo *repository.ModelRepository, artifacts *minio.ArtifactStore, cfg *config.APIConfig) *JobService {
	return &JobService{
		jobRepository:   jobRepo,
		aoiRepository:   aoiRepo,
		modelRepository: modelRepo,
		artifacts:       artifacts,
		maxRangeDays:    cfg.MaxJobTimeRangeDays,
	}
}

// JobsResponse is the envelope for the completed-jobs listing.
type JobsResponse struct {
	Jobs []JobPredictions `json:"jobs"`
}

// JobPredictions is one completed job with its images and their detections
// nested underneath.
type JobPredictions struct {
	JobID     int64              `json:"job_id"`
	Status    string             `json:"status"`
	CreatedAt int64              `json:"created_at"`
	ModelID   string             `json:"model_id"`
	Images    []ImagePredictions `json:"images"`
}

type ImagePredictions struct {
	ImageID     int64            `json:"image_id"`
	ImageURL    string           `json:"image_url"`
	Timestamp   int64            `json:"timestamp"`
	Predictions []models.Feature `json:"predictions"`
}

// ListCompletedByAOI returns every completed job for the AOI with its images
// and prediction features, newest job and newest image first.
func (s *JobService) ListCompletedByAOI(ctx context.Context, aoiID int64) ([]JobPredictions, error) {
	exists, err := s.aoiRepository.Exists(ctx, aoiID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("not_found: AOI not found: %d", aoiID)
	}

	rows, err := s.jobRepository.CompletedJobRowsByAOI(ctx, aoiID)
	if err != nil {
		return nil, err
	}

	jobs := GroupJobRows(rows)
	for i := range jobs {
		for j := range jobs[i].Images {
			image := &jobs[i].Images[j]
			image.ImageURL = s.artifacts.ResolveURL(ctx, image.ImageURL)
		}
	}
	return jobs, nil
}

// GroupJobRows folds the flat join rows into the nested jobs/images/predictions
// shape. Rows arrive pre-sorted by (job id desc, image id desc); grouping is
// done by detecting id transitions, so no map allocation or re-sorting is
// needed.
func GroupJobRows(rows []repository.JobPredictionRow) []JobPredictions {
	jobs := []JobPredictions{}
	lastJobID := int64(-1)
	lastImageID := int64(-1)

	for _, row := range rows {
		if row.JobID != lastJobID {
			jobs = append(jobs, JobPredictions{
				JobID:     row.JobID,
				Status:    row.Status,
				CreatedAt: row.CreatedAt.Unix(),
				ModelID:   row.ModelID,
				Images:    []ImagePredictions{},
			})
			lastJobID = row.JobID
		}
		job := &jobs[len(jobs)-1]

		if row.ImageID != lastImageID {
			job.Images = append(job.Images, ImagePredictions{
				ImageID:     row.ImageID,
				ImageURL:    row.ImageURL,
				Timestamp:   row.Timestamp.Unix(),
				Predictions: []models.Feature{},
			})
			lastImageID = row.ImageID
		}
		image := &job.Images[len(job.Images)-1]

		image.Predictions = append(image.Predictions,
			models.NewFeature(row.Geometry, map[string]any{"pixelValue": row.PixelValue}))
	}
	return jobs
}

// CreateJobs validates the request and persists one pending job per date
// range. Ranges longer than the configured maximum are rejected unless the
// caller opts into splitting with create_multiple.
func (s *JobService) CreateJobs(ctx context.Context, req models.CreateJobRequest) ([]models.Job, error) {
	if req.MaxCC < 0 || req.MaxCC > 1 {
		return nil, fmt.Errorf("badrequest: maxcc must be between 0 and 1")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("badrequest: start_date must not be after end_date")
	}

	modelExists, err := s.modelRepository.Exists(ctx, req.ModelID)
	if err != nil {
		return nil, err
	}
	if !modelExists {
		return nil, fmt.Errorf("not_found: model not found: %d", req.ModelID)
	}

	aoiExists, err := s.aoiRepository.Exists(ctx, req.AOIID)
	if err != nil {
		return nil, err
	}
	if !aoiExists {
		return nil, fmt.Errorf("not_found: AOI not found: %d", req.AOIID)
	}

	maxRange := time.Duration(s.maxRangeDays) * 24 * time.Hour
	if req.EndDate.Sub(req.StartDate) > maxRange && !req.CreateMultiple {
		return nil, fmt.Errorf("badrequest: time range exceeds %d days; set create_multiple to split it into multiple jobs", s.maxRangeDays)
	}

	ranges := SplitDateRange(req.StartDate, req.EndDate, s.maxRangeDays)
	jobs := make([]models.Job, 0, len(ranges))
	for _, r := range ranges {
		jobs = append(jobs, models.Job{
			Status:    models.JobPending,
			StartDate: r.Start,
			EndDate:   r.End,
			MaxCC:     req.MaxCC,
			AOIID:     req.AOIID,
			ModelID:   req.ModelID,
		})
	}
	return s.jobRepository.CreateMany(ctx, jobs)
}

func (s *JobService) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	return s.jobRepository.GetByID(ctx, id)
}

type DateRange struct {
	Start time.Time
	End   time.Time
}

// SplitDateRange cuts [start, end] into chunks of at most maxDays. Each chunk
// after the first starts one day after the previous chunk ended, so chunks
// never overlap and their union covers the whole range.
func SplitDateRange(start, end time.Time, maxDays int) []DateRange {
	chunk := time.Duration(maxDays) * 24 * time.Hour
	ranges := []DateRange{}

	for current := start; current.Before(end); {
		currentEnd := current.Add(chunk)
		if currentEnd.After(end) {
			currentEnd = end
		}
		ranges = append(ranges, DateRange{Start: current, End: currentEnd})
		current = currentEnd.Add(24 * time.Hour)
	}

	if len(ranges) == 0 {
		// start == end: a single same-day range.
		ranges = append(ranges, DateRange{Start: start, End: end})
	}
	return ranges
}
