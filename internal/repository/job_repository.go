package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"prediction-api/internal/models"

	"github.com/jmoiron/sqlx"
)

type JobRepository struct {
	db *sqlx.DB
}

func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// JobPredictionRow is one row of the flat completed-jobs join. Rows arrive
// sorted by (job id desc, image id desc); the service folds them into the
// nested jobs→images→predictions shape.
type JobPredictionRow struct {
	JobID      int64     `db:"job_id"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	ModelID    string    `db:"model_id"`
	ImageID    int64     `db:"image_id"`
	ImageURL   string    `db:"image_url"`
	Timestamp  time.Time `db:"timestamp"`
	PixelValue int       `db:"pixel_value"`
	Geometry   []byte    `db:"geometry"`
}

func (r *JobRepository) CompletedJobRowsByAOI(ctx context.Context, aoiID int64) ([]JobPredictionRow, error) {
	query := `
		SELECT
			j.id AS job_id,
			j.status,
			j.created_at,
			m.model_id,
			i.id AS image_id,
			i.image_url,
			i."timestamp",
			pv.pixel_value,
			ST_AsGeoJSON(pv.geometry) AS geometry
		FROM jobs j
		JOIN models m ON j.model_id = m.id
		JOIN images i ON j.id = i.job_id
		JOIN prediction_rasters pr ON i.id = pr.image_id
		JOIN prediction_vectors pv ON pr.id = pv.prediction_raster_id
		WHERE j.aoi_id = $1
			AND j.is_deleted = FALSE
			AND j.status = $2
		ORDER BY j.id DESC, i.id DESC
	`

	var rows []JobPredictionRow
	err := r.db.SelectContext(ctx, &rows, query, aoiID, models.JobCompleted)
	if err != nil {
		slog.Error("failed to query completed jobs", "aoi_id", aoiID, "error", err)
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	return rows, nil
}

// CreateMany inserts all jobs in one transaction; either every row is
// persisted or none.
func (r *JobRepository) CreateMany(ctx context.Context, jobs []models.Job) ([]models.Job, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO jobs (status, start_date, end_date, maxcc, aoi_id, model_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	created := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		err := tx.QueryRowxContext(ctx, query,
			job.Status, job.StartDate, job.EndDate, job.MaxCC, job.AOIID, job.ModelID,
		).Scan(&job.ID, &job.CreatedAt)
		if err != nil {
			slog.Error("failed to insert job", "aoi_id", job.AOIID, "error", err)
			return nil, fmt.Errorf("failed to insert job: %w", err)
		}
		created = append(created, job)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit jobs: %w", err)
	}
	return created, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	query := `
		SELECT id, status, start_date, end_date, maxcc, aoi_id, model_id, is_deleted, created_at
		FROM jobs
		WHERE id = $1
	`

	var job models.Job
	err := r.db.GetContext(ctx, &job, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("not_found: job not found: %d", id)
		}
		slog.Error("failed to get job", "job_id", id, "error", err)
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}
