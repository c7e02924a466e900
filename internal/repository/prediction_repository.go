package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"prediction-api/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

type PredictionVectorRow struct {
	Geometry   []byte `db:"geometry"`
	PixelValue int    `db:"pixel_value"`
}

func (r *PredictionRepository) ListVectors(ctx context.Context, limit int) ([]PredictionVectorRow, error) {
	query := `
		SELECT ST_AsGeoJSON(geometry) AS geometry, pixel_value
		FROM prediction_vectors
		LIMIT $1
	`

	var rows []PredictionVectorRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		slog.Error("failed to list prediction vectors", "error", err)
		return nil, fmt.Errorf("failed to list prediction vectors: %w", err)
	}
	return rows, nil
}

// DayPredictionRow is one prediction vector joined up to its model, with the
// classification label space aggregated per model.
type DayPredictionRow struct {
	Timestamp             time.Time        `db:"timestamp"`
	ModelID               string           `db:"model_id"`
	ModelType             models.ModelType `db:"model_type"`
	ClassificationClasses pq.StringArray   `db:"classification_classes"`
	Geometry              []byte           `db:"geometry"`
	PixelValue            int              `db:"pixel_value"`
}

type DayPredictionFilter struct {
	AOIID       int64
	Start       time.Time
	End         time.Time
	ModelID     string // optional
	PixelCutoff *int   // optional, inclusive lower bound
	Limit       int
}

// ByDayAndAOI returns prediction vectors intersecting the AOI polygon whose
// parent image falls in [Start, End), ordered by image timestamp ascending.
func (r *PredictionRepository) ByDayAndAOI(ctx context.Context, filter DayPredictionFilter) ([]DayPredictionRow, error) {
	query := `
		SELECT
			i."timestamp",
			m.model_id,
			m.type AS model_type,
			array_remove(array_agg(DISTINCT cc.name), NULL) AS classification_classes,
			ST_AsGeoJSON(pv.geometry) AS geometry,
			pv.pixel_value
		FROM aois a
		JOIN jobs j ON j.aoi_id = a.id
		JOIN images i ON i.job_id = j.id
		JOIN prediction_rasters pr ON pr.image_id = i.id
		JOIN prediction_vectors pv ON pv.prediction_raster_id = pr.id
		JOIN models m ON m.id = j.model_id
		LEFT JOIN classification_classes cc ON cc.model_id = m.id
		WHERE a.id = $1
			AND i."timestamp" >= $2
			AND i."timestamp" < $3
			AND ST_Intersects(pv.geometry, a.geometry)`
	args := []any{filter.AOIID, filter.Start, filter.End}
	argIndex := 4

	if filter.ModelID != "" {
		query += fmt.Sprintf(" AND m.model_id = $%d", argIndex)
		args = append(args, filter.ModelID)
		argIndex++
	}
	if filter.PixelCutoff != nil {
		query += fmt.Sprintf(" AND pv.pixel_value >= $%d", argIndex)
		args = append(args, *filter.PixelCutoff)
		argIndex++
	}

	query += fmt.Sprintf(`
		GROUP BY i."timestamp", i.id, m.model_id, m.type, pv.geometry, pv.pixel_value
		ORDER BY i."timestamp"
		LIMIT $%d`, argIndex)
	args = append(args, filter.Limit)

	var rows []DayPredictionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		slog.Error("failed to query predictions by day", "aoi_id", filter.AOIID, "error", err)
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	return rows, nil
}

type AOIImageRow struct {
	ImageID   int64     `db:"image_id"`
	Timestamp time.Time `db:"timestamp"`
	ImageURL  string    `db:"image_url"`
	BBox      []byte    `db:"bbox"`
}

// ImagesByAOI returns all images acquired for an AOI's jobs ordered by
// acquisition time.
func (r *PredictionRepository) ImagesByAOI(ctx context.Context, aoiID int64) ([]AOIImageRow, error) {
	query := `
		SELECT
			i.id AS image_id,
			i."timestamp",
			i.image_url,
			ST_AsGeoJSON(i.bbox) AS bbox
		FROM images i
		JOIN jobs j ON i.job_id = j.id
		WHERE j.aoi_id = $1
		ORDER BY i."timestamp"
	`

	var rows []AOIImageRow
	if err := r.db.SelectContext(ctx, &rows, query, aoiID); err != nil {
		slog.Error("failed to list AOI images", "aoi_id", aoiID, "error", err)
		return nil, fmt.Errorf("failed to list AOI images: %w", err)
	}
	return rows, nil
}
