package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"prediction-api/internal/geo"
	"prediction-api/internal/models"

	"github.com/jmoiron/sqlx"
)

type AOIRepository struct {
	db *sqlx.DB
}

func NewAOIRepository(db *sqlx.DB) *AOIRepository {
	return &AOIRepository{db: db}
}

// AOICenterRow is one AOI with image aggregates across all of its jobs.
// Aggregates are NULL when the AOI has no jobs or images yet.
type AOICenterRow struct {
	ID             int64      `db:"id"`
	Name           string     `db:"name"`
	Centroid       []byte     `db:"centroid"`
	GeometryWKB    []byte     `db:"geometry_wkb"`
	FirstImage     *time.Time `db:"first_image"`
	LastImage      *time.Time `db:"last_image"`
	TimestampCount int64      `db:"timestamp_count"`
}

// ListCentersByBBox returns every non-deleted AOI intersecting the bbox with
// its centroid and per-AOI image statistics. The outer joins keep AOIs with
// zero jobs in the result.
func (r *AOIRepository) ListCentersByBBox(ctx context.Context, bbox geo.BoundingBox) ([]AOICenterRow, error) {
	query := `
		SELECT
			a.id,
			a.name,
			ST_AsGeoJSON(ST_Centroid(a.geometry)) AS centroid,
			ST_AsBinary(a.geometry) AS geometry_wkb,
			MIN(i."timestamp") AS first_image,
			MAX(i."timestamp") AS last_image,
			COUNT(DISTINCT i."timestamp") AS timestamp_count
		FROM aois a
		LEFT JOIN jobs j ON j.aoi_id = a.id AND j.is_deleted = FALSE
		LEFT JOIN images i ON i.job_id = j.id
		WHERE a.is_deleted = FALSE
			AND ST_Intersects(a.geometry, ST_MakeEnvelope($1, $2, $3, $4, 4326))
		GROUP BY a.id, a.name
		ORDER BY a.id
	`

	var rows []AOICenterRow
	err := r.db.SelectContext(ctx, &rows, query, bbox.MinX, bbox.MinY, bbox.MaxX, bbox.MaxY)
	if err != nil {
		slog.Error("failed to list AOI centers", "error", err)
		return nil, fmt.Errorf("failed to list AOI centers: %w", err)
	}
	return rows, nil
}

// AOIStatsRow is one AOI polygon with the count of distinct image timestamps
// that carry at least one prediction above the pixel cutoff.
type AOIStatsRow struct {
	ID             int64     `db:"id"`
	Name           string    `db:"name"`
	CreatedAt      time.Time `db:"created_at"`
	Geometry       []byte    `db:"geometry"`
	GeometryWKB    []byte    `db:"geometry_wkb"`
	DetectionCount int64     `db:"detection_count"`
}

func (r *AOIRepository) ListByBBox(ctx context.Context, bbox geo.BoundingBox, pixelCutoff int) ([]AOIStatsRow, error) {
	query := `
		SELECT
			a.id,
			a.name,
			a.created_at,
			ST_AsGeoJSON(a.geometry) AS geometry,
			ST_AsBinary(a.geometry) AS geometry_wkb,
			COUNT(DISTINCT i."timestamp") FILTER (WHERE pv.pixel_value >= $5) AS detection_count
		FROM aois a
		LEFT JOIN jobs j ON j.aoi_id = a.id AND j.is_deleted = FALSE
		LEFT JOIN images i ON i.job_id = j.id
		LEFT JOIN prediction_rasters pr ON pr.image_id = i.id
		LEFT JOIN prediction_vectors pv ON pv.prediction_raster_id = pr.id
		WHERE a.is_deleted = FALSE
			AND ST_Intersects(a.geometry, ST_MakeEnvelope($1, $2, $3, $4, 4326))
		GROUP BY a.id, a.name, a.created_at
		ORDER BY a.id
	`

	var rows []AOIStatsRow
	err := r.db.SelectContext(ctx, &rows, query, bbox.MinX, bbox.MinY, bbox.MaxX, bbox.MaxY, pixelCutoff)
	if err != nil {
		slog.Error("failed to list AOIs", "error", err)
		return nil, fmt.Errorf("failed to list AOIs: %w", err)
	}
	return rows, nil
}

// Create persists a new AOI and fills in its id and creation timestamp.
func (r *AOIRepository) Create(ctx context.Context, aoi *models.AOI) error {
	query := `
		INSERT INTO aois (name, geometry)
		VALUES ($1, ST_GeomFromEWKT($2))
		RETURNING id, created_at
	`

	value, err := aoi.Geometry.Value()
	if err != nil {
		return fmt.Errorf("invalid AOI geometry: %w", err)
	}

	err = r.db.QueryRowxContext(ctx, query, aoi.Name, value).Scan(&aoi.ID, &aoi.CreatedAt)
	if err != nil {
		slog.Error("failed to create AOI", "name", aoi.Name, "error", err)
		return fmt.Errorf("failed to create AOI: %w", err)
	}
	return nil
}

func (r *AOIRepository) GetByID(ctx context.Context, id int64) (*models.AOI, error) {
	query := `
		SELECT id, name, is_deleted, created_at, ST_AsBinary(geometry) AS geometry
		FROM aois
		WHERE id = $1 AND is_deleted = FALSE
	`

	row := r.db.QueryRowxContext(ctx, query, id)

	var aoi models.AOI
	var geometry models.GeoJSONPolygon
	err := row.Scan(&aoi.ID, &aoi.Name, &aoi.IsDeleted, &aoi.CreatedAt, &geometry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("not_found: AOI not found: %d", id)
		}
		slog.Error("failed to get AOI", "aoi_id", id, "error", err)
		return nil, fmt.Errorf("failed to get AOI: %w", err)
	}
	aoi.Geometry = &geometry
	return &aoi, nil
}

func (r *AOIRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM aois WHERE id = $1 AND is_deleted = FALSE)`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("failed to check AOI existence: %w", err)
	}
	return exists, nil
}
