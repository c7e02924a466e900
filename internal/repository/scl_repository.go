package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type SCLRepository struct {
	db *sqlx.DB
}

func NewSCLRepository(db *sqlx.DB) *SCLRepository {
	return &SCLRepository{db: db}
}

type SCLRow struct {
	Geometry   []byte     `db:"geometry"`
	PixelValue int        `db:"pixel_value"`
	ImageID    int64      `db:"image_id"`
	Timestamp  *time.Time `db:"timestamp"`
	AOIID      *int64     `db:"aoi_id"`
}

type SCLFilter struct {
	Classifications []int      // already validated against the taxonomy
	ImageID         *int64     // optional
	AOIID           *int64     // optional; joins through images and jobs
	Start           *time.Time // optional UTC day window, requires AOIID
	End             *time.Time
	GeometryGeoJSON string // optional intersection filter
}

// Query returns scene classification rows matching the filter. The AOI filter
// joins through images and jobs so the image timestamp and AOI id come back
// on each row.
func (r *SCLRepository) Query(ctx context.Context, filter SCLFilter) ([]SCLRow, error) {
	query := `
		SELECT
			ST_AsGeoJSON(scv.geometry) AS geometry,
			scv.pixel_value,
			scv.image_id`
	args := []any{}
	argIndex := 1

	joinAOI := filter.AOIID != nil
	if joinAOI {
		query += `,
			i."timestamp",
			j.aoi_id
		FROM scene_classification_vectors scv
		JOIN images i ON i.id = scv.image_id
		JOIN jobs j ON j.id = i.job_id
		WHERE 1=1`
		query += fmt.Sprintf(" AND j.aoi_id = $%d", argIndex)
		args = append(args, *filter.AOIID)
		argIndex++
	} else {
		query += `,
			NULL::timestamptz AS "timestamp",
			NULL::bigint AS aoi_id
		FROM scene_classification_vectors scv
		WHERE 1=1`
	}

	if len(filter.Classifications) > 0 {
		query += fmt.Sprintf(" AND scv.pixel_value = ANY($%d)", argIndex)
		args = append(args, pq.Array(filter.Classifications))
		argIndex++
	}
	if filter.ImageID != nil {
		query += fmt.Sprintf(" AND scv.image_id = $%d", argIndex)
		args = append(args, *filter.ImageID)
		argIndex++
	}
	if joinAOI && filter.Start != nil && filter.End != nil {
		query += fmt.Sprintf(` AND i."timestamp" >= $%d AND i."timestamp" < $%d`, argIndex, argIndex+1)
		args = append(args, *filter.Start, *filter.End)
		argIndex += 2
	}
	if filter.GeometryGeoJSON != "" {
		query += fmt.Sprintf(" AND ST_Intersects(scv.geometry, ST_GeomFromGeoJSON($%d))", argIndex)
		args = append(args, filter.GeometryGeoJSON)
		argIndex++
	}

	query += " ORDER BY scv.id"

	var rows []SCLRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		slog.Error("failed to query scene classification vectors", "error", err)
		return nil, fmt.Errorf("failed to query scene classifications: %w", err)
	}
	return rows, nil
}

func (r *SCLRepository) ImageExists(ctx context.Context, imageID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM images WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, imageID); err != nil {
		return false, fmt.Errorf("failed to check image existence: %w", err)
	}
	return exists, nil
}

func (r *SCLRepository) HasRowsForImage(ctx context.Context, imageID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM scene_classification_vectors WHERE image_id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, imageID); err != nil {
		return false, fmt.Errorf("failed to check scene classification rows: %w", err)
	}
	return exists, nil
}
