package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"prediction-api/internal/models"

	"github.com/jmoiron/sqlx"
)

type SatelliteRepository struct {
	db *sqlx.DB
}

func NewSatelliteRepository(db *sqlx.DB) *SatelliteRepository {
	return &SatelliteRepository{db: db}
}

func (r *SatelliteRepository) GetByName(ctx context.Context, name string) (*models.Satellite, error) {
	var satellite models.Satellite
	err := r.db.GetContext(ctx, &satellite, `SELECT id, name FROM satellites WHERE name = $1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("not_found: satellite not found: %s", name)
		}
		return nil, fmt.Errorf("failed to get satellite: %w", err)
	}
	return &satellite, nil
}

// Create persists the satellite and its bands as one unit.
func (r *SatelliteRepository) Create(ctx context.Context, satellite *models.Satellite) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowxContext(ctx,
		`INSERT INTO satellites (name) VALUES ($1) RETURNING id`, satellite.Name,
	).Scan(&satellite.ID)
	if err != nil {
		slog.Error("failed to insert satellite", "name", satellite.Name, "error", err)
		return fmt.Errorf("failed to insert satellite: %w", err)
	}

	insertBand := `
		INSERT INTO bands (satellite_id, index, name, description, resolution, wavelength)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	for i := range satellite.Bands {
		band := &satellite.Bands[i]
		band.SatelliteID = satellite.ID
		err := tx.QueryRowxContext(ctx, insertBand,
			band.SatelliteID, band.Index, band.Name, band.Description, band.Resolution, band.Wavelength,
		).Scan(&band.ID)
		if err != nil {
			return fmt.Errorf("failed to insert band %d: %w", band.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit satellite: %w", err)
	}
	return nil
}
