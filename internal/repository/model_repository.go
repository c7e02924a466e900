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

type ModelRepository struct {
	db *sqlx.DB
}

func NewModelRepository(db *sqlx.DB) *ModelRepository {
	return &ModelRepository{db: db}
}

type ModelFilter struct {
	ModelID  string
	ModelURL string
	Version  int
	Type     models.ModelType
}

func (r *ModelRepository) List(ctx context.Context, filter ModelFilter) ([]models.Model, error) {
	query := `
		SELECT id, model_id, model_url, version, expected_image_height,
			expected_image_width, type, output_dtype, created_at
		FROM models
		WHERE 1=1`
	args := []any{}
	argIndex := 1

	if filter.ModelID != "" {
		query += fmt.Sprintf(" AND model_id = $%d", argIndex)
		args = append(args, filter.ModelID)
		argIndex++
	}
	if filter.ModelURL != "" {
		query += fmt.Sprintf(" AND model_url = $%d", argIndex)
		args = append(args, filter.ModelURL)
		argIndex++
	}
	if filter.Version != 0 {
		query += fmt.Sprintf(" AND version = $%d", argIndex)
		args = append(args, filter.Version)
		argIndex++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argIndex)
		args = append(args, filter.Type)
		argIndex++
	}
	query += " ORDER BY id"

	var results []models.Model
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		slog.Error("failed to list models", "error", err)
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return results, nil
}

func (r *ModelRepository) GetByModelID(ctx context.Context, modelID string) (*models.Model, error) {
	query := `
		SELECT id, model_id, model_url, version, expected_image_height,
			expected_image_width, type, output_dtype, created_at
		FROM models
		WHERE model_id = $1
		ORDER BY version DESC
		LIMIT 1
	`

	var model models.Model
	err := r.db.GetContext(ctx, &model, query, modelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("not_found: model not found: %s", modelID)
		}
		return nil, fmt.Errorf("failed to get model: %w", err)
	}
	return &model, nil
}

func (r *ModelRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM models WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("failed to check model existence: %w", err)
	}
	return exists, nil
}

// Create persists the model together with its band links and classification
// classes in one transaction. Band indices are resolved against the given
// satellite; a missing index aborts the whole write.
func (r *ModelRepository) Create(ctx context.Context, model *models.Model, satelliteID int64, bandIndices []int, classNames []string) ([]models.Band, []models.ClassificationClass, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertModel := `
		INSERT INTO models (model_id, model_url, version, expected_image_height,
			expected_image_width, type, output_dtype)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err = tx.QueryRowxContext(ctx, insertModel,
		model.ModelID, model.ModelURL, model.Version,
		model.ExpectedImageHeight, model.ExpectedImageWidth,
		model.Type, model.OutputDtype,
	).Scan(&model.ID, &model.CreatedAt)
	if err != nil {
		slog.Error("failed to insert model", "model_id", model.ModelID, "error", err)
		return nil, nil, fmt.Errorf("failed to insert model: %w", err)
	}

	bands := make([]models.Band, 0, len(bandIndices))
	for _, index := range bandIndices {
		var band models.Band
		getBand := `
			SELECT id, satellite_id, index, name, description, resolution, wavelength
			FROM bands
			WHERE satellite_id = $1 AND index = $2
		`
		if err := tx.GetContext(ctx, &band, getBand, satelliteID, index); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil, fmt.Errorf("not_found: band index %d not found for satellite %d", index, satelliteID)
			}
			return nil, nil, fmt.Errorf("failed to resolve band: %w", err)
		}

		insertLink := `INSERT INTO model_bands (model_id, band_id) VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, insertLink, model.ID, band.ID); err != nil {
			return nil, nil, fmt.Errorf("failed to link band: %w", err)
		}
		bands = append(bands, band)
	}

	classes := make([]models.ClassificationClass, 0, len(classNames))
	for i, name := range classNames {
		class := models.ClassificationClass{ModelID: model.ID, Name: name, Index: i + 1}
		insertClass := `
			INSERT INTO classification_classes (model_id, name, index)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		if err := tx.QueryRowxContext(ctx, insertClass, class.ModelID, class.Name, class.Index).Scan(&class.ID); err != nil {
			return nil, nil, fmt.Errorf("failed to insert classification class: %w", err)
		}
		classes = append(classes, class)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit model: %w", err)
	}
	return bands, classes, nil
}
