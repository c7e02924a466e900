package models

import "time"

// ============================================================================
// SCHEMA ENTITIES
// ============================================================================
// All geometry columns are WGS84 (SRID 4326). AOI and Job use a soft-delete
// flag; Image, PredictionRaster, PredictionVector and
// SceneClassificationVector cascade on delete of their parents.

type AOI struct {
	ID        int64           `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Geometry  *GeoJSONPolygon `json:"geometry,omitempty" db:"geometry"`
	IsDeleted bool            `json:"-" db:"is_deleted"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

type Model struct {
	ID                  int64     `json:"id" db:"id"`
	ModelID             string    `json:"model_id" db:"model_id"`
	ModelURL            string    `json:"model_url" db:"model_url"`
	Version             int       `json:"version" db:"version"`
	ExpectedImageHeight int       `json:"expected_image_height" db:"expected_image_height"`
	ExpectedImageWidth  int       `json:"expected_image_width" db:"expected_image_width"`
	Type                ModelType `json:"type" db:"type"`
	OutputDtype         string    `json:"output_dtype" db:"output_dtype"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}

type Satellite struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	Bands []Band `json:"bands,omitempty"`
}

type Band struct {
	ID          int64   `json:"id" db:"id"`
	SatelliteID int64   `json:"satellite_id" db:"satellite_id"`
	Index       int     `json:"index" db:"index"`
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description" db:"description"`
	Resolution  float64 `json:"resolution" db:"resolution"`
	Wavelength  string  `json:"wavelength" db:"wavelength"`
}

// ModelBand links a model to the satellite bands it consumes.
type ModelBand struct {
	ModelID int64 `json:"model_id" db:"model_id"`
	BandID  int64 `json:"band_id" db:"band_id"`
}

// ClassificationClass defines one label of a CLASSIFICATION model's output
// space. Index is 1-based.
type ClassificationClass struct {
	ID      int64  `json:"id" db:"id"`
	ModelID int64  `json:"model_id" db:"model_id"`
	Name    string `json:"name" db:"name"`
	Index   int    `json:"index" db:"index"`
}

// Job is one imagery-acquisition + inference request over a time window and
// an AOI. Created PENDING; all later transitions belong to the external
// prediction pipeline.
type Job struct {
	ID        int64     `json:"job_id" db:"id"`
	Status    JobStatus `json:"status" db:"status"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`
	MaxCC     float64   `json:"maxcc" db:"maxcc"`
	AOIID     int64     `json:"aoi_id" db:"aoi_id"`
	ModelID   int64     `json:"model_id" db:"model_id"`
	IsDeleted bool      `json:"-" db:"is_deleted"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Image struct {
	ID          int64     `json:"image_id" db:"id"`
	ImageID     string    `json:"external_id" db:"image_id"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
	Dtype       string    `json:"dtype" db:"dtype"`
	CRS         int       `json:"crs" db:"crs"`
	Resolution  float64   `json:"resolution" db:"resolution"`
	Width       int       `json:"width" db:"width"`
	Height      int       `json:"height" db:"height"`
	JobID       int64     `json:"job_id" db:"job_id"`
	SatelliteID int64     `json:"satellite_id" db:"satellite_id"`
}

type PredictionRaster struct {
	ID        int64  `json:"id" db:"id"`
	ImageID   int64  `json:"image_id" db:"image_id"`
	RasterURL string `json:"raster_url" db:"raster_url"`
	Dtype     string `json:"dtype" db:"dtype"`
	Width     int    `json:"width" db:"width"`
	Height    int    `json:"height" db:"height"`
}

// PredictionVector is one vectorized detection extracted from a prediction
// raster. PixelValue is 0-255: a confidence proxy for SEGMENTATION models, a
// class index for CLASSIFICATION models.
type PredictionVector struct {
	ID                 int64 `json:"id" db:"id"`
	PredictionRasterID int64 `json:"prediction_raster_id" db:"prediction_raster_id"`
	PixelValue         int   `json:"pixel_value" db:"pixel_value"`
}

type SceneClassificationVector struct {
	ID         int64 `json:"id" db:"id"`
	ImageID    int64 `json:"image_id" db:"image_id"`
	PixelValue int   `json:"pixel_value" db:"pixel_value"`
}
