package models

import (
	"encoding/json"
	"time"
)

type CreateAOIRequest struct {
	Name     string          `json:"name"`
	Geometry json.RawMessage `json:"geometry"`
}

type CreateJobRequest struct {
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	ModelID        int64     `json:"model_id"`
	AOIID          int64     `json:"aoi_id"`
	MaxCC          float64   `json:"maxcc"`
	CreateMultiple bool      `json:"create_multiple"`
}

type CreateModelRequest struct {
	ModelID               string    `json:"model_id"`
	ModelURL              string    `json:"model_url"`
	ExpectedImageHeight   int       `json:"expected_image_height"`
	ExpectedImageWidth    int       `json:"expected_image_width"`
	Type                  ModelType `json:"type"`
	OutputDtype           string    `json:"output_dtype"`
	Version               int       `json:"version"`
	SatelliteName         string    `json:"satellite_name"`
	BandIndices           []int     `json:"band_indices"`
	ClassificationClasses []string  `json:"classification_classes"`
}

type CreateBandRequest struct {
	Index       int     `json:"index"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Resolution  float64 `json:"resolution"`
	Wavelength  string  `json:"wavelength"`
}

type CreateSatelliteRequest struct {
	Name  string              `json:"name"`
	Bands []CreateBandRequest `json:"bands"`
}

type DispatchRequest struct {
	JobIDs               []int64  `json:"job_ids"`
	ProbabilityThreshold *float64 `json:"probability_threshold"`
}

type DispatchResult struct {
	JobID   int64  `json:"job_id"`
	Message string `json:"message"`
}

// PredictionRequest asks the imagery catalog for scenes covering a polygon in
// a time range.
type PredictionRequest struct {
	Geometry  json.RawMessage `json:"geometry"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
}
