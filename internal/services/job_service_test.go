package services

import (
	"encoding/json"
	"testing"
	"time"

	"prediction-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func createTestJobRow(jobID, imageID int64, pixelValue int) repository.JobPredictionRow {
	return repository.JobPredictionRow{
		JobID:      jobID,
		Status:     "COMPLETED",
		CreatedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		ModelID:    "oceanecowatch/plasticdetectionmodel",
		ImageID:    imageID,
		ImageURL:   "scene-archives/scene.tiff",
		Timestamp:  time.Date(2024, 3, 2, 10, 30, 0, 0, time.UTC),
		PixelValue: pixelValue,
		Geometry:   json.RawMessage(`{"type":"Point","coordinates":[120.8,14.6]}`),
	}
}

// ============================================================================
// TEST SUITE 1: DATE RANGE SPLITTING
// ============================================================================

func TestSplitDateRange_WithinLimit(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(10 * 24 * time.Hour)

	ranges := SplitDateRange(start, end, 31)

	require.Len(t, ranges, 1)
	assert.Equal(t, start, ranges[0].Start)
	assert.Equal(t, end, ranges[0].End)
}

func TestSplitDateRange_SplitsLongRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(65 * 24 * time.Hour)

	ranges := SplitDateRange(start, end, 31)

	require.Len(t, ranges, 3)

	// Chunks are at most 31 days long and never overlap.
	for i, r := range ranges {
		assert.False(t, r.End.Before(r.Start), "chunk %d end before start", i)
		assert.LessOrEqual(t, r.End.Sub(r.Start), 31*24*time.Hour, "chunk %d too long", i)
	}
	for i := 1; i < len(ranges); i++ {
		gap := ranges[i].Start.Sub(ranges[i-1].End)
		assert.Equal(t, 24*time.Hour, gap, "chunk %d should start one day after the previous", i)
	}

	// The union covers the whole requested range.
	assert.Equal(t, start, ranges[0].Start)
	assert.Equal(t, end, ranges[len(ranges)-1].End)
}

func TestSplitDateRange_ExactMultiple(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(31 * 24 * time.Hour)

	ranges := SplitDateRange(start, end, 31)

	require.Len(t, ranges, 1)
	assert.Equal(t, end, ranges[0].End)
}

func TestSplitDateRange_SameDay(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ranges := SplitDateRange(day, day, 31)

	require.Len(t, ranges, 1)
	assert.Equal(t, day, ranges[0].Start)
	assert.Equal(t, day, ranges[0].End)
}

// ============================================================================
// TEST SUITE 2: JOB ROW GROUPING
// ============================================================================

func TestGroupJobRows_Empty(t *testing.T) {
	jobs := GroupJobRows(nil)

	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
}

func TestGroupJobRows_NestsJobsImagesAndPredictions(t *testing.T) {
	// Rows sorted by (job id desc, image id desc) as the query returns them.
	rows := []repository.JobPredictionRow{
		createTestJobRow(9, 42, 210),
		createTestJobRow(9, 42, 180),
		createTestJobRow(9, 41, 90),
		createTestJobRow(7, 30, 255),
	}

	jobs := GroupJobRows(rows)

	require.Len(t, jobs, 2)

	first := jobs[0]
	assert.Equal(t, int64(9), first.JobID)
	assert.Equal(t, "COMPLETED", first.Status)
	assert.Equal(t, "oceanecowatch/plasticdetectionmodel", first.ModelID)
	require.Len(t, first.Images, 2)
	assert.Equal(t, int64(42), first.Images[0].ImageID)
	assert.Len(t, first.Images[0].Predictions, 2)
	assert.Equal(t, int64(41), first.Images[1].ImageID)
	assert.Len(t, first.Images[1].Predictions, 1)

	second := jobs[1]
	assert.Equal(t, int64(7), second.JobID)
	require.Len(t, second.Images, 1)
	assert.Equal(t, int64(30), second.Images[0].ImageID)
}

func TestGroupJobRows_PredictionProperties(t *testing.T) {
	rows := []repository.JobPredictionRow{createTestJobRow(1, 2, 128)}

	jobs := GroupJobRows(rows)

	require.Len(t, jobs, 1)
	require.Len(t, jobs[0].Images, 1)
	require.Len(t, jobs[0].Images[0].Predictions, 1)

	prediction := jobs[0].Images[0].Predictions[0]
	assert.Equal(t, "Feature", prediction.Type)
	assert.Equal(t, 128, prediction.Properties["pixelValue"])
	assert.JSONEq(t, `{"type":"Point","coordinates":[120.8,14.6]}`, string(prediction.Geometry))
}

func TestJobsResponse_Envelope(t *testing.T) {
	response := JobsResponse{Jobs: GroupJobRows([]repository.JobPredictionRow{createTestJobRow(5, 20, 100)})}

	encoded, err := json.Marshal(response)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"jobs":[`)

	// An AOI with no completed jobs still serializes as an object with an
	// empty jobs array, not a bare array.
	empty, err := json.Marshal(JobsResponse{Jobs: GroupJobRows(nil)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"jobs":[]}`, string(empty))
}

func TestGroupJobRows_SingleImagePerJob(t *testing.T) {
	rows := []repository.JobPredictionRow{
		createTestJobRow(3, 12, 40),
		createTestJobRow(2, 11, 50),
		createTestJobRow(1, 10, 60),
	}

	jobs := GroupJobRows(rows)

	require.Len(t, jobs, 3)
	for i, job := range jobs {
		assert.Len(t, job.Images, 1, "job %d should have one image", i)
		assert.Len(t, job.Images[0].Predictions, 1)
	}
}
