package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"prediction-api/internal/config"
	"prediction-api/internal/geo"
	"prediction-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func newAOITestService() *AOIService {
	cfg := &config.APIConfig{MaxAOIAreaKm2: 100, DefaultAOIThreshold: 80}
	return NewAOIService(nil, cfg)
}

// squarePolygonJSON builds a GeoJSON polygon of roughly size x size degrees
// centered near the equator.
func squarePolygonJSON(size float64) json.RawMessage {
	half := size / 2
	return json.RawMessage(fmt.Sprintf(
		`{"type":"Polygon","coordinates":[[[%f,%f],[%f,%f],[%f,%f],[%f,%f],[%f,%f]]]}`,
		13-half, -half, 13+half, -half, 13+half, half, 13-half, half, 13-half, -half))
}

// ============================================================================
// TEST SUITE 1: AREA POLICY
// ============================================================================

func TestCreateAOI_RejectsOversizedArea(t *testing.T) {
	service := newAOITestService()

	// A one-degree square near the equator is around 12,300 km2.
	_, err := service.CreateAOI(context.Background(), models.CreateAOIRequest{
		Name:     "too-big",
		Geometry: squarePolygonJSON(1.0),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflict")
	assert.Contains(t, err.Error(), "exceeds")
}

func TestCreateAOI_RequiresName(t *testing.T) {
	service := newAOITestService()

	_, err := service.CreateAOI(context.Background(), models.CreateAOIRequest{
		Geometry: squarePolygonJSON(0.01),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "badrequest")
}

func TestCreateAOI_RequiresGeometry(t *testing.T) {
	service := newAOITestService()

	_, err := service.CreateAOI(context.Background(), models.CreateAOIRequest{Name: "bay"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "badrequest")
}

func TestCreateAOI_RejectsInvalidGeometry(t *testing.T) {
	service := newAOITestService()

	_, err := service.CreateAOI(context.Background(), models.CreateAOIRequest{
		Name:     "bad",
		Geometry: json.RawMessage(`{"type":"Point","coordinates":[1,2]}`),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "badrequest")
}

// ============================================================================
// TEST SUITE 2: THRESHOLD AND BBOX HELPERS
// ============================================================================

func TestPixelCutoff(t *testing.T) {
	assert.Equal(t, 0, pixelCutoff(0))
	assert.Equal(t, 204, pixelCutoff(80))
	assert.Equal(t, 255, pixelCutoff(100))
	// 255.0/100.0*50 lands just below 127.5 in float64, so 50% rounds down.
	assert.Equal(t, 127, pixelCutoff(50))
}

func TestParseBBoxParam_DefaultsToWorld(t *testing.T) {
	bbox, err := parseBBoxParam("")

	require.NoError(t, err)
	assert.Equal(t, geo.BoundingBox{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90}, bbox)
}

func TestParseBBoxParam_Invalid(t *testing.T) {
	_, err := parseBBoxParam("1,2,3")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "badrequest")
}

func TestRoundArea(t *testing.T) {
	assert.Equal(t, 12.35, roundArea(12.3456))
	assert.Equal(t, 0.0, roundArea(0))
}
