package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func newTestPolygon(t *testing.T, coords [][]geom.Coord) *geom.Polygon {
	t.Helper()
	polygon, err := geom.NewPolygon(geom.XY).SetCoords(coords)
	require.NoError(t, err)
	return polygon
}

func TestParseBoundingBox(t *testing.T) {
	bbox, err := ParseBoundingBox("-10.5,-20.25,30.75,40.125")
	require.NoError(t, err)
	assert.Equal(t, BoundingBox{MinX: -10.5, MinY: -20.25, MaxX: 30.75, MaxY: 40.125}, bbox)
}

func TestParseBoundingBox_WorldWide(t *testing.T) {
	bbox, err := ParseBoundingBox(WorldWideBBox)
	require.NoError(t, err)
	assert.Equal(t, BoundingBox{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90}, bbox)
}

func TestParseBoundingBox_AllowsWhitespace(t *testing.T) {
	bbox, err := ParseBoundingBox(" 1 , 2 , 3 , 4 ")
	require.NoError(t, err)
	assert.Equal(t, BoundingBox{MinX: 1, MinY: 2, MaxX: 3, MaxY: 4}, bbox)
}

func TestParseBoundingBox_WrongFieldCount(t *testing.T) {
	_, err := ParseBoundingBox("1,2,3")
	assert.Error(t, err)

	_, err = ParseBoundingBox("1,2,3,4,5")
	assert.Error(t, err)
}

func TestParseBoundingBox_NonNumeric(t *testing.T) {
	_, err := ParseBoundingBox("1,2,three,4")
	assert.Error(t, err)
}

func TestBoundingBoxContains(t *testing.T) {
	outer := BoundingBox{MinX: 0, MinY: 0, MaxX: 3, MaxY: 3}

	assert.True(t, outer.Contains(BoundingBox{MinX: 1, MinY: 1, MaxX: 2, MaxY: 2}))
	assert.True(t, outer.Contains(outer), "a box contains itself")
	assert.True(t, outer.Contains(BoundingBox{MinX: 0, MinY: 1, MaxX: 3, MaxY: 3}), "shared borders count")
	assert.False(t, outer.Contains(BoundingBox{MinX: 1, MinY: 1, MaxX: 4, MaxY: 2}))
	assert.False(t, (BoundingBox{MinX: 1, MinY: 1, MaxX: 2, MaxY: 2}).Contains(outer))
}

func TestAccuracyPercentRoundTrip(t *testing.T) {
	for p := 0.0; p <= 100.0; p++ {
		assert.InDelta(t, p, AccuracyToPercent(PercentToAccuracy(p)), 1e-9)
	}
}

func TestPercentToAccuracy(t *testing.T) {
	assert.Equal(t, 0.0, PercentToAccuracy(0))
	assert.InDelta(t, 255.0, PercentToAccuracy(100), 1e-9)
	assert.InDelta(t, 204.0, PercentToAccuracy(80), 1e-9)
}

func TestDetermineLocalProjection_Intersects(t *testing.T) {
	// Central Europe, northern hemisphere, zone 33.
	epsg, err := DetermineLocalProjection(14.0, 48.0, 16.0, 50.0, false)
	require.NoError(t, err)
	assert.Equal(t, 32633, epsg)

	// Southern hemisphere, zone 36.
	epsg, err = DetermineLocalProjection(35.5, -36.6, 36.1, -21.5, false)
	require.NoError(t, err)
	assert.Equal(t, 32736, epsg)
}

func TestDetermineLocalProjection_Contains(t *testing.T) {
	epsg, err := DetermineLocalProjection(13.0, 48.0, 14.5, 50.0, true)
	require.NoError(t, err)
	assert.Equal(t, 32633, epsg)

	// Spans zone 32/33 boundary at 12°E.
	_, err = DetermineLocalProjection(11.0, 48.0, 13.0, 50.0, true)
	assert.Error(t, err)

	// Spans the equator.
	_, err = DetermineLocalProjection(13.0, -1.0, 14.0, 1.0, true)
	assert.Error(t, err)
}

func TestDetermineLocalProjection_OutsideCoverage(t *testing.T) {
	_, err := DetermineLocalProjection(0, 85.0, 1, 89.0, false)
	assert.Error(t, err)

	_, err = DetermineLocalProjection(0, -89.0, 1, -81.0, false)
	assert.Error(t, err)
}

func TestComputeAreaKm2_OneDegreeSquareAtEquator(t *testing.T) {
	polygon := newTestPolygon(t, [][]geom.Coord{{
		{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0},
	}})

	area, err := ComputeAreaKm2(polygon)
	require.NoError(t, err)

	// Geodesic approximation: ~110.57km x ~111.31km.
	assert.InDelta(t, 12308.0, area, 150.0)
}

func TestComputeAreaKm2_SubtractsHoles(t *testing.T) {
	solid := newTestPolygon(t, [][]geom.Coord{{
		{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0},
	}})
	holed := newTestPolygon(t, [][]geom.Coord{
		{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}},
		{{0.25, 0.25}, {0.75, 0.25}, {0.75, 0.75}, {0.25, 0.75}, {0.25, 0.25}},
	})

	solidArea, err := ComputeAreaKm2(solid)
	require.NoError(t, err)
	holedArea, err := ComputeAreaKm2(holed)
	require.NoError(t, err)

	assert.Less(t, holedArea, solidArea)
	assert.InDelta(t, solidArea*0.75, holedArea, solidArea*0.01)
}

func TestComputeAreaKm2_EmptyPolygon(t *testing.T) {
	_, err := ComputeAreaKm2(geom.NewPolygon(geom.XY))
	assert.Error(t, err)
}

func TestPolygonFromGeoJSON(t *testing.T) {
	raw := []byte(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`)
	polygon, err := PolygonFromGeoJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, 5, polygon.LinearRing(0).NumCoords())
}

func TestPolygonFromGeoJSON_Feature(t *testing.T) {
	raw := []byte(`{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}}`)
	polygon, err := PolygonFromGeoJSON(raw)
	require.NoError(t, err)
	assert.NotNil(t, polygon)
}

func TestPolygonFromGeoJSON_FeatureCollectionUsesFirstFeature(t *testing.T) {
	raw := []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}},
		{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[5,5],[6,5],[6,6],[5,6],[5,5]]]}}
	]}`)
	polygon, err := PolygonFromGeoJSON(raw)
	require.NoError(t, err)

	bounds := polygon.Bounds()
	assert.Equal(t, 0.0, bounds.Min(0))
	assert.Equal(t, 1.0, bounds.Max(0))
}

func TestPolygonFromGeoJSON_RejectsOtherTypes(t *testing.T) {
	_, err := PolygonFromGeoJSON([]byte(`{"type":"Point","coordinates":[0,0]}`))
	assert.Error(t, err)

	_, err = PolygonFromGeoJSON([]byte(`{"type":"FeatureCollection","features":[]}`))
	assert.Error(t, err)
}
