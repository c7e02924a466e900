package geo

import (
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// PolygonFromGeoJSON extracts a polygon from a GeoJSON Polygon, Feature or
// FeatureCollection document. For a FeatureCollection only the first feature
// is used.
func PolygonFromGeoJSON(raw []byte) (*geom.Polygon, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("invalid GeoJSON: %w", err)
	}

	switch probe.Type {
	case "Polygon":
		var g geom.T
		if err := geojson.Unmarshal(raw, &g); err != nil {
			return nil, fmt.Errorf("invalid GeoJSON polygon: %w", err)
		}
		return asPolygon(g)
	case "Feature":
		var f geojson.Feature
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("invalid GeoJSON feature: %w", err)
		}
		return asPolygon(f.Geometry)
	case "FeatureCollection":
		var fc geojson.FeatureCollection
		if err := json.Unmarshal(raw, &fc); err != nil {
			return nil, fmt.Errorf("invalid GeoJSON feature collection: %w", err)
		}
		if len(fc.Features) == 0 {
			return nil, fmt.Errorf("feature collection is empty")
		}
		return asPolygon(fc.Features[0].Geometry)
	default:
		return nil, fmt.Errorf("unsupported GeoJSON type %q", probe.Type)
	}
}

func asPolygon(g geom.T) (*geom.Polygon, error) {
	polygon, ok := g.(*geom.Polygon)
	if !ok {
		return nil, fmt.Errorf("geometry is not a Polygon, got %T", g)
	}
	if polygon.NumLinearRings() == 0 || polygon.LinearRing(0).NumCoords() < 4 {
		return nil, fmt.Errorf("polygon ring must have at least 4 coordinate pairs")
	}
	return polygon, nil
}
