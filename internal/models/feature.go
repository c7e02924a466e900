package models

import "encoding/json"

// Feature and FeatureCollection are the RFC 7946 response shapes. Geometry is
// kept as raw JSON since it comes straight from ST_AsGeoJSON.
type Feature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

func NewFeature(geometry json.RawMessage, properties map[string]any) Feature {
	if properties == nil {
		properties = map[string]any{}
	}
	return Feature{Type: "Feature", Properties: properties, Geometry: geometry}
}

func NewFeatureCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}
