package geo

import (
	"fmt"
	"strconv"
	"strings"
)

// BoundingBox is an axis-aligned box in WGS84 lon/lat order.
type BoundingBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// WorldWideBBox covers the whole globe and is the default for bbox query params.
const WorldWideBBox = "-180,-90,180,90"

const SRID = 4326

// ParseBoundingBox parses a "minLon,minLat,maxLon,maxLat" string.
func ParseBoundingBox(s string) (BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BoundingBox{}, fmt.Errorf("bbox must have 4 components, got %d", len(parts))
	}

	vals := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return BoundingBox{}, fmt.Errorf("invalid bbox component %q: %w", part, err)
		}
		vals[i] = v
	}

	return BoundingBox{MinX: vals[0], MinY: vals[1], MaxX: vals[2], MaxY: vals[3]}, nil
}

// Contains reports whether inner lies entirely within b. Shared borders count
// as contained.
func (b BoundingBox) Contains(inner BoundingBox) bool {
	return inner.MinX >= b.MinX && inner.MinY >= b.MinY &&
		inner.MaxX <= b.MaxX && inner.MaxY <= b.MaxY
}
