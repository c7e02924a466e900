package geo

import (
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
)

// WGS84 ellipsoid and UTM parameters.
const (
	semiMajorAxis = 6378137.0
	flattening    = 1.0 / 298.257223563
	scaleFactor   = 0.9996
	falseEasting  = 500000.0
	falseNorthing = 10000000.0

	// UTM zones are defined between 80°S and 84°N.
	utmMinLat = -80.0
	utmMaxLat = 84.0
)

// DetermineLocalProjection returns the EPSG code of the UTM zone covering the
// given geographic box. With contains=true the box must fall entirely inside a
// single zone (and a single hemisphere); otherwise the zone of the box center
// is used as long as the box intersects the UTM latitude band.
func DetermineLocalProjection(west, south, east, north float64, contains bool) (int, error) {
	if south > north || west > east {
		return 0, fmt.Errorf("invalid bounds: west=%f south=%f east=%f north=%f", west, south, east, north)
	}
	if north < utmMinLat || south > utmMaxLat {
		return 0, fmt.Errorf("bounds outside UTM latitude coverage (%f..%f)", utmMinLat, utmMaxLat)
	}

	if contains {
		if south < utmMinLat || north > utmMaxLat {
			return 0, fmt.Errorf("no UTM zone contains latitude range %f..%f", south, north)
		}
		if utmZone(west) != utmZone(east) {
			return 0, fmt.Errorf("no single UTM zone contains longitude range %f..%f", west, east)
		}
		if south < 0 && north > 0 {
			return 0, fmt.Errorf("no single UTM zone contains both hemispheres")
		}
		return utmEPSG(utmZone(west), (south+north)/2 >= 0), nil
	}

	midLon := (west + east) / 2
	midLat := (south + north) / 2
	return utmEPSG(utmZone(midLon), midLat >= 0), nil
}

// ComputeAreaKm2 reprojects a WGS84 polygon into its local UTM zone and
// returns the planar area in square kilometers. Interior rings are holes and
// are subtracted from the exterior ring.
func ComputeAreaKm2(polygon *geom.Polygon) (float64, error) {
	if polygon == nil || polygon.NumLinearRings() == 0 {
		return 0, fmt.Errorf("polygon is empty")
	}

	bounds := polygon.Bounds()
	epsg, err := DetermineLocalProjection(bounds.Min(0), bounds.Min(1), bounds.Max(0), bounds.Max(1), false)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for i := 0; i < polygon.NumLinearRings(); i++ {
		area := ringAreaM2(polygon.LinearRing(i), epsg)
		if i == 0 {
			total = area
		} else {
			total -= area
		}
	}
	if total < 0 {
		total = 0
	}
	return total / 1e6, nil
}

func ringAreaM2(ring *geom.LinearRing, epsg int) float64 {
	coords := ring.Coords()
	if len(coords) < 3 {
		return 0
	}

	xs := make([]float64, len(coords))
	ys := make([]float64, len(coords))
	for i, c := range coords {
		xs[i], ys[i] = projectUTM(c[0], c[1], epsg)
	}

	// Shoelace formula over the projected ring.
	sum := 0.0
	for i := 0; i < len(coords)-1; i++ {
		sum += xs[i]*ys[i+1] - xs[i+1]*ys[i]
	}
	return math.Abs(sum) / 2
}

func utmZone(lon float64) int {
	zone := int(math.Floor((lon+180)/6)) + 1
	if zone < 1 {
		zone = 1
	}
	if zone > 60 {
		zone = 60
	}
	return zone
}

func utmEPSG(zone int, northern bool) int {
	if northern {
		return 32600 + zone
	}
	return 32700 + zone
}

// projectUTM applies the forward transverse-mercator projection for the zone
// identified by epsg. Standard six-degree zone series expansion (USGS
// formulation) on the WGS84 ellipsoid.
func projectUTM(lon, lat float64, epsg int) (x, y float64) {
	zone := epsg % 100
	southern := epsg >= 32700
	lon0 := float64((zone-1)*6-180+3) * math.Pi / 180

	phi := lat * math.Pi / 180
	lam := lon * math.Pi / 180

	e2 := flattening * (2 - flattening)
	ep2 := e2 / (1 - e2)

	sinPhi := math.Sin(phi)
	cosPhi := math.Cos(phi)
	tanPhi := math.Tan(phi)

	n := semiMajorAxis / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := ep2 * cosPhi * cosPhi
	a := cosPhi * (lam - lon0)

	m := semiMajorAxis * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*phi -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*phi) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*phi) -
		(35*e2*e2*e2/3072)*math.Sin(6*phi))

	x = scaleFactor*n*(a+(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*ep2)*a*a*a*a*a/120) + falseEasting
	y = scaleFactor * (m + n*tanPhi*(a*a/2+
		(5-t+9*c+4*c*c)*a*a*a*a/24+
		(61-58*t+t*t+600*c-330*ep2)*a*a*a*a*a*a/720))
	if southern {
		y += falseNorthing
	}
	return x, y
}
