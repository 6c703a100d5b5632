package geo

import "math"

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371000

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// HaversineDistance returns the great-circle distance between two points in
// meters. Accuracy is meter-level; callers must not rely on sub-meter
// precision.
func HaversineDistance(p1, p2 Point) float64 {
	dLat := (p2.Latitude - p1.Latitude) * (math.Pi / 180.0)
	dLon := (p2.Longitude - p1.Longitude) * (math.Pi / 180.0)

	lat1Rad := p1.Latitude * (math.Pi / 180.0)
	lat2Rad := p2.Latitude * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// IsWithin reports whether point lies inside the circular fence around
// center with the given radius in meters.
func IsWithin(point, center Point, radiusMeters float64) bool {
	return HaversineDistance(point, center) <= radiusMeters
}
