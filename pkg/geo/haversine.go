// Package geo holds the distance helpers used by the OSM importer and the
// canvas layout.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

const earthRadiusMeters = 6_371_000.0

// Haversine returns the great-circle distance in meters between two
// lon/lat points.
func Haversine(a, b orb.Point) float64 {
	lat1r := a.Lat() * math.Pi / 180
	lat2r := b.Lat() * math.Pi / 180
	dLat := (b.Lat() - a.Lat()) * math.Pi / 180
	dLon := (b.Lon() - a.Lon()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// PointToSegmentDist computes the planar distance from p to segment ab and
// the projection ratio along ab, clamped to [0,1]. It works in whatever
// units the points use (canvas pixels for laid-out graphs).
func PointToSegmentDist(p, a, b orb.Point) (dist float64, ratio float64) {
	if a == b {
		return math.Hypot(p[0]-a[0], p[1]-a[1]), 0
	}

	dx := b[0] - a[0]
	dy := b[1] - a[1]
	lenSq := dx*dx + dy*dy

	// Project p onto line ab, clamp to [0,1].
	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / lenSq
	t = max(0, min(1, t))

	return math.Hypot(p[0]-(a[0]+t*dx), p[1]-(a[1]+t*dy)), t
}
