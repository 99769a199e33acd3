package geo

import (
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// EarthRadiusKm is the mean Earth radius used for scoring distances
const EarthRadiusKm = 6371.0

func toPoint(ll LatLon) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(ll.Lat, ll.Lon))
}

func fromPoint(p s2.Point) LatLon {
	ll := s2.LatLngFromPoint(p)
	return LatLon{Lat: ll.Lat.Degrees(), Lon: ll.Lng.Degrees()}
}

// Distance returns the great-circle distance between two coordinates in kilometres
func Distance(a, b LatLon) float64 {
	angle := s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(b.Lat, b.Lon))
	return angle.Radians() * EarthRadiusKm
}

// Interpolate samples the great circle from a to b at n+1 evenly spaced
// points, both ends included
func Interpolate(a, b LatLon, n int) []LatLon {
	if n < 1 {
		n = 1
	}
	pa, pb := toPoint(a), toPoint(b)
	points := make([]LatLon, n+1)
	for i := 0; i <= n; i++ {
		points[i] = fromPoint(s2.Interpolate(float64(i)/float64(n), pa, pb))
	}
	return points
}

// Centroid returns the area-weighted centroid of the geometry on the sphere.
//
// Each ring is fanned into spherical triangles whose true centroids,
// scaled by signed area, are summed. Holes wind opposite to their exterior
// so they subtract. The sign of each polygon's sum is aligned with its
// exterior vertices, which makes the result independent of whether the
// source winds exteriors clockwise (TopoJSON, shapefile) or
// counter-clockwise (GeoJSON).
func Centroid(mp orb.MultiPolygon) LatLon {
	var sum, fallback r3.Vector

	for _, poly := range mp {
		if len(poly) == 0 || len(poly[0]) == 0 {
			continue
		}

		var polySum r3.Vector
		for _, ring := range poly {
			polySum = polySum.Add(ringMoment(ring))
		}

		mean := vertexMean(poly[0])
		if polySum.Dot(mean) < 0 {
			polySum = polySum.Mul(-1)
		}

		sum = sum.Add(polySum)
		fallback = fallback.Add(mean)
	}

	// Degenerate geometry (points, lines, zero area) has no area moment
	if sum.Norm() < 1e-18 {
		sum = fallback
	}
	if sum.Norm() == 0 {
		return LatLon{}
	}

	return fromPoint(s2.Point{Vector: sum.Normalize()})
}

// ringMoment sums area-weighted true centroids over a fan triangulation
func ringMoment(ring orb.Ring) r3.Vector {
	var m r3.Vector
	if len(ring) < 3 {
		return m
	}

	origin := toPoint(FromPoint(ring[0]))
	prev := toPoint(FromPoint(ring[1]))
	for i := 2; i < len(ring); i++ {
		cur := toPoint(FromPoint(ring[i]))
		m = m.Add(s2.TrueCentroid(origin, prev, cur).Vector)
		prev = cur
	}
	return m
}

func vertexMean(ring orb.Ring) r3.Vector {
	var m r3.Vector
	for _, p := range ring {
		m = m.Add(toPoint(FromPoint(p)).Vector)
	}
	return m
}
