package quiz

import (
	"math"
	"time"

	"globequiz/internal/geo"
)

// GuessRecord is what the last guess leaves on the globe: a marker where
// the player clicked and a line to the target. Both are stored in
// geographic coordinates and re-projected every frame.
type GuessRecord struct {
	Guessed        *geo.Country
	Target         *geo.Country
	At             geo.LatLon // where the player clicked
	TargetCentroid geo.LatLon
	Result         Result

	round int
	start time.Time
	path  []geo.LatLon
}

// Path returns the full great-circle travel line
func (r *GuessRecord) Path() []geo.LatLon {
	return r.path
}

// progress returns the travel line cut to how far the animation has run
func (r *GuessRecord) progress(now time.Time, total time.Duration) []geo.LatLon {
	if len(r.path) < 2 {
		return r.path
	}

	frac := 1.0
	if total > 0 {
		frac = float64(now.Sub(r.start)) / float64(total)
	}
	frac = math.Max(0, math.Min(1, frac))

	n := 1 + int(math.Round(frac*float64(len(r.path)-1)))
	return r.path[:n]
}

// travelSegments picks roughly one segment per 100 km so long lines still
// follow the curve of the globe
func travelSegments(km float64) int {
	n := int(math.Ceil(km / 100))
	if n < 2 {
		return 2
	}
	if n > 200 {
		return 200
	}
	return n
}
