package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// LatLon represents a geographic coordinate in degrees
type LatLon struct {
	Lat float64
	Lon float64
}

// Point converts the coordinate to an orb point (lon, lat order)
func (l LatLon) Point() orb.Point {
	return orb.Point{l.Lon, l.Lat}
}

// FromPoint converts an orb point (lon, lat order) to a LatLon
func FromPoint(p orb.Point) LatLon {
	return LatLon{Lat: p.Lat(), Lon: p.Lon()}
}

// Country is one land polygon set from the boundary dataset.
// It is immutable once loaded; the centroid is computed on first use.
type Country struct {
	ID         string                 // Numeric boundary identifier, e.g. "076"
	Name       string                 // Display name
	Geometry   orb.MultiPolygon       // Rings in (lon, lat) order
	Properties map[string]interface{} // Extra attributes from the source file

	bound       orb.Bound
	centroid    LatLon
	hasCentroid bool
}

// NewCountry creates a country. An empty id falls back to the name so
// that every country stays distinguishable in the guessed set.
func NewCountry(id, name string, geometry orb.MultiPolygon) *Country {
	if id == "" {
		id = "name:" + name
	}
	return &Country{
		ID:         id,
		Name:       name,
		Geometry:   geometry,
		Properties: make(map[string]interface{}),
		bound:      geometry.Bound(),
	}
}

// Bound returns the lon/lat bounding box of the country
func (c *Country) Bound() orb.Bound {
	return c.bound
}

// Centroid returns the spherical area centroid of the country's geometry
func (c *Country) Centroid() LatLon {
	if !c.hasCentroid {
		c.centroid = Centroid(c.Geometry)
		c.hasCentroid = true
	}
	return c.centroid
}

// Contains reports whether the coordinate falls inside the country
func (c *Country) Contains(ll LatLon) bool {
	p := ll.Point()
	if !c.bound.Contains(p) {
		return false
	}
	return planar.MultiPolygonContains(c.Geometry, p)
}

// Rings returns every ring of every polygon, exterior and holes alike
func (c *Country) Rings() []orb.Ring {
	var rings []orb.Ring
	for _, poly := range c.Geometry {
		rings = append(rings, poly...)
	}
	return rings
}

// Locate returns the first country containing the coordinate, or nil
func Locate(countries []*Country, ll LatLon) *Country {
	for _, c := range countries {
		if c.Contains(ll) {
			return c
		}
	}
	return nil
}
