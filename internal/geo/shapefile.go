package geo

import (
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

// Attribute names tried, in order, for a country's id and name in
// Natural Earth admin-0 shapefiles
var (
	shapefileIDFields   = []string{"ISO_N3", "ISO_N3_EH", "UN_A3", "ADM0_A3"}
	shapefileNameFields = []string{"NAME", "NAME_LONG", "ADMIN", "NAME_EN"}
)

// LoadShapefile loads country polygons from an ESRI shapefile
func LoadShapefile(path string) ([]*Country, error) {
	shape, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer shape.Close()

	// Field names in shapefiles are byte arrays padded with nulls
	fieldIdx := make(map[string]int)
	for i, field := range shape.Fields() {
		name := strings.TrimRight(string(field.Name[:]), "\x00 ")
		fieldIdx[name] = i
	}

	attr := func(n int, candidates []string) string {
		for _, name := range candidates {
			i, ok := fieldIdx[name]
			if !ok {
				continue
			}
			// Natural Earth uses -99 for "not assigned"
			if v := cleanAttribute(shape.ReadAttribute(n, i)); v != "" && v != "-99" {
				return v
			}
		}
		return ""
	}

	countries := make([]*Country, 0)

	for shape.Next() {
		n, p := shape.Shape()

		var mp orb.MultiPolygon
		switch geom := p.(type) {
		case *shp.Polygon:
			mp = partsToMultiPolygon(geom.Parts, geom.Points)
		case *shp.PolygonZ:
			mp = partsToMultiPolygon(geom.Parts, geom.Points)
		default:
			continue
		}
		if len(mp) == 0 {
			continue
		}

		c := NewCountry(normalizeNumeric(attr(n, shapefileIDFields)), attr(n, shapefileNameFields), mp)
		for name, i := range fieldIdx {
			c.Properties[name] = cleanAttribute(shape.ReadAttribute(n, i))
		}
		countries = append(countries, c)
	}

	if err := shape.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shapefile: %w", err)
	}
	if len(countries) == 0 {
		return nil, ErrNoCountries
	}
	return countries, nil
}

// cleanAttribute strips the space and null padding of DBF values
func cleanAttribute(v string) string {
	return strings.Trim(v, "\x00 ")
}

// partsToMultiPolygon splits the flat point list into rings and groups
// them: clockwise rings are exteriors, counter-clockwise rings are holes
// of the exterior before them.
func partsToMultiPolygon(parts []int32, points []shp.Point) orb.MultiPolygon {
	var mp orb.MultiPolygon

	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || end > int32(len(points)) || end-start < 3 {
			continue
		}

		ring := make(orb.Ring, 0, end-start)
		for _, pt := range points[start:end] {
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}

		if ring.Orientation() == orb.CCW && len(mp) > 0 {
			last := len(mp) - 1
			mp[last] = append(mp[last], ring)
			continue
		}
		mp = append(mp, orb.Polygon{ring})
	}

	return mp
}
