package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/paulmach/orb"
)

var (
	// ErrNoCountries is returned when a boundary file yields no usable polygons
	ErrNoCountries = errors.New("no country polygons found")

	// ErrUnknownFormat is returned for boundary files that cannot be identified
	ErrUnknownFormat = errors.New("unknown boundary file format")
)

// topology mirrors the parts of a TopoJSON document the loader needs
type topology struct {
	Type      string                `json:"type"`
	Transform *topoTransform        `json:"transform"`
	Objects   map[string]topoObject `json:"objects"`
	Arcs      [][][]float64         `json:"arcs"`
}

type topoTransform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

type topoObject struct {
	Type       string                 `json:"type"`
	ID         interface{}            `json:"id"`
	Properties map[string]interface{} `json:"properties"`
	Arcs       json.RawMessage        `json:"arcs"`
	Geometries []topoObject           `json:"geometries"`
}

// LoadTopoJSON reads a topology and converts the named object into countries.
// An empty object name picks "countries", or the only object present.
func LoadTopoJSON(r io.Reader, object string) ([]*Country, error) {
	var topo topology
	if err := json.NewDecoder(r).Decode(&topo); err != nil {
		return nil, fmt.Errorf("failed to decode topology: %w", err)
	}
	if topo.Type != "Topology" {
		return nil, fmt.Errorf("%w: type %q is not a Topology", ErrUnknownFormat, topo.Type)
	}

	obj, err := topo.pick(object)
	if err != nil {
		return nil, err
	}

	arcs := topo.decodeArcs()

	geometries := obj.Geometries
	if obj.Type != "GeometryCollection" {
		geometries = []topoObject{obj}
	}

	countries := make([]*Country, 0, len(geometries))
	for _, g := range geometries {
		mp, err := g.multiPolygon(arcs)
		if err != nil {
			return nil, fmt.Errorf("geometry %v: %w", g.ID, err)
		}
		if len(mp) == 0 {
			continue
		}

		name, _ := g.Properties["name"].(string)
		c := NewCountry(idString(g.ID), name, mp)
		for k, v := range g.Properties {
			c.Properties[k] = v
		}
		countries = append(countries, c)
	}

	if len(countries) == 0 {
		return nil, ErrNoCountries
	}
	return countries, nil
}

func (t *topology) pick(name string) (topoObject, error) {
	if name == "" {
		if obj, ok := t.Objects["countries"]; ok {
			return obj, nil
		}
		if len(t.Objects) == 1 {
			for _, obj := range t.Objects {
				return obj, nil
			}
		}
		return topoObject{}, fmt.Errorf("topology has %d objects and none named countries", len(t.Objects))
	}

	obj, ok := t.Objects[name]
	if !ok {
		return topoObject{}, fmt.Errorf("topology has no object %q", name)
	}
	return obj, nil
}

// decodeArcs undoes delta encoding and quantization
func (t *topology) decodeArcs() [][]orb.Point {
	arcs := make([][]orb.Point, len(t.Arcs))
	for i, arc := range t.Arcs {
		points := make([]orb.Point, 0, len(arc))
		var x, y float64
		for _, pos := range arc {
			if len(pos) < 2 {
				continue
			}
			if t.Transform == nil {
				points = append(points, orb.Point{pos[0], pos[1]})
				continue
			}
			x += pos[0]
			y += pos[1]
			points = append(points, orb.Point{
				x*t.Transform.Scale[0] + t.Transform.Translate[0],
				y*t.Transform.Scale[1] + t.Transform.Translate[1],
			})
		}
		arcs[i] = points
	}
	return arcs
}

func (g topoObject) multiPolygon(arcs [][]orb.Point) (orb.MultiPolygon, error) {
	switch g.Type {
	case "Polygon":
		var rings [][]int
		if err := json.Unmarshal(g.Arcs, &rings); err != nil {
			return nil, err
		}
		poly, err := stitchPolygon(rings, arcs)
		if err != nil {
			return nil, err
		}
		return orb.MultiPolygon{poly}, nil

	case "MultiPolygon":
		var polys [][][]int
		if err := json.Unmarshal(g.Arcs, &polys); err != nil {
			return nil, err
		}
		mp := make(orb.MultiPolygon, 0, len(polys))
		for _, rings := range polys {
			poly, err := stitchPolygon(rings, arcs)
			if err != nil {
				return nil, err
			}
			mp = append(mp, poly)
		}
		return mp, nil

	default:
		// Null and non-areal geometries carry no land
		return nil, nil
	}
}

func stitchPolygon(rings [][]int, arcs [][]orb.Point) (orb.Polygon, error) {
	poly := make(orb.Polygon, 0, len(rings))
	for _, ring := range rings {
		r, err := stitchRing(ring, arcs)
		if err != nil {
			return nil, err
		}
		poly = append(poly, r)
	}
	return poly, nil
}

// stitchRing joins arcs end to end; a negative index ~i means arc i reversed.
// Consecutive arcs share their joining point, which is kept once.
func stitchRing(indices []int, arcs [][]orb.Point) (orb.Ring, error) {
	var ring orb.Ring
	for _, idx := range indices {
		reversed := idx < 0
		if reversed {
			idx = ^idx
		}
		if idx >= len(arcs) {
			return nil, fmt.Errorf("arc index %d out of range (%d arcs)", idx, len(arcs))
		}

		arc := arcs[idx]
		if len(ring) > 0 {
			ring = ring[:len(ring)-1]
		}
		if reversed {
			for i := len(arc) - 1; i >= 0; i-- {
				ring = append(ring, arc[i])
			}
		} else {
			ring = append(ring, arc...)
		}
	}

	// A ring must have at least four positions to enclose area
	for len(ring) > 0 && len(ring) < 4 {
		ring = append(ring, ring[0])
	}
	return ring, nil
}

func idString(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
