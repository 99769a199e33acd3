package geo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadGeoJSON reads a FeatureCollection of country polygons
func LoadGeoJSON(r io.Reader) ([]*Country, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read GeoJSON: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode GeoJSON: %w", err)
	}

	countries := make([]*Country, 0, len(fc.Features))
	for _, f := range fc.Features {
		var mp orb.MultiPolygon
		switch geom := f.Geometry.(type) {
		case orb.Polygon:
			mp = orb.MultiPolygon{geom}
		case orb.MultiPolygon:
			mp = geom
		default:
			continue
		}

		id := idString(f.ID)
		if id == "" {
			id = propString(f.Properties, "id", "iso_n3", "ISO_N3")
		}
		name := propString(f.Properties, "name", "NAME", "ADMIN")

		c := NewCountry(id, name, mp)
		for k, v := range f.Properties {
			c.Properties[k] = v
		}
		countries = append(countries, c)
	}

	if len(countries) == 0 {
		return nil, ErrNoCountries
	}
	return countries, nil
}

// propString returns the first of keys holding a non-empty string or number
func propString(props geojson.Properties, keys ...string) string {
	for _, k := range keys {
		if s := idString(props[k]); s != "" {
			return s
		}
	}
	return ""
}

// Load reads a boundary file in the given format ("topojson", "geojson" or
// "shapefile"). An empty format is detected from the extension and, for
// .json files, from the document type.
func Load(path, format string) ([]*Country, error) {
	if format == "" {
		detected, err := detectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	if format == "shapefile" {
		return LoadShapefile(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open boundary file: %w", err)
	}
	defer file.Close()

	switch format {
	case "topojson":
		return LoadTopoJSON(file, "")
	case "geojson":
		return LoadGeoJSON(file)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func detectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return "shapefile", nil
	case ".topojson":
		return "topojson", nil
	case ".geojson":
		return "geojson", nil
	case ".json":
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read boundary file: %w", err)
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&head); err != nil {
		return "", fmt.Errorf("failed to sniff %s: %w", path, err)
	}

	switch head.Type {
	case "Topology":
		return "topojson", nil
	case "FeatureCollection":
		return "geojson", nil
	default:
		return "", fmt.Errorf("%w: json type %q", ErrUnknownFormat, head.Type)
	}
}
