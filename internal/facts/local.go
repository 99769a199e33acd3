package facts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"globequiz/internal/geo"
)

// Local serves facts from a JSON object keyed by country name:
//
//	{"France": {"capital": "Paris", "population": 68000000, ...}}
type Local struct {
	byName map[string]*Facts
	codes  *geo.Codes
}

// LoadLocal reads a facts file
func LoadLocal(path string) (*Local, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open facts file: %w", err)
	}
	defer f.Close()

	l, err := ReadLocal(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// ReadLocal decodes a facts document
func ReadLocal(r io.Reader) (*Local, error) {
	var raw map[string]*Facts
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse facts: %w", err)
	}

	l := &Local{
		byName: make(map[string]*Facts, len(raw)),
		codes:  geo.DefaultCodes(),
	}
	for name, f := range raw {
		if f == nil {
			continue
		}
		if f.Name == "" {
			f.Name = name
		}
		l.byName[normalizeName(name)] = f
	}
	return l, nil
}

// Len returns the number of countries in the file
func (l *Local) Len() int {
	return len(l.byName)
}

// Lookup finds the country by name. Names are matched case-insensitively.
func (l *Local) Lookup(ctx context.Context, country *geo.Country) (*Facts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, ok := l.byName[normalizeName(country.Name)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", country.Name, ErrNotFound)
	}

	out := *f
	if out.Alpha2 == "" {
		out.Alpha2, _ = l.codes.Alpha2(country.ID)
	}
	return &out, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
