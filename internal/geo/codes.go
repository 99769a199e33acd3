package geo

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"sync"
)

//go:embed codes.csv
var codesCSV string

// Codes translates ISO 3166-1 numeric country codes, as used for boundary
// ids, into alpha-2 codes
type Codes struct {
	alpha2 map[string]string
	names  map[string]string
}

var (
	defaultCodes     *Codes
	defaultCodesErr  error
	defaultCodesOnce sync.Once
)

// DefaultCodes returns the bundled code table
func DefaultCodes() *Codes {
	defaultCodesOnce.Do(func() {
		defaultCodes, defaultCodesErr = LoadCodes(strings.NewReader(codesCSV))
	})
	if defaultCodesErr != nil {
		panic(fmt.Sprintf("bundled code table is invalid: %v", defaultCodesErr))
	}
	return defaultCodes
}

// LoadCodes reads a CSV with numeric, alpha2 and name columns
func LoadCodes(r io.Reader) (*Codes, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndices := make(map[string]int)
	for i, col := range header {
		colIndices[strings.TrimSpace(col)] = i
	}

	for _, col := range []string{"numeric", "alpha2", "name"} {
		if _, ok := colIndices[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	codes := &Codes{
		alpha2: make(map[string]string),
		names:  make(map[string]string),
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read code table: %w", err)
		}

		numeric := normalizeNumeric(record[colIndices["numeric"]])
		alpha2 := strings.ToUpper(strings.TrimSpace(record[colIndices["alpha2"]]))
		if numeric == "" || len(alpha2) != 2 {
			continue
		}

		codes.alpha2[numeric] = alpha2
		codes.names[numeric] = strings.TrimSpace(record[colIndices["name"]])
	}

	return codes, nil
}

// Alpha2 returns the two-letter code for a numeric boundary id
func (c *Codes) Alpha2(numeric string) (string, bool) {
	code, ok := c.alpha2[normalizeNumeric(numeric)]
	return code, ok
}

// Name returns the English short name for a numeric boundary id
func (c *Codes) Name(numeric string) (string, bool) {
	name, ok := c.names[normalizeNumeric(numeric)]
	return name, ok
}

// Len returns the number of entries in the table
func (c *Codes) Len() int {
	return len(c.alpha2)
}

// normalizeNumeric left-pads all-digit ids to three digits ("76" -> "076")
func normalizeNumeric(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > 3 {
		return id
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return id
		}
	}
	return strings.Repeat("0", 3-len(id)) + id
}
