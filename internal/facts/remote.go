package facts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"globequiz/internal/debug"
	"globequiz/internal/geo"
)

// Remote fetches facts from a REST Countries style service:
// GET {BaseURL}{alpha2} returning a JSON array of country records.
type Remote struct {
	BaseURL string
	Codes   *geo.Codes
	Client  *http.Client
}

// NewRemote creates a remote provider using the built-in code table
func NewRemote(baseURL string) *Remote {
	return &Remote{
		BaseURL: baseURL,
		Codes:   geo.DefaultCodes(),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type restCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	CCA2       string            `json:"cca2"`
	Capital    []string          `json:"capital"`
	Population int64             `json:"population"`
	Region     string            `json:"region"`
	Languages  map[string]string `json:"languages"`
	Currencies map[string]struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"currencies"`
}

// Lookup translates the country's numeric id to alpha-2 and fetches it
func (r *Remote) Lookup(ctx context.Context, country *geo.Country) (*Facts, error) {
	alpha2, ok := r.Codes.Alpha2(country.ID)
	if !ok {
		return nil, fmt.Errorf("%s (%s): %w", country.Name, country.ID, ErrNoCode)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", r.BaseURL+url.PathEscape(alpha2), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; globequiz/1.0)")
	req.Header.Set("Accept", "application/json")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	debug.Log("Fetching facts for %s from %s", country.Name, req.URL)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch facts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", country.Name, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facts request failed with status: %s", resp.Status)
	}

	var records []restCountry
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode facts: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", country.Name, ErrNotFound)
	}

	rec := records[0]
	f := &Facts{
		Name:       rec.Name.Common,
		Alpha2:     alpha2,
		Population: rec.Population,
		Region:     rec.Region,
		Languages:  sortedValues(rec.Languages),
	}
	if f.Name == "" {
		f.Name = country.Name
	}
	if len(rec.Capital) > 0 {
		f.Capital = rec.Capital[0]
	}

	codes := make([]string, 0, len(rec.Currencies))
	for code := range rec.Currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		f.Currencies = append(f.Currencies, rec.Currencies[code].Name)
	}

	return f, nil
}

// sortedValues returns map values ordered by key, since JSON object order
// is not preserved
func sortedValues(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		if v := strings.TrimSpace(m[k]); v != "" {
			values = append(values, v)
		}
	}
	return values
}
