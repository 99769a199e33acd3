package facts

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"globequiz/internal/geo"
)

var (
	ErrNotFound = errors.New("no facts for country")
	ErrNoCode   = errors.New("country has no alpha-2 code")
)

// Facts is what the info panel shows about a country
type Facts struct {
	Name       string   `json:"name"`
	Alpha2     string   `json:"alpha2,omitempty"`
	Capital    string   `json:"capital"`
	Population int64    `json:"population"`
	Region     string   `json:"region"`
	Languages  []string `json:"languages"`
	Currencies []string `json:"currencies"`
}

// Provider looks up facts for a country. Implementations must be safe to
// call from a goroutine other than the UI loop.
type Provider interface {
	Lookup(ctx context.Context, country *geo.Country) (*Facts, error)
}

// Flag returns the regional indicator emoji for a two-letter code, or ""
func Flag(alpha2 string) string {
	if len(alpha2) != 2 {
		return ""
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(alpha2) {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + r - 'A')
	}
	return b.String()
}

var printer = message.NewPrinter(language.English)

// Lines formats the facts for display, with "N/A" for anything missing
func (f *Facts) Lines() []string {
	return []string{
		"Capital: " + orNA(f.Capital),
		printer.Sprintf("Population: %d", f.Population),
		"Region: " + orNA(f.Region),
		"Languages: " + orNA(strings.Join(f.Languages, ", ")),
		"Currency: " + orNA(strings.Join(f.Currencies, ", ")),
	}
}

// Title is the country name with its flag in front when known
func (f *Facts) Title() string {
	if flag := Flag(f.Alpha2); flag != "" {
		return flag + " " + f.Name
	}
	return f.Name
}

func orNA(s string) string {
	if strings.TrimFunc(s, unicode.IsSpace) == "" {
		return "N/A"
	}
	return s
}
