package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ResumePolicy decides when automatic rotation starts again after the
// player has stopped it by dragging the globe.
type ResumePolicy string

const (
	ResumeOnRelease ResumePolicy = "release" // as soon as the drag ends
	ResumeOnCorrect ResumePolicy = "correct" // after the next correct guess
	ResumeNever     ResumePolicy = "never"
)

// Config holds every tunable of the globe and the quiz
type Config struct {
	// Rotation and zoom
	Sensitivity     float64      `yaml:"sensitivity"`
	MinScale        float64      `yaml:"min_scale"`
	MaxScale        float64      `yaml:"max_scale"`
	ZoomSensitivity float64      `yaml:"zoom_sensitivity"`
	InitialScale    float64      `yaml:"initial_scale"` // 0 means 40% of the smaller screen side
	AutoStep        float64      `yaml:"auto_step"`     // degrees per frame before sensitivity scaling
	FrameInterval   Duration     `yaml:"frame_interval"`
	Resume          ResumePolicy `yaml:"resume"`
	FocusOnReveal   bool         `yaml:"focus_on_reveal"`

	// Star field
	StarCount       int     `yaml:"star_count"`
	StarFieldRadius float64 `yaml:"star_field_radius"`
	StarFieldDepth  float64 `yaml:"star_field_depth"`
	StarShellMin    float64 `yaml:"star_shell_min"`
	StarShellMax    float64 `yaml:"star_shell_max"`
	StarSize        float64 `yaml:"star_size"`
	FocalLength     float64 `yaml:"focal_length"`

	// Terminal geometry: one cell is CellWidth virtual pixels wide and
	// CellWidth*AspectRatio pixels tall.
	CellWidth   float64 `yaml:"cell_width"`
	AspectRatio float64 `yaml:"aspect_ratio"`

	// Data sources
	CacheDir   string   `yaml:"cache_dir"`
	WorldFile  string   `yaml:"world_file"`
	Source     string   `yaml:"source"`
	FactsFile  string   `yaml:"facts_file"`
	FactsURL   string   `yaml:"facts_url"`
	TravelTime Duration `yaml:"travel_time"`

	Mode string `yaml:"mode"`
	Seed int64  `yaml:"seed"`
}

// Duration wraps time.Duration so it can be written as "16ms" in YAML
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a Go duration string
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML writes the duration in its string form
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// Default returns the configuration the game ships with
func Default() Config {
	return Config{
		Sensitivity:     75,
		MinScale:        100,
		MaxScale:        1000,
		ZoomSensitivity: 0.1,
		AutoStep:        0.1,
		FrameInterval:   Duration{16 * time.Millisecond},
		Resume:          ResumeOnRelease,
		FocusOnReveal:   true,

		StarCount:       200,
		StarFieldRadius: 2,
		StarFieldDepth:  1000,
		StarShellMin:    0.3,
		StarShellMax:    1.0,
		StarSize:        0.5,
		FocalLength:     800,

		CellWidth:   8,
		AspectRatio: 2.0,

		Source:     "topojson",
		FactsURL:   "https://restcountries.com/v3.1/alpha/",
		TravelTime: Duration{800 * time.Millisecond},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	var errs []error

	if c.MinScale <= 0 {
		errs = append(errs, fmt.Errorf("min_scale must be positive, got %g", c.MinScale))
	}
	if c.MaxScale < c.MinScale {
		errs = append(errs, fmt.Errorf("max_scale %g is below min_scale %g", c.MaxScale, c.MinScale))
	}
	if c.InitialScale != 0 && (c.InitialScale < c.MinScale || c.InitialScale > c.MaxScale) {
		errs = append(errs, fmt.Errorf("initial_scale %g outside [%g, %g]", c.InitialScale, c.MinScale, c.MaxScale))
	}
	if c.Sensitivity <= 0 {
		errs = append(errs, fmt.Errorf("sensitivity must be positive, got %g", c.Sensitivity))
	}
	if c.ZoomSensitivity < 0 {
		errs = append(errs, fmt.Errorf("zoom_sensitivity must not be negative, got %g", c.ZoomSensitivity))
	}
	if c.FrameInterval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("frame_interval must be positive, got %v", c.FrameInterval.Duration))
	}
	if c.StarCount < 0 {
		errs = append(errs, fmt.Errorf("star_count must not be negative, got %d", c.StarCount))
	}
	if c.StarFieldDepth <= 0 {
		errs = append(errs, fmt.Errorf("star_field_depth must be positive, got %g", c.StarFieldDepth))
	}
	if c.StarShellMin < 0 || c.StarShellMin >= c.StarShellMax || c.StarShellMax > 1 {
		errs = append(errs, fmt.Errorf("star shell [%g, %g] must satisfy 0 <= min < max <= 1", c.StarShellMin, c.StarShellMax))
	}
	if c.FocalLength <= 0 {
		errs = append(errs, fmt.Errorf("focal_length must be positive, got %g", c.FocalLength))
	}
	if c.AspectRatio < 1.0 || c.AspectRatio > 4.0 {
		errs = append(errs, fmt.Errorf("aspect ratio must be between 1.0 and 4.0, got %g", c.AspectRatio))
	}
	if c.CellWidth <= 0 {
		errs = append(errs, fmt.Errorf("cell_width must be positive, got %g", c.CellWidth))
	}

	switch c.Resume {
	case ResumeOnRelease, ResumeOnCorrect, ResumeNever:
	default:
		errs = append(errs, fmt.Errorf("unknown resume policy %q", c.Resume))
	}

	switch c.Mode {
	case "", "easy", "hard":
	default:
		errs = append(errs, fmt.Errorf("unknown game mode %q", c.Mode))
	}

	switch c.Source {
	case "topojson", "geojson", "shapefile":
	default:
		errs = append(errs, fmt.Errorf("unknown boundary source %q", c.Source))
	}

	return errors.Join(errs...)
}
