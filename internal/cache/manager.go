package cache

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"globequiz/internal/debug"
)

// Manager handles downloading and caching the boundary datasets
type Manager struct {
	cacheDir string
	client   *http.Client
}

// DataFile represents a dataset to download
type DataFile struct {
	Name     string // Friendly name
	URL      string // Download URL
	File     string // File name in the cache directory once available
	Zipped   bool   // If true, URL points to a zip that is extracted in place
	Optional bool   // If true, failure to download won't stop the game
}

// World is the world-atlas TopoJSON the game loads by default
var World = DataFile{
	Name: "World boundaries (world-atlas 110m)",
	URL:  "https://cdn.jsdelivr.net/npm/world-atlas@2/countries-110m.json",
	File: "countries-110m.json",
}

// Shapefile is the Natural Earth admin-0 country layer at the same scale
var Shapefile = DataFile{
	Name:     "Countries (Natural Earth 110m)",
	URL:      "https://naciscdn.org/naturalearth/110m/cultural/ne_110m_admin_0_countries.zip",
	File:     "ne_110m_admin_0_countries.shp",
	Zipped:   true,
	Optional: true,
}

// NewManager creates a new cache manager
// If cacheDir is empty, uses ~/.globequiz/data
func NewManager(cacheDir string) (*Manager, error) {
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cacheDir = filepath.Join(home, ".globequiz", "data")
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Manager{
		cacheDir: cacheDir,
		client:   &http.Client{Timeout: 2 * time.Minute},
	}, nil
}

// SetClient replaces the HTTP client used for downloads
func (m *Manager) SetClient(client *http.Client) {
	m.client = client
}

// EnsureWorld makes sure the world TopoJSON is cached and returns its path
func (m *Manager) EnsureWorld() (string, error) {
	return m.Ensure(World)
}

// EnsureShapefile makes sure the Natural Earth shapefile is cached and
// returns the path of its .shp file
func (m *Manager) EnsureShapefile() (string, error) {
	return m.Ensure(Shapefile)
}

// Ensure checks if a data file exists and downloads it if needed
func (m *Manager) Ensure(file DataFile) (string, error) {
	path := m.Path(file)
	if _, err := os.Stat(path); err == nil {
		debug.Log("Using cached %s at %s", file.Name, path)
		return path, nil
	}

	if err := m.download(file); err != nil {
		return "", fmt.Errorf("failed to ensure %s: %w", file.Name, err)
	}

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%s missing after download: %w", file.File, err)
	}
	return path, nil
}

func (m *Manager) download(file DataFile) error {
	fmt.Printf("Downloading %s...\n", file.Name)

	req, err := http.NewRequest("GET", file.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; globequiz/1.0)")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status: %s (URL: %s)", resp.Status, file.URL)
	}

	// Write to a temp file in the cache dir so a failed download never
	// leaves a truncated file behind under the final name
	tmpFile, err := os.CreateTemp(m.cacheDir, "download_*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return fmt.Errorf("failed to save download: %w", err)
	}

	tmpFile.Close()

	if file.Zipped {
		if err := m.extractZip(tmpFile.Name(), m.cacheDir); err != nil {
			return fmt.Errorf("failed to extract: %w", err)
		}
	} else if err := os.Rename(tmpFile.Name(), m.Path(file)); err != nil {
		return fmt.Errorf("failed to move download into cache: %w", err)
	}

	fmt.Printf("Downloaded %s\n", file.Name)
	return nil
}

// extractZip flattens every regular file of the archive into destDir,
// skipping hidden files such as macOS resource forks
func (m *Manager) extractZip(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	extracted := 0
	for _, f := range r.File {
		name := filepath.Base(f.Name)
		if f.FileInfo().IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if err := extractFile(f, filepath.Join(destDir, name)); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		extracted++
	}

	debug.Log("Extracted %d files from %s", extracted, filepath.Base(zipPath))
	return nil
}

func extractFile(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Path returns where a data file lives in the cache
func (m *Manager) Path(file DataFile) string {
	return filepath.Join(m.cacheDir, file.File)
}

// CacheDir returns the directory downloads are kept in
func (m *Manager) CacheDir() string {
	return m.cacheDir
}
