package cache

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestEnsureDownloadsOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"type":"Topology","objects":{},"arcs":[]}`))
	}))
	defer srv.Close()

	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	m.SetClient(srv.Client())

	file := World
	file.URL = srv.URL + "/countries-110m.json"

	for i := 0; i < 2; i++ {
		path, err := m.Ensure(file)
		if err != nil {
			t.Fatalf("Ensure: %v", err)
		}
		if path != filepath.Join(m.CacheDir(), "countries-110m.json") {
			t.Fatalf("unexpected path %s", path)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("downloaded %d times", hits.Load())
	}

	entries, _ := os.ReadDir(m.CacheDir())
	if len(entries) != 1 {
		t.Fatalf("cache holds %d files, temp file left behind?", len(entries))
	}
}

func TestEnsureExtractsZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{"ne/ne_110m_admin_0_countries.shp", "ne/ne_110m_admin_0_countries.dbf", "ne/.DS_Store"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte("data"))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	m.SetClient(srv.Client())

	file := Shapefile
	file.URL = srv.URL
	path, err := m.Ensure(file)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if filepath.Base(path) != "ne_110m_admin_0_countries.shp" {
		t.Fatalf("unexpected path %s", path)
	}
	if _, err := os.Stat(filepath.Join(m.CacheDir(), "ne_110m_admin_0_countries.dbf")); err != nil {
		t.Fatalf("dbf not extracted: %v", err)
	}
	if _, err := os.Stat(filepath.Join(m.CacheDir(), ".DS_Store")); err == nil {
		t.Fatalf("hidden file extracted")
	}
}

func TestEnsureReportsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	m.SetClient(srv.Client())

	file := World
	file.URL = srv.URL
	if _, err := m.Ensure(file); err == nil {
		t.Fatalf("expected error for 410")
	}
	if _, err := os.Stat(m.Path(file)); err == nil {
		t.Fatalf("failed download left a file in the cache")
	}
}
