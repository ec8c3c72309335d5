// ABOUTME: Tests for application wiring
// ABOUTME: Covers viewer seeding, config wiring, and snapshot exports

package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harper/parkspot/internal/config"
	"github.com/harper/parkspot/internal/geo"
	"github.com/harper/parkspot/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	chicago = geo.Coordinate{Latitude: 41.8781, Longitude: -87.6298}
	now     = time.Date(2024, 12, 14, 15, 0, 0, 0, time.UTC)
)

func newTestApp(t *testing.T, viewer *geo.Coordinate) *App {
	t.Helper()
	dir := t.TempDir()
	return New(Options{
		Viewer: viewer,
		Logger: logging.Discard(),
		Clock:  func() time.Time { return now },
		ResolvePath: func(p string) string {
			return filepath.Join(dir, p)
		},
	})
}

func TestNew_Defaults(t *testing.T) {
	a := newTestApp(t, nil)
	assert.Equal(t, 1000.0, a.Registry.Radius())
	assert.Equal(t, 5*time.Second, a.Fetcher.Timeout())
	assert.Nil(t, a.Viewer())
	assert.Equal(t, now, a.Now())
}

func TestNew_SeedsViewer(t *testing.T) {
	a := newTestApp(t, &chicago)
	require.NotNil(t, a.Viewer())
	assert.Equal(t, chicago, *a.Viewer())

	_, err := a.Registry.AddSpot("Lot A", chicago, now)
	require.NoError(t, err)
	assert.Len(t, a.Bridge.Snapshot(), 1)
}

func TestFromConfig(t *testing.T) {
	lat, lng := 40.7128, -74.0060
	cfg := &config.Config{
		SearchRadiusMeters: 300,
		LocationTimeout:    "2s",
		Latitude:           &lat,
		Longitude:          &lng,
		ExportDir:          "/exports",
	}

	a := FromConfig(cfg, logging.Discard())
	assert.Equal(t, 300.0, a.Registry.Radius())
	assert.Equal(t, 2*time.Second, a.Fetcher.Timeout())
	require.NotNil(t, a.Viewer())
	assert.Equal(t, lat, a.Viewer().Latitude)
	assert.Equal(t, "/exports/spots.yaml", a.resolvePath("spots.yaml"))
}

func TestExportFormat(t *testing.T) {
	tests := map[string]string{
		"spots.geojson": "geojson",
		"spots.JSON":    "geojson",
		"spots.yaml":    "yaml",
		"spots.yml":     "yaml",
		"spots.md":      "markdown",
	}
	for path, want := range tests {
		got, err := ExportFormat(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := ExportFormat("spots.csv")
	assert.Error(t, err)
}

func TestExport_GeoJSON(t *testing.T) {
	a := newTestApp(t, &chicago)
	_, err := a.Registry.AddSpot("Lot A", chicago, now)
	require.NoError(t, err)

	path, err := a.Export("spots.geojson")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, "FeatureCollection", parsed["type"])
	features := parsed["features"].([]interface{})
	assert.Len(t, features, 3, "spot, viewer and radius ring")
}

func TestExport_YAMLAndMarkdown(t *testing.T) {
	a := newTestApp(t, &chicago)
	_, err := a.Registry.AddSpot("Lot A", chicago, now)
	require.NoError(t, err)

	path, err := a.Export("spots.yaml")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Lot A")

	path, err = a.Export("spots.md")
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "| Lot A |")
}

func TestExport_UnsupportedFormatWritesNothing(t *testing.T) {
	a := newTestApp(t, nil)
	_, err := a.Export("spots.txt")
	assert.Error(t, err)
}
