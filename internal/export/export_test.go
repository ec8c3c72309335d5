// ABOUTME: Tests for snapshot exports
// ABOUTME: Covers the YAML and markdown formats and atomic file writes

package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harper/parkspot/internal/geo"
	"github.com/harper/parkspot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var (
	chicago = geo.Coordinate{Latitude: 41.8781, Longitude: -87.6298}
	now     = time.Date(2024, 12, 14, 15, 0, 0, 0, time.UTC)
)

func testSpots() []models.ParkingSpot {
	return []models.ParkingSpot{
		{ID: "11111111-1111-1111-1111-111111111111", Name: "Lot A", Location: chicago, CreatedAt: now.Add(-time.Hour)},
		{ID: "22222222-2222-2222-2222-222222222222", Name: "Garage", Location: geo.Coordinate{Latitude: 41.88, Longitude: -87.63}, CreatedAt: now},
	}
}

func TestToYAML(t *testing.T) {
	data, err := ToYAML(testSpots(), &chicago, 1000, now)
	require.NoError(t, err)

	yamlStr := string(data)
	if !strings.Contains(yamlStr, "version: \"1.0\"") {
		t.Error("missing version header")
	}
	if !strings.Contains(yamlStr, "tool: parkspot") {
		t.Error("missing tool header")
	}
	if !strings.Contains(yamlStr, "exported_at:") {
		t.Error("missing exported_at header")
	}
	if !strings.Contains(yamlStr, "name: Lot A") {
		t.Error("missing spot name")
	}
	if !strings.Contains(yamlStr, "latitude: 41.8781") {
		t.Error("missing latitude")
	}
	if !strings.Contains(yamlStr, "radius_meters: 1000") {
		t.Error("missing radius")
	}
}

func TestToYAML_ParsesBack(t *testing.T) {
	data, err := ToYAML(testSpots(), nil, 1000, now)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, Version, doc.Version)
	assert.Nil(t, doc.Viewer)
	require.Len(t, doc.Spots, 2)
	assert.Equal(t, "Garage", doc.Spots[1].Name)
	assert.True(t, doc.ExportedAt.Equal(now))
}

func TestNewDocument_CopiesViewer(t *testing.T) {
	viewer := chicago
	doc := NewDocument(nil, &viewer, 500, now)
	viewer.Latitude = 0

	require.NotNil(t, doc.Viewer)
	assert.Equal(t, 41.8781, doc.Viewer.Latitude)
	assert.NotNil(t, doc.Spots)
}

func TestToMarkdown(t *testing.T) {
	md := string(ToMarkdown(testSpots(), &chicago, 1000, now))

	assert.Contains(t, md, "# Parking Spots - 2024-12-14")
	assert.Contains(t, md, "| Added | Name | Coordinates |")
	assert.Contains(t, md, "| 2024-12-14 14:00 | Lot A | (41.8781, -87.6298) |")
	assert.Contains(t, md, "radius 1000m")
}

func TestToMarkdown_Empty(t *testing.T) {
	md := string(ToMarkdown(nil, nil, 1000, now))
	assert.Contains(t, md, "No spots marked.")
	assert.NotContains(t, md, "Viewer:")
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "spots.yaml")

	require.NoError(t, WriteFile(path, []byte("first")))
	require.NoError(t, WriteFile(path, []byte("second")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}
