// ABOUTME: Snapshot exports of the spot registry
// ABOUTME: Renders YAML and markdown documents and writes them atomically

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harper/parkspot/internal/geo"
	"github.com/harper/parkspot/internal/models"
	"gopkg.in/yaml.v3"
)

// Version is the current export format version.
const Version = "1.0"

// Tool identifies the producer of an export document.
const Tool = "parkspot"

// Document is the YAML export format.
type Document struct {
	Version      string          `yaml:"version"`
	ExportedAt   time.Time       `yaml:"exported_at"`
	Tool         string          `yaml:"tool"`
	Viewer       *geo.Coordinate `yaml:"viewer,omitempty"`
	RadiusMeters float64         `yaml:"radius_meters"`
	Spots        []SpotRecord    `yaml:"spots"`
}

// SpotRecord is a spot in the export format.
type SpotRecord struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Latitude  float64   `yaml:"latitude"`
	Longitude float64   `yaml:"longitude"`
	CreatedAt time.Time `yaml:"created_at"`
}

// NewDocument builds an export document from a snapshot.
func NewDocument(spots []models.ParkingSpot, viewer *geo.Coordinate, radiusMeters float64, now time.Time) Document {
	doc := Document{
		Version:      Version,
		ExportedAt:   now.UTC(),
		Tool:         Tool,
		RadiusMeters: radiusMeters,
		Spots:        make([]SpotRecord, len(spots)),
	}
	if viewer != nil {
		v := *viewer
		doc.Viewer = &v
	}

	for i, spot := range spots {
		doc.Spots[i] = SpotRecord{
			ID:        spot.ID,
			Name:      spot.Name,
			Latitude:  spot.Location.Latitude,
			Longitude: spot.Location.Longitude,
			CreatedAt: spot.CreatedAt.UTC(),
		}
	}
	return doc
}

// ToYAML renders a snapshot as a YAML document.
func ToYAML(spots []models.ParkingSpot, viewer *geo.Coordinate, radiusMeters float64, now time.Time) ([]byte, error) {
	data, err := yaml.Marshal(NewDocument(spots, viewer, radiusMeters, now))
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return data, nil
}

// ToMarkdown renders a snapshot as a markdown table.
func ToMarkdown(spots []models.ParkingSpot, viewer *geo.Coordinate, radiusMeters float64, now time.Time) []byte {
	var sb strings.Builder

	now = now.UTC()
	sb.WriteString(fmt.Sprintf("# Parking Spots - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))
	if viewer != nil {
		sb.WriteString(fmt.Sprintf("Viewer: %s, radius %.0fm\n\n", viewer.String(), radiusMeters))
	}

	if len(spots) == 0 {
		sb.WriteString("No spots marked.\n")
		return []byte(sb.String())
	}

	sb.WriteString("| Added | Name | Coordinates |\n")
	sb.WriteString("|-------|------|-------------|\n")
	for _, spot := range spots {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
			spot.CreatedAt.UTC().Format("2006-01-02 15:04"),
			strings.ReplaceAll(spot.Name, "|", `\|`),
			spot.Location.String()))
	}

	return []byte(sb.String())
}

// WriteFile writes data to path through a temp file in the same directory
// and a rename, so readers never see a partial file.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
