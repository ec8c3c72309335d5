// ABOUTME: GeoJSON generation utilities
// ABOUTME: Converts parking spots, the viewer, and the search radius to a FeatureCollection

package geojson

import (
	"encoding/json"
	"time"

	"github.com/harper/parkspot/internal/geo"
	"github.com/harper/parkspot/internal/models"
)

// RingSegments is the number of segments used to approximate the radius circle.
const RingSegments = 64

// FeatureCollection represents a GeoJSON FeatureCollection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	BBox     []float64 `json:"bbox,omitempty"`
	Features []Feature `json:"features"`
}

// Feature represents a GeoJSON Feature.
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// Geometry represents a GeoJSON Geometry.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// PointCoordinates represents [longitude, latitude] for a Point.
type PointCoordinates [2]float64

// PolygonCoordinates represents the linear rings of a Polygon.
type PolygonCoordinates [][]PointCoordinates

func point(c geo.Coordinate) PointCoordinates {
	return PointCoordinates{c.Longitude, c.Latitude}
}

// FromSpots builds a FeatureCollection with one Point per spot. When the
// viewer is known it also carries a "viewer" Point, a Polygon approximating
// the search radius, and a bounding box around that circle.
func FromSpots(spots []models.ParkingSpot, viewer *geo.Coordinate, radiusMeters float64) *FeatureCollection {
	features := make([]Feature, 0, len(spots)+2)

	for _, spot := range spots {
		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: point(spot.Location),
			},
			Properties: map[string]interface{}{
				"kind":       "spot",
				"id":         spot.ID,
				"name":       spot.Name,
				"created_at": spot.CreatedAt.Format(time.RFC3339),
			},
		})
	}

	fc := &FeatureCollection{Type: "FeatureCollection"}

	if viewer != nil {
		features = append(features,
			Feature{
				Type: "Feature",
				Geometry: Geometry{
					Type:        "Point",
					Coordinates: point(*viewer),
				},
				Properties: map[string]interface{}{
					"kind": "viewer",
					"name": "You are here",
				},
			},
			Feature{
				Type: "Feature",
				Geometry: Geometry{
					Type:        "Polygon",
					Coordinates: RadiusRing(*viewer, radiusMeters, RingSegments),
				},
				Properties: map[string]interface{}{
					"kind":          "radius",
					"radius_meters": radiusMeters,
				},
			},
		)

		sw, ne := geo.BoundingBox(*viewer, radiusMeters)
		fc.BBox = []float64{sw.Longitude, sw.Latitude, ne.Longitude, ne.Latitude}
	}

	fc.Features = features
	return fc
}

// RadiusRing approximates a circle as a closed, counter-clockwise ring.
func RadiusRing(center geo.Coordinate, radiusMeters float64, segments int) PolygonCoordinates {
	if segments < 3 {
		segments = 3
	}
	ring := make([]PointCoordinates, 0, segments+1)
	for i := 0; i < segments; i++ {
		// Bearings run clockwise from north, so walk them backwards.
		bearing := 360 - float64(i)*360/float64(segments)
		ring = append(ring, point(geo.Destination(center, bearing, radiusMeters)))
	}
	ring = append(ring, ring[0])
	return PolygonCoordinates{ring}
}

// ToJSON serializes a FeatureCollection to JSON.
func (fc *FeatureCollection) ToJSON() ([]byte, error) {
	return json.Marshal(fc)
}

// ToJSONIndent serializes a FeatureCollection to indented JSON.
func (fc *FeatureCollection) ToJSONIndent() ([]byte, error) {
	return json.MarshalIndent(fc, "", "  ")
}
