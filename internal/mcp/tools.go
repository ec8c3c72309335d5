// ABOUTME: MCP tool definitions and handlers
// ABOUTME: Lets AI agents set the viewer location, mark spots, and query them

package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harper/parkspot/internal/geo"
	"github.com/harper/parkspot/internal/registry"
	"github.com/harper/parkspot/internal/viewstate"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.registerSetLocationTool()
	s.registerAddSpotTool()
	s.registerListSpotsTool()
	s.registerMeasureDistanceTool()
	s.registerExportSpotsTool()
}

func coordinateSchema(what string) map[string]interface{} {
	return map[string]interface{}{
		"latitude": map[string]interface{}{
			"type":        "number",
			"description": what + " latitude (-90 to 90)",
		},
		"longitude": map[string]interface{}{
			"type":        "number",
			"description": what + " longitude (-180 to 180)",
		},
	}
}

// SetLocationInput defines input for set_location tool.
type SetLocationInput struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationOutput defines output for set_location tool.
type LocationOutput struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

func (s *Server) registerSetLocationTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_location",
		Description: "Set where the user currently is. Spots can only be added within the search radius of this location.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": coordinateSchema("Current"),
			"required":   []string{"latitude", "longitude"},
		},
	}, s.handleSetLocation)
}

func (s *Server) handleSetLocation(ctx context.Context, _ *mcp.CallToolRequest, input SetLocationInput) (*mcp.CallToolResult, LocationOutput, error) {
	c := geo.Coordinate{Latitude: input.Latitude, Longitude: input.Longitude}
	if err := s.app.Location.Set(c); err != nil {
		return nil, LocationOutput{}, err
	}

	located, err := s.mapv.Locate(ctx, s.app.Fetcher)
	if err != nil {
		return nil, LocationOutput{}, fmt.Errorf("failed to update location: %w", err)
	}

	output := LocationOutput{
		Latitude:     located.Latitude,
		Longitude:    located.Longitude,
		RadiusMeters: s.mapv.Radius(),
	}
	return textResult(output), output, nil
}

// AddSpotInput defines input for add_spot tool.
type AddSpotInput struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SpotOutput defines output for spot tools.
type SpotOutput struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	CreatedAt     time.Time `json:"created_at"`
	DistanceKm    *float64  `json:"distance_km,omitempty"`
	DistanceLabel string    `json:"distance_label,omitempty"`
	AgeLabel      string    `json:"age_label,omitempty"`
}

func (s *Server) registerAddSpotTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_spot",
		Description: "Mark a parking spot. Requires a location set with set_location, and the spot must lie within the search radius of it.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": mergeProps(
				map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Name of the spot (e.g., 'Lot A', 'garage level 3')",
					},
				},
				coordinateSchema("Spot"),
			),
			"required": []string{"name", "latitude", "longitude"},
		},
	}, s.handleAddSpot)
}

func (s *Server) handleAddSpot(_ context.Context, _ *mcp.CallToolRequest, input AddSpotInput) (*mcp.CallToolResult, SpotOutput, error) {
	loc := geo.Coordinate{Latitude: input.Latitude, Longitude: input.Longitude}

	spot, err := s.mapv.AddSpot(input.Name, loc)
	if err != nil {
		if errors.Is(err, registry.ErrLocationUnknown) {
			return nil, SpotOutput{}, fmt.Errorf("%w: call set_location first", err)
		}
		return nil, SpotOutput{}, err
	}

	output := SpotOutput{
		ID:        spot.ID,
		Name:      spot.Name,
		Latitude:  spot.Location.Latitude,
		Longitude: spot.Location.Longitude,
		CreatedAt: spot.CreatedAt,
	}
	return textResult(output), output, nil
}

// ListSpotsInput defines input for list_spots tool.
type ListSpotsInput struct {
	Query string `json:"query,omitempty"`
}

// ListSpotsOutput defines output for list_spots tool.
type ListSpotsOutput struct {
	Spots        []SpotOutput    `json:"spots"`
	Count        int             `json:"count"`
	Query        string          `json:"query,omitempty"`
	Viewer       *geo.Coordinate `json:"viewer,omitempty"`
	RadiusMeters float64         `json:"radius_meters"`
}

func (s *Server) registerListSpotsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_spots",
		Description: "List marked parking spots, nearest to the current location first. Optionally filter by name.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Optional case-insensitive name filter",
				},
			},
		},
	}, s.handleListSpots)
}

func (s *Server) handleListSpots(_ context.Context, _ *mcp.CallToolRequest, input ListSpotsInput) (*mcp.CallToolResult, ListSpotsOutput, error) {
	viewer := s.app.Viewer()
	items := viewstate.Derive(s.app.Bridge.Snapshot(), viewer, input.Query, s.app.Now())

	output := ListSpotsOutput{
		Spots:        toSpotOutputs(items),
		Count:        len(items),
		Query:        input.Query,
		Viewer:       viewer,
		RadiusMeters: s.app.Registry.Radius(),
	}
	return textResult(output), output, nil
}

func toSpotOutputs(items []viewstate.DerivedSpot) []SpotOutput {
	out := make([]SpotOutput, len(items))
	for i, it := range items {
		out[i] = SpotOutput{
			ID:            it.Spot.ID,
			Name:          it.Spot.Name,
			Latitude:      it.Spot.Location.Latitude,
			Longitude:     it.Spot.Location.Longitude,
			CreatedAt:     it.Spot.CreatedAt,
			DistanceKm:    it.DistanceKm,
			DistanceLabel: it.DistanceLabel,
			AgeLabel:      it.AgeLabel,
		}
	}
	return out
}

// MeasureDistanceInput defines input for measure_distance tool.
type MeasureDistanceInput struct {
	FromLatitude  float64 `json:"from_latitude"`
	FromLongitude float64 `json:"from_longitude"`
	ToLatitude    float64 `json:"to_latitude"`
	ToLongitude   float64 `json:"to_longitude"`
}

// DistanceOutput defines output for measure_distance tool.
type DistanceOutput struct {
	Meters       float64 `json:"meters"`
	Kilometers   float64 `json:"kilometers"`
	Label        string  `json:"label"`
	WithinRadius bool    `json:"within_radius"`
	RadiusMeters float64 `json:"radius_meters"`
}

func (s *Server) registerMeasureDistanceTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "measure_distance",
		Description: "Great-circle distance between two points, and whether it falls within the search radius.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"from_latitude":  map[string]interface{}{"type": "number", "description": "Start latitude"},
				"from_longitude": map[string]interface{}{"type": "number", "description": "Start longitude"},
				"to_latitude":    map[string]interface{}{"type": "number", "description": "End latitude"},
				"to_longitude":   map[string]interface{}{"type": "number", "description": "End longitude"},
			},
			"required": []string{"from_latitude", "from_longitude", "to_latitude", "to_longitude"},
		},
	}, s.handleMeasureDistance)
}

func (s *Server) handleMeasureDistance(_ context.Context, _ *mcp.CallToolRequest, input MeasureDistanceInput) (*mcp.CallToolResult, DistanceOutput, error) {
	from := geo.Coordinate{Latitude: input.FromLatitude, Longitude: input.FromLongitude}
	to := geo.Coordinate{Latitude: input.ToLatitude, Longitude: input.ToLongitude}
	if err := from.Validate(); err != nil {
		return nil, DistanceOutput{}, fmt.Errorf("from: %w", err)
	}
	if err := to.Validate(); err != nil {
		return nil, DistanceOutput{}, fmt.Errorf("to: %w", err)
	}

	radius := s.app.Registry.Radius()
	km := geo.DistanceKilometers(from, to)
	output := DistanceOutput{
		Meters:       geo.DistanceMeters(from, to),
		Kilometers:   km,
		Label:        viewstate.FormatDistance(km),
		WithinRadius: geo.IsWithinRadius(from, to, radius),
		RadiusMeters: radius,
	}
	return textResult(output), output, nil
}

// ExportSpotsInput defines input for export_spots tool.
type ExportSpotsInput struct {
	Path string `json:"path"`
}

// ExportSpotsOutput defines output for export_spots tool.
type ExportSpotsOutput struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

func (s *Server) registerExportSpotsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "export_spots",
		Description: "Write every spot to a file. The extension picks the format: .geojson, .yaml or .md.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Output file; relative paths land in the configured export directory",
				},
			},
			"required": []string{"path"},
		},
	}, s.handleExportSpots)
}

func (s *Server) handleExportSpots(_ context.Context, _ *mcp.CallToolRequest, input ExportSpotsInput) (*mcp.CallToolResult, ExportSpotsOutput, error) {
	path, err := s.app.Export(input.Path)
	if err != nil {
		return nil, ExportSpotsOutput{}, fmt.Errorf("failed to export: %w", err)
	}

	output := ExportSpotsOutput{Path: path, Count: s.app.Registry.Len()}
	return textResult(output), output, nil
}

func mergeProps(maps ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
