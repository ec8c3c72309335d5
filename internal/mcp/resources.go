// ABOUTME: MCP resource definitions
// ABOUTME: Provides a read-only snapshot of marked spots for AI agents

package mcp

import (
	"context"
	"encoding/json"

	"github.com/harper/parkspot/internal/viewstate"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SpotsResourceURI addresses the current spot snapshot.
const SpotsResourceURI = "parkspot://spots"

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        SpotsResourceURI,
		Description: "Every marked parking spot, nearest to the viewer first",
		URI:         SpotsResourceURI,
		MIMEType:    "application/json",
	}, s.handleSpotsResource)
}

func (s *Server) handleSpotsResource(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	viewer := s.app.Viewer()
	items := viewstate.Derive(s.app.Bridge.Snapshot(), viewer, "", s.app.Now())

	output := ListSpotsOutput{
		Spots:        toSpotOutputs(items),
		Count:        len(items),
		Viewer:       viewer,
		RadiusMeters: s.app.Registry.Radius(),
	}

	jsonBytes, _ := json.MarshalIndent(output, "", "  ") //nolint:errchkjson // output is always serializable

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      SpotsResourceURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		},
	}, nil
}
