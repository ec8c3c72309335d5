// ABOUTME: MCP server initialization and configuration
// ABOUTME: Exposes the spot registry to AI agents over stdio

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/parkspot/internal/app"
	"github.com/harper/parkspot/internal/viewstate"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps an MCP server around one parkspot application.
type Server struct {
	mcp  *mcp.Server
	app  *app.App
	mapv *viewstate.Map
}

// NewServer creates MCP server with all capabilities.
func NewServer(a *app.App) (*Server, error) {
	if a == nil {
		return nil, fmt.Errorf("app is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "parkspot",
			Version: Version,
		},
		nil,
	)

	var opts []viewstate.Option
	opts = append(opts, viewstate.WithClock(a.Now))
	if v := a.Viewer(); v != nil {
		opts = append(opts, viewstate.WithViewer(*v))
	}

	s := &Server{
		mcp:  mcpServer,
		app:  a,
		mapv: viewstate.NewMap(a.Registry, a.Bridge, opts...),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	defer s.mapv.Close()
	s.app.Logger.Info("mcp server starting", "transport", "stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Close releases the server's map view.
func (s *Server) Close() {
	s.mapv.Close()
}

func textResult(output any) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(output, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}
