// ABOUTME: Wires one registry, bridge, and location provider into an application
// ABOUTME: Shared by the interactive shell and the MCP server

package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/parkspot/internal/bridge"
	"github.com/harper/parkspot/internal/config"
	"github.com/harper/parkspot/internal/export"
	"github.com/harper/parkspot/internal/geo"
	"github.com/harper/parkspot/internal/geojson"
	"github.com/harper/parkspot/internal/location"
	"github.com/harper/parkspot/internal/logging"
	"github.com/harper/parkspot/internal/registry"
)

// Options configures an App.
type Options struct {
	RadiusMeters float64
	Timeout      time.Duration
	Viewer       *geo.Coordinate
	Logger       *log.Logger
	Clock        func() time.Time

	// ResolvePath maps user-supplied export paths to files. Nil means as-is.
	ResolvePath func(string) string
}

// App holds the shared state of one running parkspot.
type App struct {
	Registry *registry.Registry
	Bridge   *bridge.Bridge
	Location *location.Manual
	Fetcher  *location.Fetcher
	Logger   *log.Logger

	now         func() time.Time
	resolvePath func(string) string
}

// New wires a registry to a fresh bridge and a manual location provider.
func New(opts Options) *App {
	logger := logging.OrDefault(opts.Logger)

	b := bridge.New()
	provider := location.NewManual(opts.Viewer)

	a := &App{
		Bridge:      b,
		Registry:    registry.New(b, registry.WithRadius(opts.RadiusMeters), registry.WithLogger(logger)),
		Location:    provider,
		Fetcher:     location.NewFetcher(provider, opts.Timeout, logger),
		Logger:      logger,
		now:         opts.Clock,
		resolvePath: opts.ResolvePath,
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.resolvePath == nil {
		a.resolvePath = func(p string) string { return p }
	}
	if opts.Viewer != nil {
		if err := a.Registry.SetViewer(*opts.Viewer); err != nil {
			logger.Warn("ignoring configured viewer", "err", err)
		}
	}
	return a
}

// FromConfig builds an App from loaded configuration.
func FromConfig(cfg *config.Config, logger *log.Logger) *App {
	return New(Options{
		RadiusMeters: cfg.GetRadius(),
		Timeout:      cfg.GetLocationTimeout(),
		Viewer:       cfg.GetViewer(),
		Logger:       logger,
		ResolvePath:  cfg.ResolveExportPath,
	})
}

// Now returns the app clock's current time.
func (a *App) Now() time.Time {
	return a.now()
}

// Viewer returns the registry's viewer location, or nil when unknown.
func (a *App) Viewer() *geo.Coordinate {
	c, ok := a.Registry.Viewer()
	if !ok {
		return nil
	}
	return &c
}

// ExportFormat picks an export format from a file extension.
func ExportFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return "geojson", nil
	case ".yaml", ".yml":
		return "yaml", nil
	case ".md", ".markdown":
		return "markdown", nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use .geojson, .yaml or .md)", filepath.Ext(path))
	}
}

// Export writes the current snapshot to path in the format implied by its
// extension and returns the resolved path.
func (a *App) Export(path string) (string, error) {
	format, err := ExportFormat(path)
	if err != nil {
		return "", err
	}

	spots := a.Registry.AllSpots()
	viewer := a.Viewer()
	radius := a.Registry.Radius()

	var data []byte
	switch format {
	case "geojson":
		data, err = geojson.FromSpots(spots, viewer, radius).ToJSONIndent()
	case "yaml":
		data, err = export.ToYAML(spots, viewer, radius, a.now())
	case "markdown":
		data = export.ToMarkdown(spots, viewer, radius, a.now())
	}
	if err != nil {
		return "", fmt.Errorf("render %s: %w", format, err)
	}

	resolved := a.resolvePath(path)
	if err := export.WriteFile(resolved, data); err != nil {
		return "", err
	}
	a.Logger.Info("exported spots", "path", resolved, "format", format, "count", len(spots))
	return resolved, nil
}
