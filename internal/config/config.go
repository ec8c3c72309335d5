// ABOUTME: Parkspot configuration management
// ABOUTME: Loads the JSON config file, .env files, and PARKSPOT_* overrides

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/harper/parkspot/internal/export"
	"github.com/harper/parkspot/internal/geo"
	"github.com/harper/parkspot/internal/location"
	"github.com/harper/parkspot/internal/logging"
	"github.com/harper/parkspot/internal/registry"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvRadius          = "PARKSPOT_RADIUS_METERS"
	EnvLocationTimeout = "PARKSPOT_LOCATION_TIMEOUT"
	EnvLatitude        = "PARKSPOT_LATITUDE"
	EnvLongitude       = "PARKSPOT_LONGITUDE"
	EnvLogLevel        = "PARKSPOT_LOG_LEVEL"
	EnvExportDir       = "PARKSPOT_EXPORT_DIR"
)

var validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}

// Config stores parkspot configuration.
type Config struct {
	// SearchRadiusMeters bounds how far from the viewer a spot may be added.
	SearchRadiusMeters float64 `json:"search_radius_meters,omitempty"`

	// LocationTimeout is a Go duration string such as "5s".
	LocationTimeout string `json:"location_timeout,omitempty"`

	// Latitude and Longitude seed the viewer location when both are set.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	LogLevel string `json:"log_level,omitempty"`

	// ExportDir is where relative export paths land.
	// Supports ~ expansion for home directory. Defaults to the working directory.
	ExportDir string `json:"export_dir,omitempty"`
}

// Default returns the configuration written on first run.
func Default() *Config {
	return &Config{
		SearchRadiusMeters: registry.DefaultRadiusMeters,
		LocationTimeout:    location.DefaultTimeout.String(),
		LogLevel:           logging.DefaultLevel,
	}
}

// GetRadius returns the search radius in meters, defaulting to 1000.
func (c *Config) GetRadius() float64 {
	if c.SearchRadiusMeters <= 0 {
		return registry.DefaultRadiusMeters
	}
	return c.SearchRadiusMeters
}

// GetLocationTimeout returns the location timeout, defaulting to 5s.
func (c *Config) GetLocationTimeout() time.Duration {
	if c.LocationTimeout == "" {
		return location.DefaultTimeout
	}
	d, err := time.ParseDuration(c.LocationTimeout)
	if err != nil || d <= 0 {
		return location.DefaultTimeout
	}
	return d
}

// GetViewer returns the configured viewer location, or nil unless both
// latitude and longitude are set.
func (c *Config) GetViewer() *geo.Coordinate {
	if c.Latitude == nil || c.Longitude == nil {
		return nil
	}
	return &geo.Coordinate{Latitude: *c.Latitude, Longitude: *c.Longitude}
}

// GetLogLevel returns the configured log level, defaulting to "info".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return logging.DefaultLevel
	}
	return strings.ToLower(c.LogLevel)
}

// GetExportDir returns the export directory with ~ expanded.
func (c *Config) GetExportDir() string {
	if c.ExportDir == "" {
		return "."
	}
	return ExpandPath(c.ExportDir)
}

// ResolveExportPath places relative paths under the export directory.
func (c *Config) ResolveExportPath(path string) string {
	path = ExpandPath(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.GetExportDir(), path)
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.SearchRadiusMeters < 0 {
		errs = append(errs, fmt.Errorf("search_radius_meters must not be negative, got %v", c.SearchRadiusMeters))
	}
	if c.LocationTimeout != "" {
		d, err := time.ParseDuration(c.LocationTimeout)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("location_timeout: %w", err))
		case d <= 0:
			errs = append(errs, fmt.Errorf("location_timeout must be positive, got %s", c.LocationTimeout))
		}
	}
	if (c.Latitude == nil) != (c.Longitude == nil) {
		errs = append(errs, errors.New("latitude and longitude must be set together"))
	}
	if v := c.GetViewer(); v != nil {
		if err := v.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if !isValidLogLevel(c.GetLogLevel()) {
		errs = append(errs, fmt.Errorf("log_level must be one of %s, got %q", strings.Join(validLogLevels, ", "), c.LogLevel))
	}

	return errors.Join(errs...)
}

func isValidLogLevel(level string) bool {
	for _, l := range validLogLevels {
		if l == level {
			return true
		}
	}
	return false
}

// ApplyEnv overrides fields from PARKSPOT_* environment variables.
func (c *Config) ApplyEnv() error {
	var errs []error

	if v, ok := os.LookupEnv(EnvRadius); ok && v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvRadius, err))
		} else {
			c.SearchRadiusMeters = r
		}
	}
	if v, ok := os.LookupEnv(EnvLocationTimeout); ok && v != "" {
		c.LocationTimeout = v
	}
	if v, ok := os.LookupEnv(EnvLatitude); ok && v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvLatitude, err))
		} else {
			c.Latitude = &lat
		}
	}
	if v, ok := os.LookupEnv(EnvLongitude); ok && v != "" {
		lng, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvLongitude, err))
		} else {
			c.Longitude = &lng
		}
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvExportDir); ok && v != "" {
		c.ExportDir = v
	}

	return errors.Join(errs...)
}

// LoadDotEnv loads variables from the given .env files, defaulting to
// ./.env. Missing files are ignored and existing variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "parkspot", "config.json")
}

// Load reads the config file, writing the defaults on first run, then
// applies environment overrides and validates the result.
func Load() (*Config, error) {
	cfg, err := readFile()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func readFile() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if saveErr := cfg.Save(); saveErr != nil {
				fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return export.WriteFile(GetConfigPath(), data)
}
