// ABOUTME: Terminal UI formatting utilities
// ABOUTME: Provides human-readable output for spots, markers, and location state

package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/parkspot/internal/geo"
	"github.com/harper/parkspot/internal/location"
	"github.com/harper/parkspot/internal/models"
	"github.com/harper/parkspot/internal/viewstate"
)

// FormatSpot formats a derived spot for the list view.
func FormatSpot(d viewstate.DerivedSpot) string {
	dist := color.New(color.Faint).Sprint("distance unknown")
	if d.DistanceLabel != "" {
		dist = color.CyanString(d.DistanceLabel)
	}
	return fmt.Sprintf("%s - %s (%s)",
		color.GreenString(d.Spot.Name),
		dist,
		color.New(color.Faint).Sprint(d.AgeLabel))
}

// FormatSpotList formats the list view, one spot per line.
func FormatSpotList(items []viewstate.DerivedSpot, query string) string {
	if len(items) == 0 {
		if query != "" {
			return color.New(color.Faint).Sprintf("No spots match %q.", query)
		}
		return color.New(color.Faint).Sprint("No parking spots marked yet. Use 'add' to mark one.")
	}
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = fmt.Sprintf("%2d. %s", i+1, FormatSpot(it))
	}
	return strings.Join(lines, "\n")
}

// FormatMarker formats a spot as a map marker with its creation time.
func FormatMarker(spot models.ParkingSpot) string {
	return fmt.Sprintf("%s %s %s - %s",
		color.New(color.Faint).Sprint(shortID(spot.ID)),
		color.GreenString(spot.Name),
		color.New(color.Faint).Sprint(spot.Location.String()),
		"Added "+spot.CreatedAt.Format("Jan 2, 3:04 PM"))
}

// FormatViewer formats the viewer marker and the search radius.
func FormatViewer(viewer *geo.Coordinate, radiusMeters float64) string {
	if viewer == nil {
		return color.New(color.Faint).Sprint("You are here: (locating...)")
	}
	return fmt.Sprintf("You are here: %s - search radius %s",
		color.CyanString(viewer.String()),
		viewstate.FormatDistance(radiusMeters/1000))
}

// FormatAdded formats the confirmation for a newly added spot.
func FormatAdded(spot models.ParkingSpot) string {
	return color.GreenString("✓ Added spot %s", spot.Name) +
		fmt.Sprintf("\n  %s @ %s",
			color.New(color.Faint).Sprint(shortID(spot.ID)),
			spot.Location.String())
}

// FormatNotice formats a transient map notice.
func FormatNotice(msg string) string {
	return color.YellowString("! %s", msg)
}

// FormatError formats an error, with friendlier text for location failures.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case errors.Is(err, location.ErrPermissionDenied):
		msg = "Permission to access location was denied"
	case errors.Is(err, location.ErrTimeout):
		msg = "Timed out waiting for your location"
	case errors.Is(err, location.ErrUnavailable):
		msg = "Your location is unavailable"
	}
	return color.RedString("✗ %s", msg)
}

func shortID(id string) string {
	if len(id) > 6 {
		return id[:6]
	}
	return id
}
