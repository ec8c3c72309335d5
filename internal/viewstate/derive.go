// ABOUTME: Display projections of the spot registry for a single view
// ABOUTME: Filters, ranks by distance, and formats distance and age labels

package viewstate

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/harper/parkspot/internal/geo"
	"github.com/harper/parkspot/internal/models"
)

// DerivedSpot is a spot as one view displays it. It is never shared between views.
type DerivedSpot struct {
	Spot models.ParkingSpot `json:"spot"`

	// DistanceKm is nil while the viewer location is unknown.
	DistanceKm    *float64 `json:"distance_km,omitempty"`
	DistanceLabel string   `json:"distance_label,omitempty"`
	AgeLabel      string   `json:"age_label"`
}

// Derive projects a snapshot for display: distance from the viewer when
// known, case-insensitive name filter, nearest first with unknown distances
// last, and formatted labels. Ties keep snapshot order.
func Derive(spots []models.ParkingSpot, viewer *geo.Coordinate, query string, now time.Time) []DerivedSpot {
	needle := strings.ToLower(query)
	out := make([]DerivedSpot, 0, len(spots))

	for _, spot := range spots {
		if needle != "" && !strings.Contains(strings.ToLower(spot.Name), needle) {
			continue
		}

		d := DerivedSpot{
			Spot:     spot,
			AgeLabel: FormatAge(now.Sub(spot.CreatedAt)),
		}
		if viewer != nil {
			km := geo.DistanceKilometers(*viewer, spot.Location)
			d.DistanceKm = &km
			d.DistanceLabel = FormatDistance(km)
		}
		out = append(out, d)
	}

	sortByDistance(out)
	return out
}

// sortByDistance orders items nearest first, unknown distances last, stably.
func sortByDistance(items []DerivedSpot) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].DistanceKm, items[j].DistanceKm
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}

// FormatAge renders how long ago something happened.
// Negative ages (clock skew) read as "Just now".
func FormatAge(age time.Duration) string {
	minutes := int(math.Floor(age.Minutes()))
	if minutes < 1 {
		return "Just now"
	}
	if minutes == 1 {
		return "1 minute ago"
	}
	if minutes < 60 {
		return fmt.Sprintf("%d minutes ago", minutes)
	}

	hours := minutes / 60
	if hours == 1 {
		return "1 hour ago"
	}
	if hours < 24 {
		return fmt.Sprintf("%d hours ago", hours)
	}

	days := hours / 24
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}

// FormatDistance renders kilometers as whole meters below 1 km and as
// one-decimal kilometers otherwise.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%dm", int64(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1fkm", km)
}
