// ABOUTME: Tests for derived spot projections
// ABOUTME: Covers filtering, distance ordering, and age and distance labels

package viewstate

import (
	"testing"
	"time"

	"github.com/harper/parkspot/internal/geo"
	"github.com/harper/parkspot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	viewer = geo.Coordinate{Latitude: 0, Longitude: 0}
	now    = time.Date(2024, 12, 14, 15, 0, 0, 0, time.UTC)
)

// eastOf returns a spot km kilometers due east of the origin.
func eastOf(name string, km float64, createdAt time.Time) models.ParkingSpot {
	loc := geo.Destination(viewer, 90, km*1000)
	return models.NewSpot(name, loc, createdAt)
}

func names(items []DerivedSpot) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Spot.Name
	}
	return out
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want string
	}{
		{0, "Just now"},
		{30 * time.Second, "Just now"},
		{-5 * time.Minute, "Just now"},
		{59 * time.Second, "Just now"},
		{60 * time.Second, "1 minute ago"},
		{90 * time.Second, "1 minute ago"},
		{2 * time.Minute, "2 minutes ago"},
		{59*time.Minute + 59*time.Second, "59 minutes ago"},
		{time.Hour, "1 hour ago"},
		{3700 * time.Second, "1 hour ago"},
		{119 * time.Minute, "1 hour ago"},
		{2 * time.Hour, "2 hours ago"},
		{23*time.Hour + 59*time.Minute, "23 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{90000 * time.Second, "1 day ago"},
		{48 * time.Hour, "2 days ago"},
		{10 * 24 * time.Hour, "10 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.age.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAge(tt.age))
		})
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		km   float64
		want string
	}{
		{0, "0m"},
		{0.45, "450m"},
		{0.0004, "0m"},
		{0.0126, "13m"},
		{0.999, "999m"},
		{1, "1.0km"},
		{2.3, "2.3km"},
		{12.345, "12.3km"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDistance(tt.km))
		})
	}
}

func TestDerive_SortsByDistance(t *testing.T) {
	spots := []models.ParkingSpot{
		eastOf("three", 3.0, now),
		eastOf("one", 1.0, now),
		eastOf("two", 2.0, now),
	}

	items := Derive(spots, &viewer, "", now)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"one", "two", "three"}, names(items))

	for i, want := range []float64{1.0, 2.0, 3.0} {
		require.NotNil(t, items[i].DistanceKm)
		assert.InDelta(t, want, *items[i].DistanceKm, 1e-6)
	}
	assert.Equal(t, "2.0km", items[1].DistanceLabel)
}

func TestDerive_UnknownViewerLeavesDistanceNil(t *testing.T) {
	spots := []models.ParkingSpot{eastOf("a", 1, now), eastOf("b", 2, now)}

	items := Derive(spots, nil, "", now)
	require.Len(t, items, 2)
	assert.Equal(t, []string{"a", "b"}, names(items), "insertion order when nothing is known")
	for _, it := range items {
		assert.Nil(t, it.DistanceKm)
		assert.Empty(t, it.DistanceLabel)
	}
}

func TestSortByDistance_UnknownLast(t *testing.T) {
	km := func(v float64) *float64 { return &v }
	items := []DerivedSpot{
		{Spot: models.ParkingSpot{Name: "unknown-1"}},
		{Spot: models.ParkingSpot{Name: "far"}, DistanceKm: km(3)},
		{Spot: models.ParkingSpot{Name: "unknown-2"}},
		{Spot: models.ParkingSpot{Name: "near"}, DistanceKm: km(0.5)},
		{Spot: models.ParkingSpot{Name: "zero"}, DistanceKm: km(0)},
	}

	sortByDistance(items)
	assert.Equal(t, []string{"zero", "near", "far", "unknown-1", "unknown-2"}, names(items))
}

func TestDerive_FilterCaseInsensitive(t *testing.T) {
	spots := []models.ParkingSpot{
		eastOf("Lot A", 0.2, now),
		eastOf("Garage", 0.1, now),
		eastOf("back lot", 0.3, now),
	}

	items := Derive(spots, &viewer, "lot", now)
	assert.Equal(t, []string{"Lot A", "back lot"}, names(items))

	items = Derive(spots, &viewer, "LOT A", now)
	assert.Equal(t, []string{"Lot A"}, names(items))

	items = Derive(spots, &viewer, "", now)
	assert.Len(t, items, 3)

	items = Derive(spots, &viewer, "nowhere", now)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestDerive_AgeLabels(t *testing.T) {
	spots := []models.ParkingSpot{
		eastOf("fresh", 0.1, now.Add(-30*time.Second)),
		eastOf("older", 0.2, now.Add(-90*time.Second)),
		eastOf("hour", 0.3, now.Add(-3700*time.Second)),
		eastOf("day", 0.4, now.Add(-90000*time.Second)),
	}

	items := Derive(spots, &viewer, "", now)
	require.Len(t, items, 4)
	assert.Equal(t, "Just now", items[0].AgeLabel)
	assert.Equal(t, "1 minute ago", items[1].AgeLabel)
	assert.Equal(t, "1 hour ago", items[2].AgeLabel)
	assert.Equal(t, "1 day ago", items[3].AgeLabel)
	assert.Equal(t, "100m", items[0].DistanceLabel)
}

func TestDerive_TiesKeepSnapshotOrder(t *testing.T) {
	spots := []models.ParkingSpot{
		eastOf("first", 0.5, now),
		eastOf("second", 0.5, now),
		eastOf("third", 0.5, now),
	}
	items := Derive(spots, &viewer, "", now)
	assert.Equal(t, []string{"first", "second", "third"}, names(items))
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	spots := []models.ParkingSpot{eastOf("b", 2, now), eastOf("a", 1, now)}
	_ = Derive(spots, &viewer, "", now)
	assert.Equal(t, "b", spots[0].Name)
}
