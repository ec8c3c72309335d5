// ABOUTME: Unit tests for the parking spot model
// ABOUTME: Tests the constructor, name validation, and snapshot copies

package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harper/parkspot/internal/geo"
)

func TestNewSpot(t *testing.T) {
	now := time.Date(2024, 12, 14, 15, 0, 0, 0, time.UTC)
	loc := geo.Coordinate{Latitude: 41.8781, Longitude: -87.6298}

	spot := NewSpot("Lot A", loc, now)

	if spot.Name != "Lot A" {
		t.Errorf("expected name 'Lot A', got '%s'", spot.Name)
	}
	if spot.Location != loc {
		t.Errorf("expected location %v, got %v", loc, spot.Location)
	}
	if !spot.CreatedAt.Equal(now) {
		t.Errorf("expected createdAt %v, got %v", now, spot.CreatedAt)
	}
	if _, err := uuid.Parse(spot.ID); err != nil {
		t.Errorf("expected uuid ID, got %q: %v", spot.ID, err)
	}
}

func TestNewSpot_TrimsName(t *testing.T) {
	spot := NewSpot("  Lot A \t", geo.Coordinate{}, time.Now())
	if spot.Name != "Lot A" {
		t.Errorf("expected trimmed name, got %q", spot.Name)
	}
}

func TestNewSpot_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		spot := NewSpot("spot", geo.Coordinate{}, time.Now())
		if seen[spot.ID] {
			t.Fatalf("duplicate ID %s", spot.ID)
		}
		seen[spot.ID] = true
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid_simple", "Lot A", nil},
		{"valid_padded", "  Lot A  ", nil},
		{"valid_single_char", "a", nil},
		{"invalid_empty", "", ErrEmptyName},
		{"invalid_whitespace_only", "   ", ErrEmptyName},
		{"invalid_tabs_only", "\t\t", ErrEmptyName},
		{"invalid_newlines_only", "\n\n", ErrEmptyName},
		{"valid_max_length", strings.Repeat("a", 255), nil},
		{"valid_max_length_padded", "  " + strings.Repeat("a", 255) + "  ", nil},
		{"invalid_too_long", strings.Repeat("a", 256), ErrNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateName(%q) unexpected error: %v", tt.input, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateName(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName_ErrorMessages(t *testing.T) {
	err := ValidateName("")
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("expected error about empty name, got %v", err)
	}

	err = ValidateName(strings.Repeat("a", 300))
	if err == nil || !strings.Contains(err.Error(), "too long") {
		t.Errorf("expected error about length, got %v", err)
	}
}

func TestCloneSpots_Independent(t *testing.T) {
	original := []ParkingSpot{
		NewSpot("one", geo.Coordinate{}, time.Now()),
		NewSpot("two", geo.Coordinate{}, time.Now()),
	}

	clone := CloneSpots(original)
	clone[0].Name = "changed"

	if original[0].Name != "one" {
		t.Error("mutating the clone changed the original")
	}
	if len(clone) != 2 {
		t.Errorf("expected 2 spots, got %d", len(clone))
	}
}

func TestCloneSpots_NilIsEmpty(t *testing.T) {
	clone := CloneSpots(nil)
	if clone == nil {
		t.Error("expected non-nil slice")
	}
	if len(clone) != 0 {
		t.Errorf("expected empty slice, got %d", len(clone))
	}
}
