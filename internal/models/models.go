// ABOUTME: Core data model for user-marked parking spots
// ABOUTME: Provides the spot constructor, name validation, and snapshot copies

package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/parkspot/internal/geo"
)

// MaxNameLength is the longest spot name accepted, in bytes, after trimming.
const MaxNameLength = 255

var (
	// ErrEmptyName is returned when a spot name is blank after trimming whitespace.
	ErrEmptyName = errors.New("name cannot be empty or whitespace")

	// ErrNameTooLong is returned when a spot name exceeds MaxNameLength.
	ErrNameTooLong = errors.New("name too long")
)

// ValidateName checks that a name is non-empty after trimming and within length limits.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyName
	}
	if len(trimmed) > MaxNameLength {
		return fmt.Errorf("%w (max %d characters)", ErrNameTooLong, MaxNameLength)
	}
	return nil
}

// ParkingSpot is a named parking location marked by the user.
// Spots are values; every holder has its own copy.
type ParkingSpot struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Location  geo.Coordinate `json:"location" yaml:"location"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
}

// NewSpot creates a spot with a generated ID and the trimmed name.
// It does not validate; callers go through the registry for that.
func NewSpot(name string, loc geo.Coordinate, now time.Time) ParkingSpot {
	return ParkingSpot{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Location:  loc,
		CreatedAt: now,
	}
}

// CloneSpots returns a copy of spots that shares no backing array with the input.
// A nil input yields an empty, non-nil slice.
func CloneSpots(spots []ParkingSpot) []ParkingSpot {
	out := make([]ParkingSpot, len(spots))
	copy(out, spots)
	return out
}
