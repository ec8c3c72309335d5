// ABOUTME: Location provider contract and bundled providers
// ABOUTME: Static and manually-set providers stand in for a device's positioning service

package location

import (
	"context"
	"errors"
	"sync"

	"github.com/harper/parkspot/internal/geo"
)

var (
	// ErrPermissionDenied is returned when the user refused location access.
	ErrPermissionDenied = errors.New("permission to access location was denied")

	// ErrUnavailable is returned when no position can be determined.
	ErrUnavailable = errors.New("location unavailable")

	// ErrTimeout is returned when the provider did not answer in time.
	ErrTimeout = errors.New("location request timed out")
)

// Permission is the outcome of a permission request.
type Permission int

const (
	Denied Permission = iota
	Granted
)

func (p Permission) String() string {
	if p == Granted {
		return "granted"
	}
	return "denied"
}

// Provider reports the viewer's current position.
type Provider interface {
	RequestPermission(ctx context.Context) (Permission, error)
	CurrentLocation(ctx context.Context) (geo.Coordinate, error)
}

// Static always grants permission and reports the same coordinate.
type Static struct {
	Coordinate geo.Coordinate
}

// RequestPermission always grants.
func (s Static) RequestPermission(context.Context) (Permission, error) {
	return Granted, nil
}

// CurrentLocation returns the fixed coordinate.
func (s Static) CurrentLocation(ctx context.Context) (geo.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return geo.Coordinate{}, err
	}
	return s.Coordinate, nil
}

// Manual is a provider whose position and permission are set at runtime,
// e.g. from the interactive shell or an MCP tool call. The zero value has
// permission granted and no position.
type Manual struct {
	mu     sync.Mutex
	coord  *geo.Coordinate
	denied bool
}

// NewManual returns a Manual provider, optionally seeded with a position.
func NewManual(initial *geo.Coordinate) *Manual {
	m := &Manual{}
	if initial != nil {
		c := *initial
		m.coord = &c
	}
	return m
}

// Set records a new position and re-grants permission.
func (m *Manual) Set(c geo.Coordinate) error {
	if err := c.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coord = &c
	m.denied = false
	return nil
}

// Deny makes subsequent permission requests fail.
func (m *Manual) Deny() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.denied = true
}

// RequestPermission grants unless Deny was called.
func (m *Manual) RequestPermission(context.Context) (Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.denied {
		return Denied, nil
	}
	return Granted, nil
}

// CurrentLocation returns the last position set.
func (m *Manual) CurrentLocation(ctx context.Context) (geo.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return geo.Coordinate{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.denied {
		return geo.Coordinate{}, ErrPermissionDenied
	}
	if m.coord == nil {
		return geo.Coordinate{}, ErrUnavailable
	}
	return *m.coord, nil
}
