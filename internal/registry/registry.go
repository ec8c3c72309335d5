// ABOUTME: Authoritative in-memory collection of parking spots
// ABOUTME: Validates adds against the viewer's search radius and publishes snapshots

package registry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/parkspot/internal/geo"
	"github.com/harper/parkspot/internal/logging"
	"github.com/harper/parkspot/internal/models"
)

// DefaultRadiusMeters is the search radius used when none is configured.
const DefaultRadiusMeters = 1000.0

var (
	// ErrEmptyName is returned when a spot name is blank after trimming.
	ErrEmptyName = models.ErrEmptyName

	// ErrOutOfRadius is returned when a spot lies beyond the search radius from the viewer.
	ErrOutOfRadius = errors.New("location is outside the allowed radius")

	// ErrLocationUnknown is returned when a spot is added before the viewer location is known.
	ErrLocationUnknown = errors.New("viewer location unknown")
)

// Publisher receives a snapshot after every change.
type Publisher interface {
	Publish(spots []models.ParkingSpot)
}

// Registry owns the canonical, append-only list of spots.
type Registry struct {
	// publishMu serialises add+notify so notifications never interleave.
	publishMu sync.Mutex

	mu     sync.Mutex
	spots  []models.ParkingSpot
	viewer *geo.Coordinate
	radius float64

	publisher Publisher
	logger    *log.Logger
	newSpot   func(name string, loc geo.Coordinate, now time.Time) models.ParkingSpot
}

// Option configures a Registry.
type Option func(*Registry)

// WithRadius sets the search radius in meters. Non-positive values are ignored.
func WithRadius(meters float64) Option {
	return func(r *Registry) {
		if meters > 0 {
			r.radius = meters
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithSpotFactory replaces spot construction, mainly to make IDs predictable in tests.
func WithSpotFactory(fn func(name string, loc geo.Coordinate, now time.Time) models.ParkingSpot) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newSpot = fn
		}
	}
}

// New creates an empty registry publishing to pub (which may be nil).
func New(pub Publisher, opts ...Option) *Registry {
	r := &Registry{
		spots:     []models.ParkingSpot{},
		radius:    DefaultRadiusMeters,
		publisher: pub,
		newSpot:   models.NewSpot,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.OrDefault(r.logger)
	return r
}

// Radius returns the search radius in meters.
func (r *Registry) Radius() float64 {
	return r.radius
}

// SetViewer records the viewer location that new spots are checked against.
func (r *Registry) SetViewer(c geo.Coordinate) error {
	if err := c.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewer = &c
	return nil
}

// ClearViewer forgets the viewer location; adds fail until it is set again.
func (r *Registry) ClearViewer() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewer = nil
}

// Viewer returns the viewer location and whether it is known.
func (r *Registry) Viewer() (geo.Coordinate, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.viewer == nil {
		return geo.Coordinate{}, false
	}
	return *r.viewer, true
}

// AddSpot validates and appends a new spot, then notifies the publisher
// before returning. Listeners must not call AddSpot themselves.
func (r *Registry) AddSpot(name string, loc geo.Coordinate, now time.Time) (models.ParkingSpot, error) {
	if err := models.ValidateName(name); err != nil {
		r.logger.Debug("spot rejected", "reason", err)
		return models.ParkingSpot{}, err
	}
	if err := loc.Validate(); err != nil {
		r.logger.Debug("spot rejected", "reason", err)
		return models.ParkingSpot{}, err
	}

	r.publishMu.Lock()
	defer r.publishMu.Unlock()

	r.mu.Lock()
	if r.viewer == nil {
		r.mu.Unlock()
		r.logger.Debug("spot rejected", "reason", ErrLocationUnknown)
		return models.ParkingSpot{}, ErrLocationUnknown
	}
	if d := geo.DistanceMeters(*r.viewer, loc); d > r.radius {
		r.mu.Unlock()
		r.logger.Debug("spot rejected", "reason", ErrOutOfRadius, "distance_m", d, "radius_m", r.radius)
		return models.ParkingSpot{}, fmt.Errorf("%w: %.0fm away (max %.0fm)", ErrOutOfRadius, d, r.radius)
	}

	spot := r.newSpot(name, loc, now)
	r.spots = append(r.spots, spot)
	snapshot := models.CloneSpots(r.spots)
	r.mu.Unlock()

	r.logger.Info("spot added", "id", spot.ID, "name", spot.Name, "location", spot.Location.String())

	if r.publisher != nil {
		r.publisher.Publish(snapshot)
	}
	return spot, nil
}

// AllSpots returns a copy of every spot in insertion order.
func (r *Registry) AllSpots() []models.ParkingSpot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.CloneSpots(r.spots)
}

// Len returns the number of spots.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spots)
}
