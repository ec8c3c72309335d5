// ABOUTME: Editing view that adds spots around the viewer's position
// ABOUTME: Pushes its location into the registry and raises short-lived rejection notices

package viewstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/harper/parkspot/internal/bridge"
	"github.com/harper/parkspot/internal/geo"
	"github.com/harper/parkspot/internal/location"
	"github.com/harper/parkspot/internal/models"
	"github.com/harper/parkspot/internal/registry"
)

// NoticeDuration is how long a rejection notice stays visible.
const NoticeDuration = 3 * time.Second

// Notice is a transient message shown on the map.
type Notice struct {
	Message   string
	ExpiresAt time.Time
}

// Map is the editing view. Its markers are an unfiltered View over the
// same bridge; adds go through the registry, which enforces the radius.
type Map struct {
	reg  *registry.Registry
	view *View
	now  func() time.Time

	mu     sync.Mutex
	notice *Notice
}

// NewMap creates an editing view over reg, subscribed to b, and makes the
// seeded viewer the registry's viewer. WithQuery is ignored; the map always
// shows every spot.
func NewMap(reg *registry.Registry, b *bridge.Bridge, opts ...Option) *Map {
	v := NewView(b, append(opts, WithQuery(""))...)

	m := &Map{reg: reg, view: v, now: v.now}
	if viewer := v.State().Viewer; viewer != nil {
		if err := reg.SetViewer(*viewer); err != nil {
			v.SetError(err)
		}
	}
	return m
}

// View returns the marker view.
func (m *Map) View() *View {
	return m.view
}

// Radius returns the registry's search radius in meters.
func (m *Map) Radius() float64 {
	return m.reg.Radius()
}

// Locate refreshes the map's location and makes it the registry's viewer.
// A permission denial clears the registry viewer so adds stay disabled.
func (m *Map) Locate(ctx context.Context, loc Locator) (geo.Coordinate, error) {
	c, err := m.view.RefreshLocation(ctx, loc)
	if err != nil {
		if errors.Is(err, location.ErrPermissionDenied) {
			m.reg.ClearViewer()
		}
		return geo.Coordinate{}, err
	}
	if err := m.reg.SetViewer(c); err != nil {
		return geo.Coordinate{}, err
	}
	return c, nil
}

// SetViewer sets the map's location directly.
func (m *Map) SetViewer(c geo.Coordinate) error {
	if err := m.reg.SetViewer(c); err != nil {
		return err
	}
	m.view.SetViewer(c)
	return nil
}

// AddSpot adds a spot at loc. An out-of-radius rejection also raises a
// notice that expires after NoticeDuration; any other outcome clears it.
func (m *Map) AddSpot(name string, loc geo.Coordinate) (models.ParkingSpot, error) {
	now := m.now()
	spot, err := m.reg.AddSpot(name, loc, now)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.notice = nil
	if errors.Is(err, registry.ErrOutOfRadius) {
		m.notice = &Notice{
			Message:   "Location is outside the allowed radius",
			ExpiresAt: now.Add(NoticeDuration),
		}
	}
	return spot, err
}

// Notice returns the active notice message at now, or "" once it expired.
func (m *Map) Notice(now time.Time) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.notice == nil {
		return ""
	}
	if !now.Before(m.notice.ExpiresAt) {
		m.notice = nil
		return ""
	}
	return m.notice.Message
}

// Close tears down the marker view.
func (m *Map) Close() {
	m.view.Close()
}
