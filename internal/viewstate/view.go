// ABOUTME: Per-view state that recomputes its projection on every trigger
// ABOUTME: Subscribes to the bridge and discards location results for closed or superseded requests

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
)

var (
	// ErrStale is returned when a location result arrives for a closed view
	// or after a newer location update; the result is dropped.
	ErrStale = errors.New("location result discarded")

	// ErrClosed is returned by operations on a closed view.
	ErrClosed = errors.New("view closed")
)

// Locator fetches the viewer's current position.
type Locator interface {
	Fetch(ctx context.Context) (geo.Coordinate, error)
}

// State is a point-in-time copy of everything a view renders.
type State struct {
	Items   []DerivedSpot
	Query   string
	Viewer  *geo.Coordinate
	Loading bool
	Err     error
}

// View holds one view's derived state. Recomputation happens on registry
// notifications, viewer location changes and query changes.
type View struct {
	mu         sync.Mutex
	now        func() time.Time
	onChange   func([]DerivedSpot)
	snapshot   []models.ParkingSpot
	query      string
	viewer     *geo.Coordinate
	loading    bool
	err        error
	items      []DerivedSpot
	generation uint64
	closed     bool

	unsubscribe func()
}

// Option configures a View.
type Option func(*View)

// WithClock sets the clock used for age labels.
func WithClock(now func() time.Time) Option {
	return func(v *View) {
		if now != nil {
			v.now = now
		}
	}
}

// WithQuery sets the initial search query.
func WithQuery(q string) Option {
	return func(v *View) {
		v.query = q
	}
}

// WithViewer sets the initial viewer location. Invalid coordinates are
// ignored and the view starts with no location.
func WithViewer(c geo.Coordinate) Option {
	return func(v *View) {
		if c.Validate() != nil {
			return
		}
		v.viewer = &c
	}
}

// OnChange registers fn to receive every recomputed list.
func OnChange(fn func([]DerivedSpot)) Option {
	return func(v *View) {
		v.onChange = fn
	}
}

// NewView creates a view subscribed to b and computes its first projection.
func NewView(b *bridge.Bridge, opts ...Option) *View {
	v := &View{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}

	v.mu.Lock()
	v.unsubscribe = b.Subscribe(v.handleUpdate)
	v.snapshot = b.Snapshot()
	v.recomputeLocked()
	v.mu.Unlock()
	return v
}

func (v *View) handleUpdate(snapshot []models.ParkingSpot) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.snapshot = snapshot
	v.recomputeAndEmit()
}

// SetQuery changes the search query and recomputes.
func (v *View) SetQuery(q string) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.query = q
	v.recomputeAndEmit()
}

// SetViewer sets the viewer location directly, superseding any pending
// RefreshLocation, and recomputes.
func (v *View) SetViewer(c geo.Coordinate) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.generation++
	v.viewer = &c
	v.loading = false
	v.err = nil
	v.recomputeAndEmit()
}

// SetError puts the view into the error state for a location update that
// failed elsewhere, superseding any pending RefreshLocation. As with
// RefreshLocation, a permission denial also drops the viewer location.
func (v *View) SetError(err error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.generation++
	v.failLocked(err)
	v.recomputeAndEmit()
}

// RefreshLocation marks the view loading, waits for loc, and applies the
// result. If the view was closed or another location update happened in
// the meantime, the result is dropped and ErrStale returned. On failure the
// error becomes the view's error state and the previous location is kept,
// except after a permission denial, which drops it.
func (v *View) RefreshLocation(ctx context.Context, loc Locator) (geo.Coordinate, error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return geo.Coordinate{}, ErrClosed
	}
	v.generation++
	gen := v.generation
	v.loading = true
	v.mu.Unlock()

	c, err := loc.Fetch(ctx)

	v.mu.Lock()
	if v.closed || v.generation != gen {
		v.mu.Unlock()
		return geo.Coordinate{}, ErrStale
	}
	if err != nil {
		v.failLocked(err)
		v.recomputeAndEmit()
		return geo.Coordinate{}, err
	}
	v.loading = false
	v.viewer = &c
	v.err = nil
	v.recomputeAndEmit()
	return c, nil
}

// Recompute re-derives the projection with the current clock so age labels
// stay fresh, and returns it.
func (v *View) Recompute() []DerivedSpot {
	v.mu.Lock()
	if v.closed {
		items := cloneDerived(v.items)
		v.mu.Unlock()
		return items
	}
	v.recomputeLocked()
	items := cloneDerived(v.items)
	v.mu.Unlock()
	return items
}

// Items returns the latest projection.
func (v *View) Items() []DerivedSpot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return cloneDerived(v.items)
}

// State returns a copy of the view's render state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := State{
		Items:   cloneDerived(v.items),
		Query:   v.query,
		Loading: v.loading,
		Err:     v.err,
	}
	if v.viewer != nil {
		c := *v.viewer
		s.Viewer = &c
	}
	return s
}

// Close unsubscribes from the bridge. Pending location requests are dropped
// when they complete. Close is idempotent.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	unsubscribe := v.unsubscribe
	v.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Closed reports whether Close was called.
func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

func (v *View) failLocked(err error) {
	v.loading = false
	v.err = err
	if errors.Is(err, location.ErrPermissionDenied) {
		v.viewer = nil
	}
}

func (v *View) recomputeLocked() {
	v.items = Derive(v.snapshot, v.viewer, v.query, v.now())
}

// recomputeAndEmit must be called with v.mu held; it releases the lock
// before invoking the change callback.
func (v *View) recomputeAndEmit() {
	v.recomputeLocked()
	fn := v.onChange
	items := cloneDerived(v.items)
	v.mu.Unlock()

	if fn != nil {
		fn(items)
	}
}

func cloneDerived(items []DerivedSpot) []DerivedSpot {
	out := make([]DerivedSpot, len(items))
	copy(out, items)
	return out
}
