// ABOUTME: Publish/subscribe bridge between the spot registry and its views
// ABOUTME: Hands out snapshot copies and fans change notifications out to every listener

package bridge

import (
	"sync"

	"github.com/harper/parkspot/internal/models"
)

// Listener receives a snapshot after every registry change.
// The slice belongs to the listener.
type Listener func(snapshot []models.ParkingSpot)

// Bridge decouples registry mutation from registry consumption.
// The registry publishes into it; views read snapshots and subscribe.
type Bridge struct {
	mu        sync.Mutex
	snapshot  []models.ParkingSpot
	listeners map[uint64]Listener
	order     []uint64
	nextID    uint64
}

// New creates an empty bridge.
func New() *Bridge {
	return &Bridge{
		snapshot:  []models.ParkingSpot{},
		listeners: make(map[uint64]Listener),
	}
}

// Snapshot returns a copy of the most recently published registry contents.
func (b *Bridge) Snapshot() []models.ParkingSpot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return models.CloneSpots(b.snapshot)
}

// Publish records spots as the current snapshot and notifies every listener
// synchronously, in subscription order. Each listener gets its own copy.
func (b *Bridge) Publish(spots []models.ParkingSpot) {
	b.mu.Lock()
	b.snapshot = models.CloneSpots(spots)
	current := b.snapshot
	targets := make([]Listener, 0, len(b.order))
	for _, id := range b.order {
		targets = append(targets, b.listeners[id])
	}
	b.mu.Unlock()

	// Listeners run unlocked so they may read the snapshot or unsubscribe.
	for _, l := range targets {
		l(models.CloneSpots(current))
	}
}

// Subscribe registers a listener and returns its unsubscribe func.
// Unsubscribe is idempotent and safe to call from inside a listener.
func (b *Bridge) Subscribe(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = l
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

// Len returns the number of active listeners.
func (b *Bridge) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

func (b *Bridge) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.listeners, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}
