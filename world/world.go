package world

import (
	"sync"

	"github.com/adeschamps/shred"
	"github.com/adeschamps/shred/errors"
)

// World exclusively owns a set of resources keyed by ResourceID. Every
// access to a resource goes through a guard issued by the World; the
// per-resource state machine makes conflicting concurrent access a
// detected fault instead of a data race.
//
// A World has no global registry behind it. It is created empty and passed
// explicitly to every dispatch.
type World struct {
	mu       sync.RWMutex
	cells    map[shred.ResourceID]*cell
	defaults map[shred.ResourceID]func() any

	observers []Observer
	obsMu     sync.RWMutex
}

// New creates an empty World.
func New() *World {
	return &World{
		cells:    make(map[shred.ResourceID]*cell),
		defaults: make(map[shred.ResourceID]func() any),
	}
}

// Insert stores value under id, replacing any prior value. Replacement
// requires the slot to be free: outstanding guards make this an
// AccessViolation.
func (w *World) Insert(id shred.ResourceID, value any) error {
	if id.IsZero() {
		return errors.InvalidInput(errors.PhaseInsert, "zero resource id")
	}

	w.mu.Lock()
	c, ok := w.cells[id]
	if !ok {
		w.cells[id] = newCell(id, value)
		w.mu.Unlock()
		w.notify(Event{Type: EventInserted, ID: id, Value: value})
		return nil
	}
	// Replacing needs the slot exclusively, exactly like a write.
	if err := c.acquireExclusive(errors.PhaseInsert); err != nil {
		w.mu.Unlock()
		return err
	}
	c.value = value
	c.releaseExclusive()
	w.mu.Unlock()

	w.notify(Event{Type: EventInserted, ID: id, Value: value})
	return nil
}

// Remove detaches and returns the stored value. Outstanding guards make
// this an AccessViolation; a missing id is NotPresent.
func (w *World) Remove(id shred.ResourceID) (any, error) {
	w.mu.Lock()
	c, ok := w.cells[id]
	if !ok {
		w.mu.Unlock()
		return nil, errors.NotPresent(errors.PhaseRemove, id.String())
	}
	if err := c.acquireExclusive(errors.PhaseRemove); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	value := c.value
	delete(w.cells, id)
	w.mu.Unlock()

	w.notify(Event{Type: EventRemoved, ID: id, Value: value})
	return value, nil
}

// FetchShared returns a shared guard over the resource for id,
// constructing it first if a default was registered. Fails with
// NotPresent for an unknown id and with AccessViolation if an exclusive
// guard is outstanding.
func (w *World) FetchShared(id shred.ResourceID) (*SharedGuard, error) {
	c, err := w.lookup(id)
	if err != nil {
		return nil, err
	}
	if err := c.acquireShared(errors.PhaseFetch); err != nil {
		return nil, err
	}
	return &SharedGuard{c: c}, nil
}

// FetchExclusive returns an exclusive guard over the resource for id,
// constructing it first if a default was registered. Fails with
// NotPresent for an unknown id and with AccessViolation if any guard is
// outstanding.
func (w *World) FetchExclusive(id shred.ResourceID) (*ExclusiveGuard, error) {
	c, err := w.lookup(id)
	if err != nil {
		return nil, err
	}
	if err := c.acquireExclusive(errors.PhaseFetch); err != nil {
		return nil, err
	}
	return &ExclusiveGuard{c: c}, nil
}

// RegisterDefault registers a zero-argument constructor used to build the
// resource lazily on first fetch.
func (w *World) RegisterDefault(id shred.ResourceID, ctor func() any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.defaults[id] = ctor
}

// Contains reports whether id is currently registered.
func (w *World) Contains(id shred.ResourceID) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.cells[id]
	return ok
}

// Len returns the number of registered resources.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.cells)
}

// Each calls fn for every registered resource id until fn returns false.
// Values are deliberately not exposed here; reading one requires a guard.
func (w *World) Each(fn func(shred.ResourceID) bool) {
	w.mu.RLock()
	ids := make([]shred.ResourceID, 0, len(w.cells))
	for id := range w.cells {
		ids = append(ids, id)
	}
	w.mu.RUnlock()

	for _, id := range ids {
		if !fn(id) {
			return
		}
	}
}

// Subscribe adds an observer for resource lifecycle events.
func (w *World) Subscribe(o Observer) {
	w.obsMu.Lock()
	defer w.obsMu.Unlock()
	w.observers = append(w.observers, o)
}

// Unsubscribe removes an observer.
func (w *World) Unsubscribe(o Observer) {
	w.obsMu.Lock()
	defer w.obsMu.Unlock()
	for i, obs := range w.observers {
		if obs == o {
			w.observers = append(w.observers[:i], w.observers[i+1:]...)
			return
		}
	}
}

// lookup finds the cell for id, lazily constructing the resource if a
// default constructor was registered.
func (w *World) lookup(id shred.ResourceID) (*cell, error) {
	w.mu.RLock()
	c, ok := w.cells[id]
	w.mu.RUnlock()
	if ok {
		return c, nil
	}

	w.mu.Lock()
	if c, ok = w.cells[id]; ok {
		w.mu.Unlock()
		return c, nil
	}
	ctor, ok := w.defaults[id]
	if !ok {
		w.mu.Unlock()
		return nil, errors.NotPresent(errors.PhaseFetch, id.String())
	}
	c = newCell(id, ctor())
	w.cells[id] = c
	w.mu.Unlock()

	w.notify(Event{Type: EventInserted, ID: id, Value: c.value})
	return c, nil
}

func (w *World) notify(e Event) {
	w.obsMu.RLock()
	defer w.obsMu.RUnlock()
	for _, o := range w.observers {
		o.OnResourceEvent(e)
	}
}
