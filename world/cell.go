package world

import (
	"sync/atomic"

	"github.com/adeschamps/shred"
	"github.com/adeschamps/shred/errors"
)

// Cell access states. The state field is the arbiter for one resource:
// zero is free, a positive value counts outstanding shared guards, and
// stateExclusive marks a single outstanding exclusive guard.
const (
	stateFree      int32 = 0
	stateExclusive int32 = -1
)

// cell owns one boxed resource value plus its access state. The value is
// only replaced while the cell is held exclusively, so guard holders never
// observe a swap.
type cell struct {
	id    shred.ResourceID
	value any
	state atomic.Int32
}

func newCell(id shred.ResourceID, value any) *cell {
	return &cell{id: id, value: value}
}

// acquireShared transitions Free or Shared(n) to Shared(n+1).
func (c *cell) acquireShared(phase errors.Phase) error {
	for {
		s := c.state.Load()
		if s == stateExclusive {
			return errors.AccessViolation(phase, c.id.String(), "exclusive guard outstanding")
		}
		if c.state.CompareAndSwap(s, s+1) {
			return nil
		}
	}
}

// acquireExclusive transitions Free to Exclusive. Any outstanding guard is
// a scheduling fault, not a wait condition.
func (c *cell) acquireExclusive(phase errors.Phase) error {
	if c.state.CompareAndSwap(stateFree, stateExclusive) {
		return nil
	}
	s := c.state.Load()
	if s == stateExclusive {
		return errors.AccessViolation(phase, c.id.String(), "exclusive guard outstanding")
	}
	return errors.New(phase, errors.KindAccessViolation).
		Resource(c.id.String()).
		Detail("%d shared guards outstanding", s).
		Build()
}

func (c *cell) releaseShared() {
	for {
		s := c.state.Load()
		if s <= 0 {
			// Released more than acquired; the guard layer prevents this.
			return
		}
		if c.state.CompareAndSwap(s, s-1) {
			return
		}
	}
}

func (c *cell) releaseExclusive() {
	c.state.CompareAndSwap(stateExclusive, stateFree)
}

func (c *cell) busy() bool {
	return c.state.Load() != stateFree
}

// SharedGuard is a scoped handle proving read access to one resource.
// Multiple shared guards may coexist; Release is idempotent and must be
// called on every exit path (the dispatcher defers it).
type SharedGuard struct {
	c        *cell
	released atomic.Bool
}

// ID returns the guarded resource's id.
func (g *SharedGuard) ID() shred.ResourceID { return g.c.id }

// Value returns the guarded resource. Must not be called after Release.
func (g *SharedGuard) Value() any { return g.c.value }

// Release returns the guard's share of the cell. Safe to call more than
// once; only the first call transitions the state.
func (g *SharedGuard) Release() {
	if g.released.CompareAndSwap(false, true) {
		g.c.releaseShared()
	}
}

// ExclusiveGuard is a scoped handle proving sole access to one resource.
// While it is outstanding no other guard, shared or exclusive, can exist
// for the same resource.
type ExclusiveGuard struct {
	c        *cell
	released atomic.Bool
}

// ID returns the guarded resource's id.
func (g *ExclusiveGuard) ID() shred.ResourceID { return g.c.id }

// Value returns the guarded resource. Must not be called after Release.
func (g *ExclusiveGuard) Value() any { return g.c.value }

// Set replaces the guarded resource value in place.
func (g *ExclusiveGuard) Set(value any) {
	if !g.released.Load() {
		g.c.value = value
	}
}

// Release frees the cell. Safe to call more than once.
func (g *ExclusiveGuard) Release() {
	if g.released.CompareAndSwap(false, true) {
		g.c.releaseExclusive()
	}
}
