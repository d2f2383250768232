package world

import "github.com/adeschamps/shred"

// EventType identifies a resource lifecycle transition.
type EventType uint8

const (
	EventInserted EventType = iota
	EventRemoved
)

// Event describes one resource lifecycle transition.
type Event struct {
	Value any
	ID    shred.ResourceID
	Type  EventType
}

// Observer receives notifications about resource lifecycle events.
// Callbacks run on the goroutine performing the transition and must not
// re-enter the World.
type Observer interface {
	OnResourceEvent(Event)
}
