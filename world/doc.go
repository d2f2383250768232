// Package world provides the type-erased resource container behind the
// dispatcher.
//
// A World maps resource ids to cells, each owning one boxed value plus a
// Free/Shared/Exclusive access state. Access goes through guards:
//
//	w := world.New()
//	world.Put(w, &Clock{})
//
//	clock, g, err := world.Shared[Clock](w)
//	if err != nil {
//	    return err
//	}
//	defer g.Release()
//
// Any number of shared guards may coexist for one resource; an exclusive
// guard excludes everything else. Requesting a mode the state machine
// forbids is not a wait condition but an AccessViolation, because correct
// stage scheduling makes it impossible; seeing one means something
// bypassed the dispatcher.
//
// # Lifecycle
//
// Resources are inserted explicitly, or lazily on first fetch when a
// constructor was registered with RegisterDefault. Insert and Remove both
// require the slot to be free of guards. Subscribe registers observers
// for insert/remove events.
package world
