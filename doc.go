// Package shred provides a resource-oriented parallel work dispatcher.
//
// A World owns a set of typed resources behind runtime access arbitration,
// and a Dispatcher runs a fixed collection of systems against that World,
// in parallel wherever their declared resource accesses cannot conflict.
// Conflicting concurrent access is a detected fault, never a silent race.
//
// # Architecture Overview
//
// The library is organized into focused packages:
//
//	shred/           Root package: resource identity, access declarations,
//	                 the System interface and per-system resource views
//	├── world/       Type-erased resource container with shared/exclusive
//	                 guard arbitration
//	├── dispatch/    Conflict-aware stage scheduling and dispatching
//	├── pool/        Default fork-join worker pool
//	├── errors/      Structured error types
//	└── cmd/shred/   Schedule inspector CLI
//
// # Quick Start
//
// Declare resources and systems, build a dispatcher, run it every tick:
//
//	w := world.New()
//	world.Put(w, &Position{})
//	world.Put(w, &Velocity{})
//
//	d, err := dispatch.NewBuilder().
//	    Add("physics", physicsSystem, shred.NewAccessBuilder().
//	        Reads(shred.ID[Velocity]()).
//	        Writes(shred.ID[Position]()).
//	        Build()).
//	    Add("render", renderSystem, shred.NewAccessBuilder().
//	        Reads(shred.ID[Position]()).
//	        Build()).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for range ticker.C {
//	    if err := d.Dispatch(w); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// Systems declared earlier keep their relative order whenever they conflict
// with later systems; systems that cannot conflict share a stage and run in
// parallel. The schedule is computed once at Build and reused by every
// Dispatch call.
//
// # Resource Identity
//
// Resources are identified by their Go type, optionally disambiguated by
// name so several instances of one type can coexist:
//
//	shred.ID[Terrain]()               // the Terrain resource
//	shred.NamedID[Terrain]("backup")  // a second, distinct Terrain
//
// # Access Safety
//
// Within a running system, resources are reached through a View restricted
// to the system's declared access. Reading an undeclared resource, or
// mutating one declared read-only, fails with an access violation rather
// than racing.
package shred
