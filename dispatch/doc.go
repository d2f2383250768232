// Package dispatch schedules and runs systems against a world.
//
// A Builder collects systems in declaration order, each with a declared
// resource Access and an optional thread affinity. Build partitions them
// into ordered stages such that no two systems in one stage conflict
// (write/write or write/read on a shared resource), preserving the
// declaration order of every conflicting pair. Within a stage, systems
// run concurrently on a fork-join executor.
//
//	d, err := dispatch.NewBuilder().
//	    Add("ai", aiSystem, aiAccess).
//	    Add("physics", physicsSystem, physicsAccess).
//	    Add("render", renderSystem, renderAccess,
//	        dispatch.WithAffinity(shred.DispatchThread)).
//	    Build()
//
// Dispatch acquires stage-level guards from the World (exclusive for
// resources any system in the stage writes, shared otherwise), runs the
// stage to its barrier, releases the guards, and only then starts the
// next stage. A fault in one system lets its siblings finish, is combined
// with theirs, and aborts the remaining stages.
//
// The plan is fixed at Build. Dispatch may be called repeatedly; only the
// resource contents change between calls.
package dispatch
