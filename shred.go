package shred

// Version is the library version.
const Version = "1.0.0"

// Affinity controls which thread a system may execute on.
type Affinity int

const (
	// PoolEligible systems may run on any fork-join worker.
	PoolEligible Affinity = iota

	// DispatchThread systems run inline on the goroutine that called
	// Dispatch. They still occupy stage slots by their declared access and
	// the stage barrier waits for them like any pooled task.
	DispatchThread
)

// String returns the string representation of the affinity.
func (a Affinity) String() string {
	switch a {
	case PoolEligible:
		return "pool"
	case DispatchThread:
		return "dispatch-thread"
	default:
		return "unknown"
	}
}

// System is a unit of work executed by the dispatcher. Run receives a View
// restricted to the system's declared Access and may be called from any
// goroutine; the dispatcher guarantees no conflicting system runs
// concurrently.
//
// A returned error aborts the remaining stages of the current dispatch
// after the system's stage barrier resolves.
type System interface {
	Run(v *View) error
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(v *View) error

// Run implements System.
func (f SystemFunc) Run(v *View) error { return f(v) }
