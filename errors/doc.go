// Package errors provides structured error types for the shred library.
//
// Errors are categorized by Phase (which operation failed) and Kind (error
// category). The Error type carries the involved resource id, system name
// and stage index where they apply, plus a cause chain.
//
// The taxonomy has three load-bearing kinds:
//
//	KindNotPresent       recoverable; fetch of an unregistered resource
//	KindAccessViolation  programmatic fault; terminal to the dispatch
//	KindSystemFailure    a system faulted; captured at its stage barrier
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseFetch, errors.KindAccessViolation).
//		Resource("world.Clock").
//		Detail("exclusive fetch with 2 shared guards outstanding").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotPresent(errors.PhaseFetch, "world.Clock")
//	err := errors.SystemFailure("physics", 1, cause)
//
// All errors implement the standard error interface and support
// errors.Is/As; the IsNotPresent, IsAccessViolation and IsSystemFailure
// predicates also see through multi-error aggregates.
package errors
