package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which operation the error occurred in
type Phase string

const (
	PhaseFetch    Phase = "fetch"    // guard acquisition from a World
	PhaseInsert   Phase = "insert"   // resource insertion
	PhaseRemove   Phase = "remove"   // resource removal
	PhaseBuild    Phase = "build"    // stage plan construction
	PhaseDispatch Phase = "dispatch" // running a built plan
)

// Kind categorizes the error
type Kind string

const (
	// KindNotPresent is the only recoverable kind: a fetch of an id that is
	// not registered and has no default constructor.
	KindNotPresent Kind = "not_present"

	// KindAccessViolation marks a defensive fault: the access state machine
	// detected an operation that correct scheduling makes impossible. It is
	// terminal to the current dispatch.
	KindAccessViolation Kind = "access_violation"

	// KindSystemFailure marks a fault raised by a system during execution,
	// captured at its stage barrier.
	KindSystemFailure Kind = "system_failure"

	KindTypeMismatch Kind = "type_mismatch"
	KindInvalidInput Kind = "invalid_input"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Resource string // ResourceID rendering, if one is involved
	System   string // offending system name, if one is involved
	Stage    int    // stage index, or -1 when not stage-scoped
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.System != "" {
		b.WriteString(": system ")
		b.WriteString(e.System)
		if e.Stage >= 0 {
			fmt.Fprintf(&b, " (stage %d)", e.Stage)
		}
	}

	if e.Resource != "" {
		if e.System != "" {
			b.WriteString(", resource ")
		} else {
			b.WriteString(": resource ")
		}
		b.WriteString(e.Resource)
	}

	if e.Detail != "" {
		if e.System != "" || e.Resource != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
			Stage: -1,
		},
	}
}

// Resource sets the resource id rendering
func (b *Builder) Resource(id string) *Builder {
	b.err.Resource = id
	return b
}

// System sets the offending system name
func (b *Builder) System(name string) *Builder {
	b.err.System = name
	return b
}

// Stage sets the stage index
func (b *Builder) Stage(index int) *Builder {
	b.err.Stage = index
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NotPresent creates the recoverable missing-resource error
func NotPresent(phase Phase, resource string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindNotPresent,
		Resource: resource,
		Stage:    -1,
		Detail:   "resource not registered and no default constructor",
	}
}

// AccessViolation creates the defensive fault for an operation the access
// state machine forbids
func AccessViolation(phase Phase, resource, detail string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindAccessViolation,
		Resource: resource,
		Stage:    -1,
		Detail:   detail,
	}
}

// SystemFailure wraps a fault raised by a system during execution
func SystemFailure(system string, stage int, cause error) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindSystemFailure,
		System: system,
		Stage:  stage,
		Cause:  cause,
	}
}

// SystemPanic wraps a recovered panic raised by a system during execution
func SystemPanic(system string, stage int, recovered any) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindSystemFailure,
		System: system,
		Stage:  stage,
		Detail: fmt.Sprintf("panic: %v", recovered),
	}
}

// TypeMismatch creates a type mismatch error for a typed retrieval whose
// stored value has a different dynamic type
func TypeMismatch(phase Phase, resource string, value any) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Resource: resource,
		Stage:    -1,
		Detail:   fmt.Sprintf("stored value has type %T", value),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Stage:  -1,
		Detail: detail,
	}
}

// Predicates for the error taxonomy

// IsNotPresent reports whether err is a missing-resource error
func IsNotPresent(err error) bool {
	return isKind(err, KindNotPresent)
}

// IsAccessViolation reports whether err is an access-state fault
func IsAccessViolation(err error) bool {
	return isKind(err, KindAccessViolation)
}

// IsSystemFailure reports whether err wraps a system fault
func IsSystemFailure(err error) bool {
	return isKind(err, KindSystemFailure)
}

// isKind walks wrapped errors, including multi-error aggregates, looking
// for a *Error of the given kind.
func isKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*Error); ok {
		if e.Kind == kind {
			return true
		}
		return isKind(e.Cause, kind)
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if isKind(inner, kind) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return isKind(u.Unwrap(), kind)
	}
	return false
}
