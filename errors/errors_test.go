package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "not present",
			err:  NotPresent(PhaseFetch, "world.Clock"),
			want: "[fetch] not_present: resource world.Clock - resource not registered and no default constructor",
		},
		{
			name: "access violation",
			err:  AccessViolation(PhaseFetch, "world.Clock", "exclusive guard outstanding"),
			want: "[fetch] access_violation: resource world.Clock - exclusive guard outstanding",
		},
		{
			name: "system failure with cause",
			err:  SystemFailure("physics", 1, stderrors.New("solver diverged")),
			want: "[dispatch] system_failure: system physics (stage 1) (caused by: solver diverged)",
		},
		{
			name: "system panic",
			err:  SystemPanic("render", 2, "nil map write"),
			want: "[dispatch] system_failure: system render (stage 2) - panic: nil map write",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_IsMatchesPhaseAndKind(t *testing.T) {
	err := NotPresent(PhaseFetch, "world.Clock")

	if !stderrors.Is(err, &Error{Phase: PhaseFetch, Kind: KindNotPresent}) {
		t.Fatal("expected match on phase+kind")
	}
	if stderrors.Is(err, &Error{Phase: PhaseRemove, Kind: KindNotPresent}) {
		t.Fatal("different phase must not match")
	}
	if stderrors.Is(err, &Error{Phase: PhaseFetch, Kind: KindAccessViolation}) {
		t.Fatal("different kind must not match")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("solver diverged")
	err := SystemFailure("physics", 0, cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("cause must be reachable through Unwrap")
	}

	var e *Error
	if !stderrors.As(err, &e) || e.System != "physics" {
		t.Fatalf("As failed: %v", err)
	}
}

func TestPredicates(t *testing.T) {
	if !IsNotPresent(NotPresent(PhaseFetch, "r")) {
		t.Fatal("IsNotPresent")
	}
	if !IsAccessViolation(AccessViolation(PhaseInsert, "r", "busy")) {
		t.Fatal("IsAccessViolation")
	}
	if !IsSystemFailure(SystemFailure("s", 0, nil)) {
		t.Fatal("IsSystemFailure")
	}
	if IsNotPresent(nil) || IsAccessViolation(stderrors.New("plain")) {
		t.Fatal("predicates must reject unrelated errors")
	}
}

func TestPredicates_SeeThroughWrapping(t *testing.T) {
	violation := AccessViolation(PhaseDispatch, "world.Clock", "undeclared")
	wrapped := SystemFailure("sneaky", 0, violation)

	if !IsSystemFailure(wrapped) {
		t.Fatal("outer kind not seen")
	}
	if !IsAccessViolation(wrapped) {
		t.Fatal("cause kind not seen through the chain")
	}

	// Aggregated sibling faults from one stage barrier.
	combined := stderrors.Join(
		SystemFailure("a", 1, nil),
		SystemFailure("b", 1, violation),
	)
	if !IsSystemFailure(combined) {
		t.Fatal("kind not seen through multi-error")
	}
	if !IsAccessViolation(combined) {
		t.Fatal("nested cause not seen through multi-error")
	}
	if IsNotPresent(combined) {
		t.Fatal("absent kind reported")
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseBuild, KindInvalidInput).
		System("physics").
		Detail("after %q: no such system registered", "ai").
		Build()

	if err.Phase != PhaseBuild || err.Kind != KindInvalidInput {
		t.Fatalf("builder lost phase/kind: %+v", err)
	}
	if !strings.Contains(err.Error(), `after "ai"`) {
		t.Fatalf("detail not formatted: %v", err)
	}
	if err.Stage != -1 {
		t.Fatalf("stage must default to -1, got %d", err.Stage)
	}
}
