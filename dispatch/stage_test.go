package dispatch

import (
	stderrors "errors"
	"testing"

	"github.com/adeschamps/shred"
	"github.com/adeschamps/shred/errors"
)

type aiState struct{ Mood int }
type velocity struct{ X, Y float64 }
type position struct{ X, Y float64 }
type frame struct{ Rendered int }

func noop(*shred.View) error { return nil }

func reads(ids ...shred.ResourceID) shred.Access {
	return shred.NewAccess(ids, nil)
}

func writes(ids ...shred.ResourceID) shred.Access {
	return shred.NewAccess(nil, ids)
}

// stageIndexOf locates a system by name in a built plan.
func stageIndexOf(t *testing.T, stages []StageInfo, name string) int {
	t.Helper()
	for i, st := range stages {
		for _, s := range st.Systems {
			if s.Name == name {
				return i
			}
		}
	}
	t.Fatalf("system %q not in plan", name)
	return -1
}

func TestBuild_ScenarioPipeline(t *testing.T) {
	ai := shred.NewAccessBuilder().
		Writes(shred.ID[velocity]()).
		Reads(shred.ID[aiState]()).
		Build()
	physics := shred.NewAccessBuilder().
		Reads(shred.ID[velocity]()).
		Writes(shred.ID[position]()).
		Build()
	render := reads(shred.ID[position]())

	d, err := NewBuilder().
		Add("ai", shred.SystemFunc(noop), ai).
		Add("physics", shred.SystemFunc(noop), physics).
		Add("render", shred.SystemFunc(noop), render).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer d.Close()

	stages := d.Stages()
	if len(stages) != 3 {
		t.Fatalf("got %d stages, want 3:\n%s", len(stages), d)
	}
	for i, name := range []string{"ai", "physics", "render"} {
		if got := stageIndexOf(t, stages, name); got != i {
			t.Fatalf("%s in stage %d, want %d", name, got, i)
		}
	}
}

func TestBuild_ReadOnlySystemPacksAlongside(t *testing.T) {
	// Same pipeline, plus a logger declared right after ai that only reads
	// aiState. It shares no conflict with ai and must pack into stage 0.
	d, err := NewBuilder().
		Add("ai", shred.SystemFunc(noop), shred.NewAccessBuilder().
			Writes(shred.ID[velocity]()).
			Reads(shred.ID[aiState]()).
			Build()).
		Add("logging", shred.SystemFunc(noop), reads(shred.ID[aiState]())).
		Add("physics", shred.SystemFunc(noop), shred.NewAccessBuilder().
			Reads(shred.ID[velocity]()).
			Writes(shred.ID[position]()).
			Build()).
		Add("render", shred.SystemFunc(noop), reads(shred.ID[position]())).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer d.Close()

	stages := d.Stages()
	if len(stages) != 3 {
		t.Fatalf("got %d stages, want 3:\n%s", len(stages), d)
	}
	if got := stageIndexOf(t, stages, "logging"); got != 0 {
		t.Fatalf("logging in stage %d, want 0 alongside ai", got)
	}
}

func TestBuild_DisjointSystemsPackIntoOneStage(t *testing.T) {
	b := NewBuilder()
	names := []string{"n0", "n1", "n2", "n3", "n4"}
	for i, name := range names {
		b.Add(name, shred.SystemFunc(noop),
			writes(shred.NamedID[position](names[i])))
	}
	d, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer d.Close()

	if got := len(d.Stages()); got != 1 {
		t.Fatalf("pairwise disjoint systems built %d stages, want 1:\n%s", got, d)
	}
}

func TestBuild_SafetyAndOrderPreservation(t *testing.T) {
	vel := shred.ID[velocity]()
	pos := shred.ID[position]()
	st := shred.ID[aiState]()

	sys := []struct {
		name   string
		access shred.Access
	}{
		{"a", writes(vel)},
		{"b", reads(vel)},
		{"c", shred.NewAccessBuilder().Reads(vel).Writes(pos).Build()},
		{"d", reads(st)},
		{"e", writes(st)},
		{"f", shred.NewAccessBuilder().Reads(pos, st).Build()},
	}

	b := NewBuilder()
	for _, s := range sys {
		b.Add(s.name, shred.SystemFunc(noop), s.access)
	}
	d, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer d.Close()
	stages := d.Stages()

	for i := 0; i < len(sys); i++ {
		for j := i + 1; j < len(sys); j++ {
			if !sys[i].access.ConflictsWith(sys[j].access) {
				continue
			}
			si := stageIndexOf(t, stages, sys[i].name)
			sj := stageIndexOf(t, stages, sys[j].name)
			if si == sj {
				t.Fatalf("conflicting systems %s and %s share stage %d:\n%s",
					sys[i].name, sys[j].name, si, d)
			}
			if si > sj {
				t.Fatalf("declaration order violated: %s (stage %d) declared before %s (stage %d):\n%s",
					sys[i].name, si, sys[j].name, sj, d)
			}
		}
	}
}

func TestBuild_AfterForcesLaterStage(t *testing.T) {
	d, err := NewBuilder().
		Add("produce", shred.SystemFunc(noop), writes(shred.ID[velocity]())).
		Add("archive", shred.SystemFunc(noop), writes(shred.ID[frame]()),
			After("produce")).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer d.Close()

	stages := d.Stages()
	// Disjoint accesses would pack; the explicit edge must keep them apart.
	if len(stages) != 2 {
		t.Fatalf("got %d stages, want 2:\n%s", len(stages), d)
	}
	if stageIndexOf(t, stages, "archive") <= stageIndexOf(t, stages, "produce") {
		t.Fatalf("after edge ignored:\n%s", d)
	}
}

func TestBuild_RegistrationErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*Dispatcher, error)
	}{
		{
			name: "unknown after target",
			build: func() (*Dispatcher, error) {
				return NewBuilder().
					Add("a", shred.SystemFunc(noop), shred.Access{}, After("missing")).
					Build()
			},
		},
		{
			name: "duplicate name",
			build: func() (*Dispatcher, error) {
				return NewBuilder().
					Add("a", shred.SystemFunc(noop), shred.Access{}).
					Add("a", shred.SystemFunc(noop), shred.Access{}).
					Build()
			},
		},
		{
			name: "empty name",
			build: func() (*Dispatcher, error) {
				return NewBuilder().
					Add("", shred.SystemFunc(noop), shred.Access{}).
					Build()
			},
		},
		{
			name: "nil system",
			build: func() (*Dispatcher, error) {
				return NewBuilder().
					Add("a", nil, shred.Access{}).
					Build()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.build()
			if err == nil {
				d.Close()
				t.Fatal("expected registration error")
			}
			target := &errors.Error{Phase: errors.PhaseBuild, Kind: errors.KindInvalidInput}
			if !stderrors.Is(err, target) {
				t.Fatalf("got %v, want build invalid_input", err)
			}
		})
	}
}

func TestBuild_PlanDeterminism(t *testing.T) {
	build := func() *Dispatcher {
		d, err := NewBuilder().
			Add("ai", shred.SystemFunc(noop), shred.NewAccessBuilder().
				Writes(shred.ID[velocity]()).
				Reads(shred.ID[aiState]()).
				Build()).
			Add("physics", shred.SystemFunc(noop), shred.NewAccessBuilder().
				Reads(shred.ID[velocity]()).
				Writes(shred.ID[position]()).
				Build()).
			Add("render", shred.SystemFunc(noop), reads(shred.ID[position]())).
			Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		return d
	}

	d1 := build()
	defer d1.Close()
	d2 := build()
	defer d2.Close()

	if d1.String() != d2.String() {
		t.Fatalf("same registration produced different plans:\n%s\n---\n%s", d1, d2)
	}
	// The plan of one dispatcher is immutable.
	if before, after := d1.String(), d1.String(); before != after {
		t.Fatal("plan changed between reads")
	}
}
