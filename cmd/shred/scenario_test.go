package main

import (
	"path/filepath"
	"testing"

	"github.com/adeschamps/shred/world"
)

func TestLoadScenario_Pipeline(t *testing.T) {
	sc, err := LoadScenario(filepath.Join("testdata", "pipeline.yaml"))
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if len(sc.Systems) != 5 {
		t.Fatalf("got %d systems, want 5", len(sc.Systems))
	}

	d, err := sc.BuildDispatcher()
	if err != nil {
		t.Fatalf("BuildDispatcher: %v", err)
	}
	defer d.Close()

	stages := d.Stages()
	// ai+logging pack, physics, render; archive is forced past render by
	// its explicit edge despite touching nothing shared.
	if len(stages) != 4 {
		t.Fatalf("got %d stages, want 4:\n%s", len(stages), d)
	}
	if len(stages[0].Systems) != 2 {
		t.Fatalf("stage 0 has %d systems, want ai+logging:\n%s", len(stages[0].Systems), d)
	}

	w := world.New()
	if err := sc.PopulateWorld(w); err != nil {
		t.Fatalf("PopulateWorld: %v", err)
	}
	if err := d.Dispatch(w); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if err := d.DispatchSeq(w); err != nil {
		t.Fatalf("DispatchSeq: %v", err)
	}
}

func TestLoadScenario_Errors(t *testing.T) {
	if _, err := LoadScenario(filepath.Join("testdata", "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	sc := &Scenario{Systems: []ScenarioSystem{
		{Name: "a", Affinity: "gpu"},
	}}
	if _, err := sc.BuildDispatcher(); err == nil {
		t.Fatal("expected error for unknown affinity")
	}
}
