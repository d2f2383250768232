package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/adeschamps/shred"
	"github.com/adeschamps/shred/dispatch"
	"github.com/adeschamps/shred/world"
)

// Scenario is a YAML description of a system set, used to inspect the
// schedule the dispatcher would build for it.
//
//	systems:
//	  - name: ai
//	    reads: [ai-state]
//	    writes: [velocity]
//	    affinity: pool      # or: main
//	    after: [input]
type Scenario struct {
	Systems []ScenarioSystem `yaml:"systems"`
}

// ScenarioSystem is one system declaration in a scenario file.
type ScenarioSystem struct {
	Name     string   `yaml:"name"`
	Reads    []string `yaml:"reads"`
	Writes   []string `yaml:"writes"`
	Affinity string   `yaml:"affinity"`
	After    []string `yaml:"after"`
}

// scenarioResource is the placeholder resource type scenario entries are
// keyed under; identity comes from the resource name alone.
type scenarioResource struct{}

func resourceID(name string) shred.ResourceID {
	return shred.NamedID[scenarioResource](name)
}

// LoadScenario reads and parses a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(sc.Systems) == 0 {
		return nil, fmt.Errorf("scenario declares no systems")
	}
	return &sc, nil
}

// BuildDispatcher registers the scenario's systems, in file order, with
// no-op bodies and returns the built dispatcher.
func (sc *Scenario) BuildDispatcher(opts ...func(*dispatch.Builder)) (*dispatch.Dispatcher, error) {
	b := dispatch.NewBuilder()
	for _, opt := range opts {
		opt(b)
	}

	for _, s := range sc.Systems {
		access := shred.NewAccess(idsOf(s.Reads), idsOf(s.Writes))

		var sysOpts []dispatch.SystemOption
		switch s.Affinity {
		case "", "pool":
		case "main":
			sysOpts = append(sysOpts, dispatch.WithAffinity(shred.DispatchThread))
		default:
			return nil, fmt.Errorf("system %q: unknown affinity %q", s.Name, s.Affinity)
		}
		if len(s.After) > 0 {
			sysOpts = append(sysOpts, dispatch.After(s.After...))
		}

		b.Add(s.Name, shred.SystemFunc(func(*shred.View) error { return nil }),
			access, sysOpts...)
	}
	return b.Build()
}

// PopulateWorld inserts a placeholder resource for every name the
// scenario references, so the plan can actually be dispatched.
func (sc *Scenario) PopulateWorld(w *world.World) error {
	seen := map[string]bool{}
	for _, s := range sc.Systems {
		for _, name := range append(append([]string{}, s.Reads...), s.Writes...) {
			if seen[name] {
				continue
			}
			seen[name] = true
			if err := w.Insert(resourceID(name), &scenarioResource{}); err != nil {
				return err
			}
		}
	}
	return nil
}

func idsOf(names []string) []shred.ResourceID {
	ids := make([]shred.ResourceID, 0, len(names))
	for _, name := range names {
		ids = append(ids, resourceID(name))
	}
	return ids
}
