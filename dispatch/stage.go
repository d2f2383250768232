package dispatch

import (
	"fmt"
	"strings"

	"github.com/adeschamps/shred"
)

// placed is one registered system with its scheduling metadata. The index
// is the declaration position; conflicts are resolved in its favor for
// earlier systems.
type placed struct {
	name     string
	system   shred.System
	access   shred.Access
	affinity shred.Affinity
	index    int

	// Explicit ordering edges: names as registered, resolved to
	// declaration indices before scheduling.
	afterNames []string
	after      []int
}

// stage is an ordered group of systems with no internal access conflicts,
// plus the union of their footprints used for stage-level guard
// acquisition.
type stage struct {
	systems []placed
	access  shred.Access
}

// buildStages partitions systems, in declaration order, into ordered
// internally-parallel stages.
//
// Placement is greedy: the earliest admissible stage is the first one at
// or after the minimum forced by conflicts with already-placed systems
// (and by explicit after edges) whose accumulated footprint does not
// conflict with the candidate. If none admits it, a new stage is
// appended. The result is safe and order-preserving by construction;
// total stage count is best-effort, not guaranteed minimal.
func buildStages(systems []placed) []*stage {
	var stages []*stage
	stageOf := make([]int, len(systems))

	for i, s := range systems {
		minStage := 0
		for j := 0; j < i; j++ {
			if systems[j].access.ConflictsWith(s.access) && stageOf[j]+1 > minStage {
				minStage = stageOf[j] + 1
			}
		}
		for _, dep := range s.after {
			if stageOf[dep]+1 > minStage {
				minStage = stageOf[dep] + 1
			}
		}

		target := -1
		for k := minStage; k < len(stages); k++ {
			if !stages[k].access.ConflictsWith(s.access) {
				target = k
				break
			}
		}
		if target < 0 {
			stages = append(stages, &stage{})
			target = len(stages) - 1
		}

		st := stages[target]
		st.systems = append(st.systems, s)
		st.access = st.access.Union(s.access)
		stageOf[i] = target
	}

	return stages
}

// SystemInfo describes one scheduled system for plan introspection.
type SystemInfo struct {
	Name     string
	Access   shred.Access
	Affinity shred.Affinity
}

// StageInfo describes one stage of a built plan: its systems in placement
// order and the stage-level guard modes (Writes are held exclusively,
// Reads shared).
type StageInfo struct {
	Systems []SystemInfo
	Reads   []shred.ResourceID
	Writes  []shred.ResourceID
}

func (st *stage) info() StageInfo {
	info := StageInfo{
		Systems: make([]SystemInfo, 0, len(st.systems)),
		Reads:   st.access.Reads(),
		Writes:  st.access.Writes(),
	}
	for _, s := range st.systems {
		info.Systems = append(info.Systems, SystemInfo{
			Name:     s.name,
			Access:   s.access,
			Affinity: s.affinity,
		})
	}
	return info
}

// renderPlan formats a stage plan for logs and the inspector CLI.
func renderPlan(stages []StageInfo) string {
	var b strings.Builder
	for i, st := range stages {
		if i > 0 {
			b.WriteByte('\n')
		}
		names := make([]string, 0, len(st.Systems))
		for _, s := range st.Systems {
			if s.Affinity == shred.DispatchThread {
				names = append(names, s.Name+"!")
			} else {
				names = append(names, s.Name)
			}
		}
		fmt.Fprintf(&b, "stage %d: %s", i, strings.Join(names, ", "))
		if len(st.Writes) > 0 {
			fmt.Fprintf(&b, " [writes %s]", joinIDs(st.Writes))
		}
		if len(st.Reads) > 0 {
			fmt.Fprintf(&b, " [reads %s]", joinIDs(st.Reads))
		}
	}
	return b.String()
}

func joinIDs(ids []shred.ResourceID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ", ")
}
