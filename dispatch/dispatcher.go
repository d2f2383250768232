package dispatch

import (
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/adeschamps/shred"
	"github.com/adeschamps/shred/errors"
	"github.com/adeschamps/shred/pool"
	"github.com/adeschamps/shred/world"
)

// Dispatcher runs a fixed stage plan against a World. The plan is built
// once and reused by every Dispatch call; stages run in order with a hard
// barrier between them, and systems within a stage run concurrently.
type Dispatcher struct {
	planID    string
	stages    []*stage
	executor  Executor
	ownedPool *pool.Pool
	logger    *zap.Logger
}

// PlanID returns the identifier logged with every run of this plan.
func (d *Dispatcher) PlanID() string { return d.planID }

// Stages returns an immutable description of the plan for tooling.
func (d *Dispatcher) Stages() []StageInfo {
	infos := make([]StageInfo, 0, len(d.stages))
	for _, st := range d.stages {
		infos = append(infos, st.info())
	}
	return infos
}

// String renders the plan, one line per stage. Thread-affine systems are
// marked with a trailing "!".
func (d *Dispatcher) String() string {
	return renderPlan(d.Stages())
}

// Close releases the dispatcher-owned worker pool, if any. An externally
// supplied executor is left untouched.
func (d *Dispatcher) Close() {
	if d.ownedPool != nil {
		d.ownedPool.Close()
	}
}

// Dispatch runs the plan against w. Per stage it acquires one guard per
// distinct resource (exclusive if any system in the stage writes it),
// hands pool-eligible systems to the executor, runs thread-affine systems
// inline, waits at the stage barrier, then releases every guard before
// the next stage begins.
//
// Faults are captured per stage: siblings run to completion, the combined
// fault is returned after the barrier, and no later stage runs. Guards
// are released on every path.
func (d *Dispatcher) Dispatch(w *world.World) error {
	return d.run(w, false)
}

// DispatchSeq runs the plan with every system, in placement order,
// executing one at a time on the calling goroutine. Resource-access
// semantics are identical to Dispatch; use it to pin down
// schedule-dependent bugs.
func (d *Dispatcher) DispatchSeq(w *world.World) error {
	return d.run(w, true)
}

func (d *Dispatcher) run(w *world.World, sequential bool) error {
	start := time.Now()
	for i, st := range d.stages {
		if err := d.runStage(w, i, st, sequential); err != nil {
			d.logger.Error("dispatch aborted",
				zap.String("plan", d.planID),
				zap.Int("stage", i),
				zap.Error(err),
			)
			return err
		}
	}
	d.logger.Debug("dispatch complete",
		zap.String("plan", d.planID),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// runStage executes one stage: acquire stage guards, run systems, wait,
// release. Release happens via defer so a faulting system never leaks a
// held guard.
func (d *Dispatcher) runStage(w *world.World, index int, st *stage, sequential bool) (err error) {
	values := make(map[shred.ResourceID]any, len(st.access.Writes())+len(st.access.Reads()))

	var release []func()
	defer func() {
		for _, r := range release {
			r()
		}
	}()

	for _, id := range st.access.Writes() {
		g, gerr := w.FetchExclusive(id)
		if gerr != nil {
			return gerr
		}
		release = append(release, g.Release)
		values[id] = g.Value()
	}
	for _, id := range st.access.Reads() {
		g, gerr := w.FetchShared(id)
		if gerr != nil {
			return gerr
		}
		release = append(release, g.Release)
		values[id] = g.Value()
	}

	faults := make([]error, len(st.systems))
	var wg sync.WaitGroup

	var inline []int
	for si, s := range st.systems {
		if sequential || s.affinity == shred.DispatchThread {
			inline = append(inline, si)
			continue
		}
		si, s := si, s
		wg.Add(1)
		d.executor.Go(func() {
			defer wg.Done()
			faults[si] = d.runSystem(index, s, values)
		})
	}
	for _, si := range inline {
		faults[si] = d.runSystem(index, st.systems[si], values)
	}
	wg.Wait()

	return multierr.Combine(faults...)
}

// runSystem builds the system's restricted view and executes it, turning
// a returned error or a panic into a captured SystemFailure.
func (d *Dispatcher) runSystem(stageIndex int, s placed, values map[shred.ResourceID]any) (fault error) {
	defer func() {
		if r := recover(); r != nil {
			fault = errors.SystemPanic(s.name, stageIndex, r)
		}
		if fault != nil {
			d.logger.Warn("system fault",
				zap.String("plan", d.planID),
				zap.Int("stage", stageIndex),
				zap.String("system", s.name),
				zap.Error(fault),
			)
		}
	}()

	view := shred.NewView(viewValues(s.access, values), s.access)
	if err := s.system.Run(view); err != nil {
		return errors.SystemFailure(s.name, stageIndex, err)
	}
	return nil
}

// viewValues restricts the stage's guarded values to one system's
// declared footprint.
func viewValues(access shred.Access, values map[shred.ResourceID]any) map[shred.ResourceID]any {
	sub := make(map[shred.ResourceID]any, len(access.Reads())+len(access.Writes()))
	for _, id := range access.Reads() {
		if v, ok := values[id]; ok {
			sub[id] = v
		}
	}
	for _, id := range access.Writes() {
		if v, ok := values[id]; ok {
			sub[id] = v
		}
	}
	return sub
}
