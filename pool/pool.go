// Package pool provides the default fork-join executor used by the
// dispatcher. Tasks are independent closures; completion tracking is the
// submitter's concern (the dispatcher uses its own stage barrier).
package pool

import (
	"runtime"
	"sync"
)

// Pool is a fixed-size worker pool over a buffered task channel. When the
// channel is saturated, Go runs the task inline on the submitting
// goroutine, so submission never blocks on pool capacity.
type Pool struct {
	tasks    chan func()
	workerWG sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

// New creates a pool with the given number of workers. A non-positive
// count defaults to GOMAXPROCS.
func New(workers int) *Pool {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		tasks: make(chan func(), workers*4),
	}
	for i := 0; i < workers; i++ {
		p.workerWG.Add(1)
		go p.worker()
	}
	return p
}

// Go schedules task on a worker. It runs the task inline on the
// submitting goroutine if the pool is saturated or closed; either way the
// task executes.
func (p *Pool) Go(task func()) {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		task()
		return
	}
	select {
	case p.tasks <- task:
		p.mu.RUnlock()
	default:
		p.mu.RUnlock()
		task()
	}
}

// Close stops the workers after draining queued tasks. Safe to call more
// than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.workerWG.Wait()
}

func (p *Pool) worker() {
	defer p.workerWG.Done()
	for task := range p.tasks {
		task()
	}
}

// Inline is an executor that runs every task synchronously on the
// submitting goroutine. Useful for tests and fully deterministic runs.
type Inline struct{}

// Go runs task immediately.
func (Inline) Go(task func()) { task() }
