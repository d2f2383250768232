package pool

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestPool_RunsEveryTask(t *testing.T) {
	p := New(4)
	defer p.Close()

	var done atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		p.Go(func() {
			defer wg.Done()
			done.Add(1)
		})
	}
	wg.Wait()

	if got := done.Load(); got != 100 {
		t.Fatalf("ran %d tasks, want 100", got)
	}
}

func TestPool_CloseIsIdempotent(t *testing.T) {
	p := New(2)
	p.Close()
	p.Close()
}

func TestPool_GoAfterCloseRunsInline(t *testing.T) {
	p := New(1)
	p.Close()

	ran := false
	p.Go(func() { ran = true })
	if !ran {
		t.Fatal("task submitted after Close must still run")
	}
}

func TestPool_DefaultWorkerCount(t *testing.T) {
	p := New(0)
	defer p.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	p.Go(func() { wg.Done() })
	wg.Wait()
}

func TestInline_RunsSynchronously(t *testing.T) {
	var e Inline
	ran := false
	e.Go(func() { ran = true })
	if !ran {
		t.Fatal("Inline.Go must complete the task before returning")
	}
}
