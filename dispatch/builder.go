package dispatch

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/adeschamps/shred"
	"github.com/adeschamps/shred/errors"
	"github.com/adeschamps/shred/pool"
)

// Executor is the fork-join collaborator the dispatcher hands pooled
// systems to. Go must eventually run the task; it may do so inline.
// Completion is tracked by the dispatcher's own stage barrier, not by the
// executor.
type Executor interface {
	Go(task func())
}

// SystemOption configures one registered system.
type SystemOption func(*placed)

// WithAffinity sets the system's thread affinity. The default is
// PoolEligible.
func WithAffinity(a shred.Affinity) SystemOption {
	return func(p *placed) { p.affinity = a }
}

// After adds explicit ordering edges by system name. The named systems
// must already be registered; the new system is scheduled to a later
// stage than each of them even when their accesses do not conflict.
func After(names ...string) SystemOption {
	return func(p *placed) { p.afterNames = append(p.afterNames, names...) }
}

// Builder registers systems in declaration order and builds a Dispatcher.
// Registration errors are deferred and surfaced by Build.
type Builder struct {
	entries  []placed
	names    map[string]int
	executor Executor
	logger   *zap.Logger
	err      error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{names: make(map[string]int)}
}

// Add registers a system under a unique name with its declared access.
// Declaration order is scheduling order for conflicting systems.
func (b *Builder) Add(name string, system shred.System, access shred.Access, opts ...SystemOption) *Builder {
	if b.err != nil {
		return b
	}
	if name == "" {
		b.err = errors.InvalidInput(errors.PhaseBuild, "system name must not be empty")
		return b
	}
	if system == nil {
		b.err = errors.New(errors.PhaseBuild, errors.KindInvalidInput).
			System(name).
			Detail("nil system").
			Build()
		return b
	}
	if _, dup := b.names[name]; dup {
		b.err = errors.New(errors.PhaseBuild, errors.KindInvalidInput).
			System(name).
			Detail("duplicate system name").
			Build()
		return b
	}

	p := placed{
		name:   name,
		system: system,
		access: access,
		index:  len(b.entries),
	}
	for _, opt := range opts {
		opt(&p)
	}

	for _, dep := range p.afterNames {
		idx, ok := b.names[dep]
		if !ok {
			b.err = errors.New(errors.PhaseBuild, errors.KindInvalidInput).
				System(name).
				Detail("after %q: no such system registered", dep).
				Build()
			return b
		}
		p.after = append(p.after, idx)
	}

	b.names[name] = p.index
	b.entries = append(b.entries, p)
	return b
}

// WithExecutor attaches an externally-owned fork-join executor. Without
// one, Build creates a worker pool owned (and closed) by the Dispatcher.
func (b *Builder) WithExecutor(e Executor) *Builder {
	b.executor = e
	return b
}

// WithLogger attaches a structured logger. The default is a nop logger.
func (b *Builder) WithLogger(l *zap.Logger) *Builder {
	b.logger = l
	return b
}

// Build computes the stage plan and returns the Dispatcher. The plan is
// immutable; registering different systems means building a new
// Dispatcher.
func (b *Builder) Build() (*Dispatcher, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Dispatcher{
		planID:   uuid.NewString(),
		stages:   buildStages(b.entries),
		executor: b.executor,
		logger:   logger,
	}
	if d.executor == nil {
		d.ownedPool = pool.New(0)
		d.executor = d.ownedPool
	}

	logger.Debug("built stage plan",
		zap.String("plan", d.planID),
		zap.Int("systems", len(b.entries)),
		zap.Int("stages", len(d.stages)),
	)
	return d, nil
}
