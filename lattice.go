package lattice

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/lattice/internal/runtime"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/graph"
	"github.com/aretw0/lattice/pkg/ports"
)

// Engine is the high-level entry point for the Lattice library.
// It wraps the internal evaluator and provides a simplified API for hosts.
type Engine struct {
	evaluator *runtime.Evaluator
	resolver  ports.RemoteResolver
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	Name      string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithResolver injects the host's remote resolver, used by RemoteFetch nodes.
func WithResolver(r ports.RemoteResolver) Option {
	return func(e *Engine) {
		e.resolver = r
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithName labels the engine; the name is attached to every log record.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// New initializes a new Lattice Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("graph", eng.Name)
	}

	eng.evaluator = runtime.NewEvaluator(
		runtime.WithResolver(eng.resolver),
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	)
	return eng
}

// Compute evaluates every node of g and returns a snapshot per node.
// Values are committed to g only when the whole pass succeeds.
func (e *Engine) Compute(ctx context.Context, g *graph.Graph) (map[domain.NodeID]domain.Snapshot, error) {
	return e.evaluator.Compute(ctx, g)
}

// ComputeUpdate recomputes the nodes reached from changed through Propagating edges
// and returns their snapshots together with the set of recomputed ids.
func (e *Engine) ComputeUpdate(ctx context.Context, g *graph.Graph, changed domain.IDSet) (map[domain.NodeID]domain.Snapshot, domain.IDSet, error) {
	return e.evaluator.ComputeUpdate(ctx, g, changed)
}

// Apply writes edits to writable nodes and runs an incremental pass over the edited
// ids plus any explicitly named ones. It is the usual shape of one user interaction.
// If the pass fails the edits are not rolled back: the edited nodes keep their raw
// values while every computed node keeps its last committed one. Discard the graph,
// or do not persist it, after an error.
func (e *Engine) Apply(ctx context.Context, g *graph.Graph, edits map[domain.NodeID]domain.Value, explicit ...domain.NodeID) (map[domain.NodeID]domain.Snapshot, domain.IDSet, error) {
	if err := g.SetMany(edits); err != nil {
		return nil, nil, err
	}

	changed := domain.NewIDSet(explicit...)
	for id := range edits {
		changed.Add(id)
	}
	return e.evaluator.ComputeUpdate(ctx, g, changed)
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}
