package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/graph"
	"github.com/aretw0/lattice/pkg/ports"
)

// Evaluator runs full and incremental evaluation passes over a graph.
// It holds no per-graph state and may be shared between goroutines,
// as long as each graph is evaluated by one goroutine at a time.
type Evaluator struct {
	resolver ports.RemoteResolver
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithResolver sets the remote resolver used by RemoteFetch nodes.
func WithResolver(r ports.RemoteResolver) Option {
	return func(e *Evaluator) {
		e.resolver = r
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Evaluator) {
		e.hooks = hooks
	}
}

// NewEvaluator creates an evaluator. Without WithResolver, RemoteFetch nodes fail
// with domain.ErrNoResolver.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute evaluates every node of g exactly once and commits the results.
// On error nothing is committed.
func (e *Evaluator) Compute(ctx context.Context, g *graph.Graph) (map[domain.NodeID]domain.Snapshot, error) {
	scope := domain.NewIDSet(g.IDs()...)

	if err := e.run(ctx, g, domain.ModeFull, scope, domain.NewIDSet()); err != nil {
		return nil, err
	}
	return snapshots(g, scope), nil
}

// ComputeUpdate recomputes the nodes affected by changed: the changed ids themselves
// and everything that reaches them through Propagating edges. ResetOnly dependents are
// left untouched unless named in changed. It returns snapshots for exactly the
// recomputed nodes, together with their ids.
func (e *Evaluator) ComputeUpdate(ctx context.Context, g *graph.Graph, changed domain.IDSet) (map[domain.NodeID]domain.Snapshot, domain.IDSet, error) {
	for _, id := range changed.Sorted() {
		if !g.Has(id) {
			return nil, nil, &domain.UnknownNodeError{ID: id}
		}
	}

	visited := Affected(g, changed)
	if err := e.run(ctx, g, domain.ModeIncremental, visited, changed); err != nil {
		return nil, nil, err
	}
	return snapshots(g, visited), visited, nil
}

func (e *Evaluator) run(ctx context.Context, g *graph.Graph, mode domain.PassMode, scope, changed domain.IDSet) (err error) {
	start := time.Now()
	e.emitPassStart(ctx, mode, len(scope))
	defer func() {
		e.emitPassEnd(ctx, mode, len(scope), time.Since(start), err)
	}()

	if err := g.Validate(); err != nil {
		return err
	}
	order, err := Plan(g, scope)
	if err != nil {
		return err
	}

	p := newPass(ctx, e, g, changed)
	for _, id := range order {
		if err := p.compute(id); err != nil {
			e.logger.Debug("evaluation aborted", "mode", mode, "node_id", id, "err", err)
			return err
		}
	}
	if err := g.Commit(p.staged); err != nil {
		return err
	}

	e.logger.Debug("evaluation complete", "mode", mode, "nodes", len(order), "duration", time.Since(start))
	return nil
}

func snapshots(g *graph.Graph, ids domain.IDSet) map[domain.NodeID]domain.Snapshot {
	out := make(map[domain.NodeID]domain.Snapshot, len(ids))
	for id := range ids {
		if n, ok := g.Node(id); ok {
			out[id] = n.Snapshot()
		}
	}
	return out
}
