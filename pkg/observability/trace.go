package observability

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/lattice/pkg/domain"
)

// Trace records lifecycle events in arrival order.
// It is safe for concurrent use.
type Trace struct {
	mu     sync.Mutex
	events []any
}

// NewTrace creates an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

// Hooks returns lifecycle hooks that append to t.
func (t *Trace) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPassStart:    func(_ context.Context, e *domain.PassEvent) { t.add(*e) },
		OnPassEnd:      func(_ context.Context, e *domain.PassEvent) { t.add(*e) },
		OnNodeCompute:  func(_ context.Context, e *domain.NodeEvent) { t.add(*e) },
		OnRemoteCall:   func(_ context.Context, e *domain.RemoteEvent) { t.add(*e) },
		OnRemoteReturn: func(_ context.Context, e *domain.RemoteEvent) { t.add(*e) },
	}
}

func (t *Trace) add(e any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, e)
}

// Events returns a copy of the recorded events. Each element is a domain.PassEvent,
// domain.NodeEvent or domain.RemoteEvent.
func (t *Trace) Events() []any {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]any, len(t.events))
	copy(out, t.events)
	return out
}

// Computed lists the nodes computed so far, in order.
func (t *Trace) Computed() []domain.NodeID {
	t.mu.Lock()
	defer t.mu.Unlock()
	var ids []domain.NodeID
	for _, e := range t.events {
		if ne, ok := e.(domain.NodeEvent); ok {
			ids = append(ids, ne.NodeID)
		}
	}
	return ids
}

// Reset drops every recorded event.
func (t *Trace) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = nil
}

// LogHooks returns lifecycle hooks that write every event to logger at info level,
// and failures at warn level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPassStart: func(ctx context.Context, e *domain.PassEvent) {
			logger.InfoContext(ctx, "pass_start", "mode", e.Mode, "nodes", e.Nodes)
		},
		OnPassEnd: func(ctx context.Context, e *domain.PassEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "pass_end", "mode", e.Mode, "nodes", e.Nodes, "duration", e.Duration, "err", e.Err)
				return
			}
			logger.InfoContext(ctx, "pass_end", "mode", e.Mode, "nodes", e.Nodes, "duration", e.Duration)
		},
		OnNodeCompute: func(ctx context.Context, e *domain.NodeEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "node_compute", "node_id", e.NodeID, "computator", e.Computator, "err", e.Err)
				return
			}
			logger.InfoContext(ctx, "node_compute", "node_id", e.NodeID, "computator", e.Computator, "duration", e.Duration)
		},
		OnRemoteCall: func(ctx context.Context, e *domain.RemoteEvent) {
			logger.InfoContext(ctx, "remote_call", "node_id", e.NodeID, "route", e.Route, "strategy", e.Strategy)
		},
		OnRemoteReturn: func(ctx context.Context, e *domain.RemoteEvent) {
			logger.InfoContext(ctx, "remote_return", "node_id", e.NodeID, "route", e.Route, "is_error", e.IsError, "duration", e.Duration)
		},
	}
}
