package runtime

import (
	"context"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
)

func (e *Evaluator) emitPassStart(ctx context.Context, mode domain.PassMode, nodes int) {
	if e.hooks.OnPassStart == nil {
		return
	}
	e.hooks.OnPassStart(ctx, &domain.PassEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventPassStart},
		Mode:      mode,
		Nodes:     nodes,
	})
}

func (e *Evaluator) emitPassEnd(ctx context.Context, mode domain.PassMode, nodes int, d time.Duration, err error) {
	if e.hooks.OnPassEnd == nil {
		return
	}
	e.hooks.OnPassEnd(ctx, &domain.PassEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventPassEnd},
		Mode:      mode,
		Nodes:     nodes,
		Duration:  d,
		Err:       err,
	})
}

func (e *Evaluator) emitNodeCompute(ctx context.Context, id domain.NodeID, kind string, d time.Duration, err error) {
	if e.hooks.OnNodeCompute == nil {
		return
	}
	e.hooks.OnNodeCompute(ctx, &domain.NodeEvent{
		EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventNodeCompute},
		NodeID:     id,
		Computator: kind,
		Duration:   d,
		Err:        err,
	})
}

func (e *Evaluator) emitRemoteCall(ctx context.Context, call domain.RemoteCall) {
	if e.hooks.OnRemoteCall == nil {
		return
	}
	e.hooks.OnRemoteCall(ctx, &domain.RemoteEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRemoteCall},
		NodeID:    call.NodeID,
		Route:     call.Route,
		Strategy:  call.Strategy,
	})
}

func (e *Evaluator) emitRemoteReturn(ctx context.Context, call domain.RemoteCall, d time.Duration, isError bool) {
	if e.hooks.OnRemoteReturn == nil {
		return
	}
	e.hooks.OnRemoteReturn(ctx, &domain.RemoteEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRemoteReturn},
		NodeID:    call.NodeID,
		Route:     call.Route,
		Strategy:  call.Strategy,
		Duration:  d,
		IsError:   isError,
	})
}
