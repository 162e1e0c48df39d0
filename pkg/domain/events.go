package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPassStart    EventType = "pass_start"
	EventPassEnd      EventType = "pass_end"
	EventNodeCompute  EventType = "node_compute"
	EventRemoteCall   EventType = "remote_call"
	EventRemoteReturn EventType = "remote_return"
)

// PassMode distinguishes full evaluation from incremental evaluation.
type PassMode string

const (
	ModeFull        PassMode = "full"
	ModeIncremental PassMode = "incremental"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// PassEvent marks the boundaries of an evaluation pass.
type PassEvent struct {
	EventBase
	Mode     PassMode      `json:"mode"`
	Nodes    int           `json:"nodes"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// NodeEvent reports a single computator invocation.
type NodeEvent struct {
	EventBase
	NodeID     NodeID        `json:"node_id"`
	Computator string        `json:"computator"`
	Duration   time.Duration `json:"duration"`
	Err        error         `json:"-"`
}

// RemoteEvent reports a call to the remote resolver.
type RemoteEvent struct {
	EventBase
	NodeID   NodeID        `json:"node_id"`
	Route    string        `json:"route"`
	Strategy FetchStrategy `json:"strategy"`
	Duration time.Duration `json:"duration,omitempty"`
	IsError  bool          `json:"is_error,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnPassStart    func(context.Context, *PassEvent)
	OnPassEnd      func(context.Context, *PassEvent)
	OnNodeCompute  func(context.Context, *NodeEvent)
	OnRemoteCall   func(context.Context, *RemoteEvent)
	OnRemoteReturn func(context.Context, *RemoteEvent)
}

// Chain returns hooks that invoke h first and then next.
func (h LifecycleHooks) Chain(next LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnPassStart:    chain(h.OnPassStart, next.OnPassStart),
		OnPassEnd:      chain(h.OnPassEnd, next.OnPassEnd),
		OnNodeCompute:  chain(h.OnNodeCompute, next.OnNodeCompute),
		OnRemoteCall:   chain(h.OnRemoteCall, next.OnRemoteCall),
		OnRemoteReturn: chain(h.OnRemoteReturn, next.OnRemoteReturn),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
