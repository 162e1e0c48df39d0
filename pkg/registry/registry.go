package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/schema"
)

// ErrRouteNotFound is wrapped by the *domain.RemoteError returned for unknown routes.
var ErrRouteNotFound = errors.New("route not found")

// PortFunc serves a route that produces a single value.
type PortFunc func(ctx context.Context, params map[string]any) (any, error)

// QueryFunc serves a route that produces a list.
type QueryFunc func(ctx context.Context, params map[string]any) ([]any, error)

// RouteInfo describes a registered route.
type RouteInfo struct {
	Name        string               `json:"name"`
	Strategy    domain.FetchStrategy `json:"strategy"`
	Description string               `json:"description,omitempty"`
	Params      schema.Schema        `json:"params,omitempty"`
}

// RouteOption configures a route at registration time.
type RouteOption func(*RouteInfo)

// WithParams validates call parameters against s before the route runs.
func WithParams(s schema.Schema) RouteOption {
	return func(r *RouteInfo) {
		r.Params = s
	}
}

// WithDescription documents the route for introspection.
func WithDescription(d string) RouteOption {
	return func(r *RouteInfo) {
		r.Description = d
	}
}

type route struct {
	info  RouteInfo
	port  PortFunc
	query QueryFunc
}

// Registry dispatches remote calls to in-process route handlers.
// It implements ports.RemoteResolver and is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	routes map[string]*route
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		routes: make(map[string]*route),
	}
}

// RegisterPort adds a single-value route.
// If a route with the same name exists, it is overwritten.
func (r *Registry) RegisterPort(name string, fn PortFunc, opts ...RouteOption) {
	r.register(&route{info: newInfo(name, domain.FetchPort, opts), port: fn})
}

// RegisterQuery adds a list route.
// If a route with the same name exists, it is overwritten.
func (r *Registry) RegisterQuery(name string, fn QueryFunc, opts ...RouteOption) {
	r.register(&route{info: newInfo(name, domain.FetchQuery, opts), query: fn})
}

func newInfo(name string, strategy domain.FetchStrategy, opts []RouteOption) RouteInfo {
	info := RouteInfo{Name: name, Strategy: strategy}
	for _, opt := range opts {
		opt(&info)
	}
	return info
}

func (r *Registry) register(rt *route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[rt.info.Name] = rt
}

// Routes lists the registered routes by name.
func (r *Registry) Routes() []RouteInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RouteInfo, 0, len(r.routes))
	for _, rt := range r.routes {
		out = append(out, rt.info)
	}
	slices.SortFunc(out, func(a, b RouteInfo) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}

// Resolve runs the route named by call. Every failure is a *domain.RemoteError.
// A query that returns nil yields an empty list.
func (r *Registry) Resolve(ctx context.Context, call domain.RemoteCall) (domain.Value, error) {
	r.mu.RLock()
	rt, ok := r.routes[call.Route]
	r.mu.RUnlock()

	if !ok {
		return nil, &domain.RemoteError{Route: call.Route, Err: ErrRouteNotFound}
	}

	strategy := call.Strategy
	if strategy == "" {
		strategy = domain.FetchPort
	}
	if strategy != rt.info.Strategy {
		return nil, &domain.RemoteError{
			Route: call.Route,
			Err:   fmt.Errorf("route serves %s calls, got %s", rt.info.Strategy, strategy),
		}
	}

	if err := schema.Validate(rt.info.Params, call.Params); err != nil {
		return nil, &domain.RemoteError{Route: call.Route, Err: err}
	}

	var (
		v   domain.Value
		err error
	)
	switch strategy {
	case domain.FetchQuery:
		var items []any
		items, err = rt.query(ctx, call.Params)
		if items == nil {
			items = []any{}
		}
		v = items
	default:
		v, err = rt.port(ctx, call.Params)
	}

	if err != nil {
		var remote *domain.RemoteError
		if errors.As(err, &remote) {
			return nil, err
		}
		return nil, &domain.RemoteError{Route: call.Route, Err: err}
	}
	return v, nil
}
