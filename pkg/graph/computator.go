package graph

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/lattice/pkg/domain"
)

// Computator kinds reported by Kind.
const (
	KindConstant     = "constant"
	KindInput        = "input"
	KindRemoteFetch  = "remote_fetch"
	KindRangeClamped = "range_clamped"
	KindAggregate    = "aggregate"
)

// DefaultIDKey is the record field used as identity by RangeClamped.
const DefaultIDKey = "id"

// Scope is the evaluation context handed to a computator.
// It is created per pass by the evaluator; nothing about it is global.
type Scope interface {
	// Context is the context of the pass, forwarded to the remote resolver.
	Context() context.Context
	// Self is the id of the node being computed.
	Self() domain.NodeID
	// Deref resolves a reference against the values visible to this pass.
	Deref(ref string) (domain.Value, error)
	// Current returns the value a node holds right now in this pass.
	Current(id domain.NodeID) (domain.Value, bool)
	// Resolve calls the host's remote resolver.
	Resolve(call domain.RemoteCall) (domain.Value, error)
}

// Computator produces a node's value.
type Computator interface {
	Compute(scope Scope, changed domain.IDSet) (domain.Value, error)
	Kind() string
}

// RefLister is implemented by computators that read other nodes through references.
type RefLister interface {
	Refs() []string
}

// Constant returns Value unconditionally.
type Constant struct {
	Value domain.Value
}

func (c Constant) Compute(Scope, domain.IDSet) (domain.Value, error) {
	return c.Value, nil
}

func (c Constant) Kind() string { return KindConstant }

// Input holds whatever the host last wrote to the node, or Default before that.
// It is meant for writable nodes that carry free-form user input.
type Input struct {
	Default domain.Value
}

func (i Input) Compute(scope Scope, _ domain.IDSet) (domain.Value, error) {
	if v, ok := scope.Current(scope.Self()); ok {
		return v, nil
	}
	return i.Default, nil
}

func (i Input) Kind() string { return KindInput }

// RemoteFetch dereferences Params and hands them to the remote resolver under Route.
// The resolver's result is returned unmodified.
type RemoteFetch struct {
	Route    string
	Strategy domain.FetchStrategy
	// Params maps parameter names to references.
	Params map[string]string
}

func (f RemoteFetch) Compute(scope Scope, _ domain.IDSet) (domain.Value, error) {
	params := make(map[string]any, len(f.Params))
	for _, name := range f.paramNames() {
		v, err := scope.Deref(f.Params[name])
		if err != nil {
			return nil, err
		}
		params[name] = v
	}

	strategy := f.Strategy
	if strategy == "" {
		strategy = domain.FetchPort
	}
	return scope.Resolve(domain.RemoteCall{
		NodeID:   scope.Self(),
		Route:    f.Route,
		Strategy: strategy,
		Params:   params,
	})
}

func (f RemoteFetch) Kind() string { return KindRemoteFetch }

func (f RemoteFetch) Refs() []string {
	names := f.paramNames()
	refs := make([]string, len(names))
	for i, name := range names {
		refs[i] = f.Params[name]
	}
	return refs
}

func (f RemoteFetch) paramNames() []string {
	names := make([]string, 0, len(f.Params))
	for name := range f.Params {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RangeClamped validates a writable candidate against a domain of identified records.
// It never picks a new value: an in-domain candidate is kept exactly, anything else
// collapses to Default.
type RangeClamped struct {
	Default domain.Value
	// Source references the domain, a sequence of records or scalars.
	Source string
	// IDKey names the identity field of records. Empty means DefaultIDKey.
	IDKey string
}

func (r RangeClamped) Compute(scope Scope, _ domain.IDSet) (domain.Value, error) {
	src, err := scope.Deref(r.Source)
	if err != nil {
		return nil, err
	}

	var items []domain.Value
	if src != nil {
		seq, ok := domain.AsSequence(src)
		if !ok {
			return nil, &domain.DerefError{
				Ref:    r.Source,
				Reason: fmt.Sprintf("domain of %q must be a sequence, got %T", scope.Self(), src),
			}
		}
		items = seq
	}

	candidate, ok := scope.Current(scope.Self())
	if !ok || candidate == nil {
		return r.Default, nil
	}

	key := r.idKey()
	want := domain.Identifier(candidate, key)
	for _, item := range items {
		if domain.SameID(domain.Identifier(item, key), want) {
			return candidate, nil
		}
	}
	return r.Default, nil
}

func (r RangeClamped) Kind() string { return KindRangeClamped }

func (r RangeClamped) Refs() []string { return []string{r.Source} }

func (r RangeClamped) idKey() string {
	if r.IDKey == "" {
		return DefaultIDKey
	}
	return r.IDKey
}

// Field is one entry of an Aggregate: Key in the output, Ref to read it from.
type Field struct {
	Key string
	Ref string
}

// Aggregate collects several references into an ordered mapping, in declared order.
type Aggregate struct {
	Fields []Field
}

func (a Aggregate) Compute(scope Scope, _ domain.IDSet) (domain.Value, error) {
	out := domain.NewMapping()
	for _, f := range a.Fields {
		v, err := scope.Deref(f.Ref)
		if err != nil {
			return nil, err
		}
		out.Set(f.Key, v)
	}
	return out, nil
}

func (a Aggregate) Kind() string { return KindAggregate }

func (a Aggregate) Refs() []string {
	refs := make([]string, len(a.Fields))
	for i, f := range a.Fields {
		refs[i] = f.Ref
	}
	return refs
}
