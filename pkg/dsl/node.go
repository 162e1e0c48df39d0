package dsl

import (
	"fmt"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/graph"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	id      domain.NodeID
	builder *Builder

	kind     string
	value    domain.Value
	route    string
	strategy domain.FetchStrategy
	params   map[string]string
	fields   []graph.Field
	source   string
	idKey    string

	deps     []domain.Edge
	writable bool
	passive  bool
}

// Constant sets a fixed value.
func (n *NodeBuilder) Constant(v domain.Value) *NodeBuilder {
	n.kind = graph.KindConstant
	n.value = v
	return n
}

// Value marks the node as a writable input holding def until the host writes to it.
func (n *NodeBuilder) Value(def domain.Value) *NodeBuilder {
	n.kind = graph.KindInput
	n.value = def
	n.writable = true
	return n
}

// Fetch resolves the node through a remote route that returns a single value.
func (n *NodeBuilder) Fetch(route string) *NodeBuilder {
	n.kind = graph.KindRemoteFetch
	n.route = route
	n.strategy = domain.FetchPort
	return n
}

// Query resolves the node through a remote route that returns a list.
func (n *NodeBuilder) Query(route string) *NodeBuilder {
	n.kind = graph.KindRemoteFetch
	n.route = route
	n.strategy = domain.FetchQuery
	return n
}

// Clamp makes the node a writable selection validated against the records of source.
// Anything outside source collapses to def.
func (n *NodeBuilder) Clamp(source string, def domain.Value) *NodeBuilder {
	n.kind = graph.KindRangeClamped
	n.source = source
	n.value = def
	n.writable = true
	return n
}

// Aggregate collects the node's fields into an ordered mapping.
func (n *NodeBuilder) Aggregate() *NodeBuilder {
	n.kind = graph.KindAggregate
	return n
}

// Param passes the value behind ref to the remote route under name.
func (n *NodeBuilder) Param(name, ref string) *NodeBuilder {
	if n.params == nil {
		n.params = make(map[string]string)
	}
	n.params[name] = ref
	return n
}

// Field appends an aggregate entry.
func (n *NodeBuilder) Field(key, ref string) *NodeBuilder {
	n.fields = append(n.fields, graph.Field{Key: key, Ref: ref})
	return n
}

// IDKey names the record field used as identity by Clamp.
func (n *NodeBuilder) IDKey(key string) *NodeBuilder {
	n.idKey = key
	return n
}

// DependsOn adds Propagating edges.
func (n *NodeBuilder) DependsOn(ids ...string) *NodeBuilder {
	for _, id := range ids {
		n.deps = append(n.deps, graph.On(domain.NodeID(id)))
	}
	return n
}

// ResetOn adds ResetOnly edges.
func (n *NodeBuilder) ResetOn(ids ...string) *NodeBuilder {
	for _, id := range ids {
		n.deps = append(n.deps, graph.ResetOn(domain.NodeID(id)))
	}
	return n
}

// Passive turns the edges implied by the node's references into ResetOnly edges.
// The node then only recomputes when the host names it explicitly.
func (n *NodeBuilder) Passive() *NodeBuilder {
	n.passive = true
	return n
}

// Writable allows the host to assign the node directly.
func (n *NodeBuilder) Writable() *NodeBuilder {
	n.writable = true
	return n
}

// Edges returns the explicit edges followed by one edge per referenced node
// that is not already covered.
func (n *NodeBuilder) Edges() []domain.Edge {
	edges := append([]domain.Edge(nil), n.deps...)
	seen := make(map[domain.NodeID]bool, len(edges))
	for _, e := range edges {
		seen[e.Target] = true
	}

	kind := domain.Propagating
	if n.passive {
		kind = domain.ResetOnly
	}
	for _, ref := range n.refs() {
		target := domain.RefNode(ref)
		if target == "" || seen[target] {
			continue
		}
		seen[target] = true
		edges = append(edges, domain.Edge{Target: target, Kind: kind})
	}
	return edges
}

func (n *NodeBuilder) refs() []string {
	c, err := n.computator()
	if err != nil {
		return nil
	}
	if rl, ok := c.(graph.RefLister); ok {
		return rl.Refs()
	}
	return nil
}

func (n *NodeBuilder) isWritable() bool {
	return n.writable
}

func (n *NodeBuilder) computator() (graph.Computator, error) {
	switch n.kind {
	case graph.KindConstant:
		return graph.Constant{Value: n.value}, nil
	case graph.KindInput:
		return graph.Input{Default: n.value}, nil
	case graph.KindRemoteFetch:
		return graph.RemoteFetch{Route: n.route, Strategy: n.strategy, Params: n.params}, nil
	case graph.KindRangeClamped:
		return graph.RangeClamped{Default: n.value, Source: n.source, IDKey: n.idKey}, nil
	case graph.KindAggregate:
		return graph.Aggregate{Fields: n.fields}, nil
	}
	return nil, fmt.Errorf("node %q has no computator", n.id)
}
