package graph

import (
	"fmt"
	"slices"

	"github.com/aretw0/lattice/pkg/domain"
)

// Node is a named unit of state: how its value is produced, what it depends on,
// and its last committed value.
type Node struct {
	ID         domain.NodeID
	Computator Computator
	Edges      []domain.Edge
	Writable   bool

	value domain.Value
	set   bool
}

// Value returns the committed value and whether the node holds one.
func (n *Node) Value() (domain.Value, bool) {
	return n.value, n.set
}

// DependencyIDs lists the targets of the node's edges in declaration order.
func (n *Node) DependencyIDs() []domain.NodeID {
	ids := make([]domain.NodeID, len(n.Edges))
	for i, e := range n.Edges {
		ids[i] = e.Target
	}
	return ids
}

// Snapshot describes the node with its committed value.
func (n *Node) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		ID:            n.ID,
		Value:         n.value,
		DependencyIDs: n.DependencyIDs(),
		Writable:      n.Writable,
	}
}

// Info describes the node without its value.
func (n *Node) Info() domain.NodeInfo {
	info := domain.NodeInfo{
		ID:       n.ID,
		Edges:    append([]domain.Edge{}, n.Edges...),
		Writable: n.Writable,
	}
	if n.Computator != nil {
		info.Computator = n.Computator.Kind()
	}
	return info
}

// On declares a Propagating dependency.
func On(id domain.NodeID) domain.Edge {
	return domain.Edge{Target: id, Kind: domain.Propagating}
}

// ResetOn declares a ResetOnly dependency.
func ResetOn(id domain.NodeID) domain.Edge {
	return domain.Edge{Target: id, Kind: domain.ResetOnly}
}

// Graph holds the nodes of one interaction together with a reverse index of their edges.
// It is not safe for concurrent use; a graph belongs to the request that built it.
type Graph struct {
	nodes      map[domain.NodeID]*Node
	order      []domain.NodeID
	dependents map[domain.NodeID][]domain.Dependent
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:      make(map[domain.NodeID]*Node),
		dependents: make(map[domain.NodeID][]domain.Dependent),
	}
}

// Add registers a node. Dependencies may name nodes that are added later;
// dangling edges are only rejected at evaluation time.
func (g *Graph) Add(id domain.NodeID, c Computator, deps []domain.Edge, writable bool) error {
	if id == "" {
		return fmt.Errorf("node id must not be empty")
	}
	if c == nil {
		return fmt.Errorf("node %q has no computator", id)
	}
	if _, exists := g.nodes[id]; exists {
		return &domain.DuplicateNodeError{ID: id}
	}

	g.insert(&Node{
		ID:         id,
		Computator: c,
		Edges:      slices.Clone(deps),
		Writable:   writable,
	})
	return nil
}

// Merge adds every node of other into g, in other's declaration order.
// On id collision the incoming node replaces the existing one (last write wins),
// including its edges and its committed value.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	for _, id := range other.order {
		src := other.nodes[id]
		n := *src
		n.Edges = slices.Clone(src.Edges)

		if old, exists := g.nodes[id]; exists {
			g.unindex(old)
			g.nodes[id] = &n
			g.index(&n)
			continue
		}
		g.insert(&n)
	}
}

func (g *Graph) insert(n *Node) {
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	g.index(n)
}

func (g *Graph) index(n *Node) {
	for _, e := range n.Edges {
		g.dependents[e.Target] = append(g.dependents[e.Target], domain.Dependent{
			DependentID: n.ID,
			Kind:        e.Kind,
		})
	}
}

func (g *Graph) unindex(n *Node) {
	for _, e := range n.Edges {
		deps := slices.DeleteFunc(g.dependents[e.Target], func(d domain.Dependent) bool {
			return d.DependentID == n.ID
		})
		if len(deps) == 0 {
			delete(g.dependents, e.Target)
			continue
		}
		g.dependents[e.Target] = deps
	}
}

// SetMany assigns raw values to writable nodes, bypassing their computators.
// Every entry is checked before any value is written.
func (g *Graph) SetMany(values map[domain.NodeID]domain.Value) error {
	ids := make([]domain.NodeID, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		n, ok := g.nodes[id]
		if !ok {
			return &domain.UnknownNodeError{ID: id}
		}
		if !n.Writable {
			return &domain.UnwritableNodeError{ID: id}
		}
	}
	for _, id := range ids {
		n := g.nodes[id]
		n.value, n.set = values[id], true
	}
	return nil
}

// Restore seeds committed values for existing nodes, ignoring writability.
// Hosts use it to hydrate a freshly built graph with the previous interaction's values.
// Ids that are not in the graph are skipped.
func (g *Graph) Restore(values map[domain.NodeID]domain.Value) {
	for id, v := range values {
		if n, ok := g.nodes[id]; ok {
			n.value, n.set = v, true
		}
	}
}

// Commit stores the outcome of an evaluation pass.
func (g *Graph) Commit(values map[domain.NodeID]domain.Value) error {
	for id := range values {
		if _, ok := g.nodes[id]; !ok {
			return &domain.UnknownNodeError{ID: id}
		}
	}
	for id, v := range values {
		n := g.nodes[id]
		n.value, n.set = v, true
	}
	return nil
}

// Node returns the node registered under id.
func (g *Graph) Node(id domain.NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Has reports whether id is registered.
func (g *Graph) Has(id domain.NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns every node in declaration order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// IDs returns every node id in declaration order.
func (g *Graph) IDs() []domain.NodeID {
	return slices.Clone(g.order)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Dependents returns the reverse index entry of id.
func (g *Graph) Dependents(id domain.NodeID) []domain.Dependent {
	return slices.Clone(g.dependents[id])
}

// Current returns the committed value of id, if any.
func (g *Graph) Current(id domain.NodeID) (domain.Value, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	return n.Value()
}

// Values returns every committed value.
func (g *Graph) Values() map[domain.NodeID]domain.Value {
	out := make(map[domain.NodeID]domain.Value, len(g.nodes))
	for id, n := range g.nodes {
		if n.set {
			out[id] = n.value
		}
	}
	return out
}

// Deref resolves a reference against the committed values.
func (g *Graph) Deref(ref string) (domain.Value, error) {
	return DerefFrom(g, ref)
}

// Validate checks that every edge targets an existing node and that
// Propagating edges do not form a cycle.
func (g *Graph) Validate() error {
	if err := g.CheckEdges(); err != nil {
		return err
	}
	_, err := PostOrder(g.order, func(id domain.NodeID) []domain.NodeID {
		return g.propagatingDeps(id)
	})
	return err
}

// CheckEdges reports the first dangling edge, in declaration order.
func (g *Graph) CheckEdges() error {
	for _, id := range g.order {
		for _, e := range g.nodes[id].Edges {
			if _, ok := g.nodes[e.Target]; !ok {
				return &domain.DerefError{
					Ref:    string(e.Target),
					Reason: fmt.Sprintf("dependency of %q does not exist", id),
				}
			}
		}
	}
	return nil
}

func (g *Graph) propagatingDeps(id domain.NodeID) []domain.NodeID {
	var deps []domain.NodeID
	for _, e := range g.nodes[id].Edges {
		if e.Kind == domain.Propagating {
			deps = append(deps, e.Target)
		}
	}
	return deps
}
