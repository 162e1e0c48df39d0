package runtime

import (
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/graph"
)

// Affected returns changed plus every node that reaches it through Propagating
// edges, following the reverse index. ResetOnly dependents are never added.
func Affected(g *graph.Graph, changed domain.IDSet) domain.IDSet {
	visited := changed.Clone()
	queue := changed.Sorted()
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, d := range g.Dependents(id) {
			if d.Kind != domain.Propagating {
				continue
			}
			if visited.Add(d.DependentID) {
				queue = append(queue, d.DependentID)
			}
		}
	}
	return visited
}

// Plan orders the nodes of scope so that each node runs after its Propagating
// dependencies inside scope. A Propagating cycle is a *domain.CycleError.
//
// ResetOnly edges are ordering preferences: they are honored when they do not close
// a loop, so a node reading a ResetOnly dependency sees its fresh value when possible.
// Nodes without constraints between them keep declaration order.
func Plan(g *graph.Graph, scope domain.IDSet) ([]domain.NodeID, error) {
	roots := make([]domain.NodeID, 0, len(scope))
	for _, id := range g.IDs() {
		if scope.Has(id) {
			roots = append(roots, id)
		}
	}

	deps := make(map[domain.NodeID][]domain.NodeID, len(roots))
	for _, id := range roots {
		n, _ := g.Node(id)
		for _, e := range n.Edges {
			if e.Kind == domain.Propagating && scope.Has(e.Target) {
				deps[id] = append(deps[id], e.Target)
			}
		}
	}
	next := func(id domain.NodeID) []domain.NodeID { return deps[id] }

	if _, err := graph.PostOrder(roots, next); err != nil {
		return nil, err
	}

	for _, id := range roots {
		n, _ := g.Node(id)
		for _, e := range n.Edges {
			if e.Kind != domain.ResetOnly || !scope.Has(e.Target) || e.Target == id {
				continue
			}
			if graph.Reaches(e.Target, id, next) {
				continue
			}
			deps[id] = append(deps[id], e.Target)
		}
	}
	return graph.PostOrder(roots, next)
}
