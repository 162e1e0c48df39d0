package dsl

import (
	"fmt"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/graph"
)

// Builder manages the graph construction.
type Builder struct {
	nodes map[domain.NodeID]*NodeBuilder
	order []domain.NodeID
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[domain.NodeID]*NodeBuilder),
	}
}

// Add creates a new node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	nid := domain.NodeID(id)
	if nb, ok := b.nodes[nid]; ok {
		return nb
	}
	nb := &NodeBuilder{id: nid, builder: b}
	b.nodes[nid] = nb
	b.order = append(b.order, nid)
	return nb
}

// Build adds every node to a new graph, in the order they were first added,
// and validates the result. Dangling references and Propagating cycles are
// reported here rather than at the first evaluation.
func (b *Builder) Build() (*graph.Graph, error) {
	g := graph.New()
	for _, id := range b.order {
		nb := b.nodes[id]
		c, err := nb.computator()
		if err != nil {
			return nil, err
		}
		if err := g.Add(id, c, nb.Edges(), nb.isWritable()); err != nil {
			return nil, fmt.Errorf("failed to add node %q: %w", id, err)
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
