package graph

import "github.com/aretw0/lattice/pkg/domain"

const (
	white = iota
	gray
	black
)

type frame struct {
	id   domain.NodeID
	deps []domain.NodeID
	next int
}

// PostOrder walks from each root through deps and returns every reached node after
// all of its dependencies. Roots are visited in the given order and each node appears
// once. The walk is iterative: reaching a node that is still on the stack (gray)
// yields a *domain.CycleError instead of unbounded recursion.
func PostOrder(roots []domain.NodeID, deps func(domain.NodeID) []domain.NodeID) ([]domain.NodeID, error) {
	color := make(map[domain.NodeID]int, len(roots))
	order := make([]domain.NodeID, 0, len(roots))

	for _, root := range roots {
		if color[root] != white {
			continue
		}
		color[root] = gray
		stack := []frame{{id: root, deps: deps(root)}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.deps) {
				dep := top.deps[top.next]
				top.next++
				switch color[dep] {
				case white:
					color[dep] = gray
					stack = append(stack, frame{id: dep, deps: deps(dep)})
				case gray:
					return nil, cycleFrom(stack, dep)
				}
				continue
			}
			color[top.id] = black
			order = append(order, top.id)
			stack = stack[:len(stack)-1]
		}
	}
	return order, nil
}

func cycleFrom(stack []frame, dep domain.NodeID) *domain.CycleError {
	start := 0
	for i, f := range stack {
		if f.id == dep {
			start = i
			break
		}
	}
	path := make([]domain.NodeID, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.id)
	}
	return &domain.CycleError{Path: append(path, dep)}
}

// Reaches reports whether to is reachable from from by following deps.
func Reaches(from, to domain.NodeID, deps func(domain.NodeID) []domain.NodeID) bool {
	if from == to {
		return true
	}
	seen := map[domain.NodeID]bool{from: true}
	queue := []domain.NodeID{from}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range deps(id) {
			if next == to {
				return true
			}
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}
