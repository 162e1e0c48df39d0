package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/graph"
)

// RouteTable maps the routes a host can resolve to the strategy each one serves.
type RouteTable map[string]domain.FetchStrategy

// Report collects validation findings. Errors make a graph unusable with the given
// routes; warnings point at nodes that no edit can ever recompute.
type Report struct {
	Errors   []string
	Warnings []string
}

// Err folds the errors into one, or returns nil.
func (r *Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("found %d errors:\n- %s", len(r.Errors), strings.Join(r.Errors, "\n- "))
}

// ValidateGraph checks every remote node against routes and crawls the Propagating
// edges downstream of the writable nodes. A nil routes table skips route checks.
func ValidateGraph(g *graph.Graph, routes RouteTable) *Report {
	report := &Report{}

	for _, n := range g.Nodes() {
		fetch, ok := n.Computator.(graph.RemoteFetch)
		if !ok || routes == nil {
			continue
		}
		served, found := routes[fetch.Route]
		switch {
		case !found:
			report.Errors = append(report.Errors, fmt.Sprintf("node '%s' uses unregistered route '%s'", n.ID, fetch.Route))
		case served != fetch.Strategy:
			report.Errors = append(report.Errors,
				fmt.Sprintf("node '%s' expects a %s route, but '%s' serves %s", n.ID, fetch.Strategy, fetch.Route, served))
		}
	}

	// Crawler
	visited := make(map[domain.NodeID]bool)
	var queue []domain.NodeID
	for _, n := range g.Nodes() {
		if n.Writable {
			queue = append(queue, n.ID)
		}
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		for _, dep := range g.Dependents(current) {
			if dep.Kind == domain.Propagating && !visited[dep.DependentID] {
				queue = append(queue, dep.DependentID)
			}
		}
	}

	for _, n := range g.Nodes() {
		if visited[n.ID] || n.Computator.Kind() == graph.KindConstant {
			continue
		}
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("node '%s' is never recomputed by an edit; it refreshes only when named explicitly", n.ID))
	}
	return report
}
