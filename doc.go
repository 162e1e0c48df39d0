/*
Package lattice is an incremental state computation engine for dependency graphs of named values.

A host declares nodes (constants, free-form inputs, remotely fetched data, range-validated
selections and aggregates) and the edges between them. Lattice computes every node's value
and, after a change, recomputes only the nodes the change actually affects.

# Concept

Each edge has a kind. A Propagating edge means "recompute me when my dependency changes".
A ResetOnly edge means "I read this dependency, but a change there should not recompute me
on its own". A node reached only through ResetOnly edges is refreshed when the host names it
explicitly, typically because the user pressed a button rather than changing a field.

Graphs are built once per request, evaluated, and thrown away. The engine keeps no state
between passes; hosts that need continuity persist committed values and Restore them.

# Usage

	b := dsl.New()
	b.Add("reviewers.data").Query("reviewers")
	b.Add("reviewers.value").Clamp("reviewers.data", nil)
	b.Add("years.data").Query("years").Param("reviewer", "reviewers.value")
	b.Add("years.value").Clamp("years.data", nil)
	b.Add("filter").Aggregate().
		Field("reviewer", "reviewers.value").
		Field("year", "years.value").
		Passive()

	g, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	eng := lattice.New(lattice.WithResolver(myResolver))
	if _, err := eng.Compute(ctx, g); err != nil {
		log.Fatal(err)
	}

	// The user picked reviewer 1: years are refetched, the filter is not.
	snapshots, visited, err := eng.Apply(ctx, g, map[domain.NodeID]domain.Value{"reviewers.value": 1})

# Observability

Lattice uses log/slog for structured logging and exposes domain.LifecycleHooks for pass,
node and remote-call events. See pkg/observability for a Prometheus binding.
*/
package lattice
