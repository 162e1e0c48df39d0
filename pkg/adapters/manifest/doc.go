/*
Package manifest loads Lattice graphs from YAML or JSON documents.

	name: reviewer-filter
	nodes:
	  - id: A.data
	    kind: query
	    route: reviewers
	  - id: A.value
	    kind: clamp
	    source: A.data
	  - id: B.data
	    kind: query
	    route: years
	    params: {reviewer: A.value}
	  - id: combinedFilter
	    kind: aggregate
	    passive: true
	    fields:
	      - {key: A, ref: A.value}

Kinds are constant, value, fetch, query, clamp and aggregate. References in params,
fields and source become Propagating edges, or ResetOnly edges on passive nodes;
dependencies adds explicit ones, written as a bare id or {id, reset_only}.
*/
package manifest
