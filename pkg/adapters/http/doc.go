/*
Package http serves Lattice sessions over HTTP with a chi router.

	POST   /v1/sessions              start a session (full evaluation)
	POST   /v1/sessions/{id}/update  apply edits and recompute the affected nodes
	GET    /v1/sessions              list session ids
	GET    /v1/sessions/{id}         stored snapshots of a session
	DELETE /v1/sessions/{id}         drop a session
	GET    /v1/graph                 node shapes and edges
	GET    /v1/graph/mermaid         Mermaid flowchart of the graph
	GET    /health
	GET    /metrics                  Prometheus exposition

Construction errors map to 400, unknown sessions to 404, remote failures to 502, and
anything else to 500. Error bodies are {"error": "..."}.
*/
package http
