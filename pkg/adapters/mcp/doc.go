/*
Package mcp exposes Lattice sessions as Model Context Protocol tools.

Tools: compute_graph starts a session, update_graph applies edits to one, get_graph
describes the nodes. The graph is also readable as the lattice://graph and
lattice://graph/mermaid resources. Values travel as JSON strings.
*/
package mcp
