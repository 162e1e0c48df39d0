/*
Package session implements session management for hosts that keep state between interactions.

Lattice graphs live for one request. A session keeps only the committed node values,
so the next request can build the graph again, Restore the values and run an
incremental pass. The Manager serializes interactions on the same session, locally
with a ref-counted mutex and across replicas with an optional ports.DistributedLocker.
*/
package session
