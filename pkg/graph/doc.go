/*
Package graph is the Graph Store of the Lattice engine and the home of its computators.

A Graph holds nodes in declaration order, the forward edges of each node and a reverse
index (dependency -> dependents) used by incremental evaluation. Its topology is frozen
once built; only values change, through SetMany, Restore or an evaluation pass (Commit).

Edges come in two kinds:

  - Propagating (On): a change on the target recomputes the dependent.
  - ResetOnly (ResetOn): advisory; the dependent is only recomputed when named explicitly.

Computators (Constant, RemoteFetch, RangeClamped, Aggregate) read other nodes through
references of the form "node/id" or "node/id:key", resolved by DerefFrom.
*/
package graph
