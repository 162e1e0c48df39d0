// Package runtime implements the evaluation passes of the Lattice engine.
//
// Compute evaluates a whole graph; ComputeUpdate recomputes only the nodes that a
// set of changes reaches through Propagating edges. Both plan the pass first, run
// every planned node once, and commit the staged values only when the pass succeeds.
package runtime
