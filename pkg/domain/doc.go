/*
Package domain contains the core types shared by every layer of the Lattice engine.

It defines node identifiers, dependency edges, the JSON-shaped Value model, evaluation
snapshots and the error taxonomy. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - NodeID: Opaque, unique, conventionally hierarchical identifier ("reviewer.value").
  - Edge: A dependency on another node, either Propagating or ResetOnly.
  - Value: Any JSON-shaped value (scalar, list, mapping or ordered Mapping).
  - Snapshot: The result of evaluating one node during a pass.
  - RemoteCall: The request handed to the host's remote resolver by fetch nodes.
*/
package domain
