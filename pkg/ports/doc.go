/*
Package ports defines the driven ports (interfaces) for the Lattice engine.

These interfaces decouple the core evaluation logic from the host application, allowing
the engine to work with any remote backend, session storage or lock provider.

# Key Interfaces

  - RemoteResolver: Resolves the remote routes used by fetch nodes (owned by the host).
  - ValueStore: Persists the committed node values of an interaction session.
  - DistributedLocker: Provides distributed locking for concurrent access to one session.
*/
package ports
