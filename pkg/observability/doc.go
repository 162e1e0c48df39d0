/*
Package observability provides tools for monitoring and introspecting the Lattice engine.

Everything here is built on domain.LifecycleHooks: Metrics exports Prometheus collectors,
Trace records events for inspection and tests, and LogHooks writes them to a slog.Logger.
Combine several with LifecycleHooks.Chain.
*/
package observability
