// Package registry serves remote routes from in-process Go functions.
//
// A Registry is the simplest ports.RemoteResolver: hosts register port routes
// (single value) and query routes (lists), optionally with a params schema, and
// hand the registry to lattice.WithResolver.
package registry
