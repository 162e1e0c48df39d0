// Package file provides a ports.ValueStore that keeps one JSON file per session.
// It is the default store of the lattice CLI, so sessions survive between invocations.
package file
