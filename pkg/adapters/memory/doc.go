// Package memory provides an in-process ports.ValueStore, for tests and single-replica hosts.
package memory
