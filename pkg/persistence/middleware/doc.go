// Package middleware wraps a ports.ValueStore with encryption at rest and masking of
// sensitive values. Wrappers compose with Chain.
package middleware
