package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrDuplicateNode  = errors.New("duplicate node")
	ErrUnknownNode    = errors.New("unknown node")
	ErrUnwritableNode = errors.New("unwritable node")
	ErrDeref          = errors.New("dereference failed")
	ErrCycle          = errors.New("dependency cycle")
	ErrRemote         = errors.New("remote resolution failed")
)

// ErrNoResolver is returned by fetch nodes when the engine has no remote resolver.
var ErrNoResolver = errors.New("no remote resolver configured")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// DuplicateNodeError is returned by Add when the id is already registered.
type DuplicateNodeError struct {
	ID NodeID
}

func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("node %q already exists", e.ID)
}

func (e *DuplicateNodeError) Is(target error) bool { return target == ErrDuplicateNode }

// UnknownNodeError is returned when an operation names a node that is not in the graph.
type UnknownNodeError struct {
	ID NodeID
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("node %q does not exist", e.ID)
}

func (e *UnknownNodeError) Is(target error) bool { return target == ErrUnknownNode }

// UnwritableNodeError is returned by SetMany for nodes that only change through their computator.
type UnwritableNodeError struct {
	ID NodeID
}

func (e *UnwritableNodeError) Error() string {
	return fmt.Sprintf("node %q is not writable", e.ID)
}

func (e *UnwritableNodeError) Is(target error) bool { return target == ErrUnwritableNode }

// DerefError represents a reference that could not be resolved to a value.
type DerefError struct {
	Ref    string
	Reason string
}

func (e *DerefError) Error() string {
	return fmt.Sprintf("cannot dereference %q: %s", e.Ref, e.Reason)
}

func (e *DerefError) Is(target error) bool { return target == ErrDeref }

// CycleError reports a loop over Propagating edges. Path starts and ends on the same node.
type CycleError struct {
	Path []NodeID
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = string(id)
	}
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(parts, " -> "))
}

func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// RemoteError wraps a failure raised while resolving a remote route.
// The engine never creates it; resolvers do, and it travels to the caller untouched.
type RemoteError struct {
	Route string
	Err   error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote route %q: %v", e.Route, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// IsConstructionError reports whether err is one of the engine's own
// programming-error class failures (as opposed to a remote failure).
func IsConstructionError(err error) bool {
	for _, target := range []error{ErrDuplicateNode, ErrUnknownNode, ErrUnwritableNode, ErrDeref, ErrCycle} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
