package domain

import (
	"fmt"
	"slices"
	"strings"
)

// NodeID identifies a node within a graph.
type NodeID string

// EdgeKind defines how a change on the dependency reaches the dependent.
type EdgeKind int

const (
	// Propagating edges trigger recomputation of the dependent when the target changes.
	Propagating EdgeKind = iota
	// ResetOnly edges are informational: they never trigger recomputation on their own.
	ResetOnly
)

func (k EdgeKind) String() string {
	switch k {
	case Propagating:
		return "propagating"
	case ResetOnly:
		return "reset_only"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind with its string name.
func (k EdgeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes "propagating" or "reset_only".
func (k *EdgeKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "propagating", "":
		*k = Propagating
	case "reset_only":
		*k = ResetOnly
	default:
		return fmt.Errorf("unknown edge kind %q", string(text))
	}
	return nil
}

// Edge is a forward dependency from a node to its Target.
type Edge struct {
	Target NodeID   `json:"target" yaml:"target"`
	Kind   EdgeKind `json:"kind" yaml:"kind"`
}

// Dependent is an entry of the reverse index: DependentID depends on the indexed node.
type Dependent struct {
	DependentID NodeID   `json:"dependent_id"`
	Kind        EdgeKind `json:"kind"`
}

// Snapshot is the outcome of evaluating a single node.
type Snapshot struct {
	ID            NodeID   `json:"id"`
	Value         Value    `json:"value"`
	DependencyIDs []NodeID `json:"dependencies"`
	Writable      bool     `json:"writable"`
}

// NodeInfo describes a node's shape without its value.
type NodeInfo struct {
	ID         NodeID `json:"id"`
	Computator string `json:"computator"`
	Edges      []Edge `json:"edges"`
	Writable   bool   `json:"writable"`
}

// IDSet is an unordered set of node identifiers.
type IDSet map[NodeID]struct{}

// NewIDSet creates a set holding the given ids.
func NewIDSet(ids ...NodeID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s IDSet) Has(id NodeID) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id and reports whether it was absent.
func (s IDSet) Add(id NodeID) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Clone returns an independent copy of the set.
func (s IDSet) Clone() IDSet {
	c := make(IDSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Sorted returns the members in lexical order.
func (s IDSet) Sorted() []NodeID {
	ids := make([]NodeID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ParseIDs converts a comma separated list ("a, b.value") into a set.
func ParseIDs(list string) IDSet {
	s := NewIDSet()
	for _, part := range strings.Split(list, ",") {
		if id := strings.TrimSpace(part); id != "" {
			s.Add(NodeID(id))
		}
	}
	return s
}
