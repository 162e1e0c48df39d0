package domain

import "strings"

// Ref is a parsed reference string of the form "node/id" or "node/id:key".
type Ref struct {
	Node NodeID
	Key  string
}

// HasKey reports whether the reference indexes into the node's value.
func (r Ref) HasKey() bool {
	return r.Key != ""
}

func (r Ref) String() string {
	if r.Key == "" {
		return string(r.Node)
	}
	return string(r.Node) + ":" + r.Key
}

// ParseRef splits a reference on its last ':'.
// The part before is a NodeID; the optional part after is a '.'-free mapping key.
func ParseRef(ref string) (Ref, error) {
	idx := strings.LastIndex(ref, ":")
	if idx < 0 {
		if ref == "" {
			return Ref{}, &DerefError{Ref: ref, Reason: "empty reference"}
		}
		return Ref{Node: NodeID(ref)}, nil
	}

	node, key := ref[:idx], ref[idx+1:]
	switch {
	case node == "":
		return Ref{}, &DerefError{Ref: ref, Reason: "missing node id"}
	case key == "":
		return Ref{}, &DerefError{Ref: ref, Reason: "empty key"}
	case strings.Contains(key, "."):
		return Ref{}, &DerefError{Ref: ref, Reason: "nested keys are not supported"}
	}
	return Ref{Node: NodeID(node), Key: key}, nil
}

// RefNode returns the node a reference points at, ignoring malformed keys.
// It is used to derive dependency edges from references at construction time.
func RefNode(ref string) NodeID {
	if r, err := ParseRef(ref); err == nil {
		return r.Node
	}
	if idx := strings.LastIndex(ref, ":"); idx >= 0 {
		return NodeID(ref[:idx])
	}
	return NodeID(ref)
}
