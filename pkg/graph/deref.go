package graph

import (
	"fmt"

	"github.com/aretw0/lattice/pkg/domain"
)

// ValueSource exposes node existence and committed values to DerefFrom.
type ValueSource interface {
	Has(id domain.NodeID) bool
	Current(id domain.NodeID) (domain.Value, bool)
}

// DerefFrom resolves ref ("id" or "id:key") against src.
// The node must exist and hold a value; a key requires the value to be a mapping
// that contains it.
func DerefFrom(src ValueSource, ref string) (domain.Value, error) {
	r, err := domain.ParseRef(ref)
	if err != nil {
		return nil, err
	}
	if !src.Has(r.Node) {
		return nil, &domain.DerefError{Ref: ref, Reason: fmt.Sprintf("node %q does not exist", r.Node)}
	}

	v, ok := src.Current(r.Node)
	if !ok {
		return nil, &domain.DerefError{Ref: ref, Reason: fmt.Sprintf("node %q has not been computed", r.Node)}
	}
	if !r.HasKey() {
		return v, nil
	}

	field, found, isMapping := domain.Lookup(v, r.Key)
	if !isMapping {
		return nil, &domain.DerefError{Ref: ref, Reason: fmt.Sprintf("value of %q is %T, not a mapping", r.Node, v)}
	}
	if !found {
		return nil, &domain.DerefError{Ref: ref, Reason: fmt.Sprintf("key %q is absent", r.Key)}
	}
	return field, nil
}
