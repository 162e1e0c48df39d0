package domain

import "slices"

// Delta represents the changes between two sets of committed values.
// It is designed to be serialized to JSON for partial updates on the client.
type Delta struct {
	// Changed holds added or modified values.
	Changed map[NodeID]Value `json:"changed,omitempty"`

	// Removed lists nodes that no longer hold a value.
	Removed []NodeID `json:"removed,omitempty"`
}

// Diff calculates the difference between oldValues and newValues.
// A nil oldValues makes every new value a change (initial load). Values are
// compared with Equal, so a JSON round trip alone never counts as a change.
// It returns nil when nothing changed.
func Diff(oldValues, newValues map[NodeID]Value) *Delta {
	delta := &Delta{}

	for id, newVal := range newValues {
		oldVal, exists := oldValues[id]
		if exists && Equal(oldVal, newVal) {
			continue
		}
		if delta.Changed == nil {
			delta.Changed = make(map[NodeID]Value)
		}
		delta.Changed[id] = newVal
	}

	for id := range oldValues {
		if _, exists := newValues[id]; !exists {
			delta.Removed = append(delta.Removed, id)
		}
	}
	slices.Sort(delta.Removed)

	if delta.IsEmpty() {
		return nil
	}
	return delta
}

// IsEmpty checks if the delta contains any actionable changes.
func (d *Delta) IsEmpty() bool {
	return d == nil || (len(d.Changed) == 0 && len(d.Removed) == 0)
}

// Has reports whether id was changed or removed.
func (d *Delta) Has(id NodeID) bool {
	if d == nil {
		return false
	}
	if _, ok := d.Changed[id]; ok {
		return true
	}
	return slices.Contains(d.Removed, id)
}
