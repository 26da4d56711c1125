package types

import "strings"

// StateChange is a single recorded delta at a state path.
type StateChange struct {
	// Path is the dotted location of the change (e.g. "flags.NewCheckout").
	Path string `json:"path" msgpack:"path"`
	// Before is the value prior to the change. Nil for additions.
	Before any `json:"before,omitempty" msgpack:"before,omitempty"`
	// After is the value after the change. Nil for removals.
	After any `json:"after,omitempty" msgpack:"after,omitempty"`
	// Kind classifies the delta.
	Kind ChangeKind `json:"kind" msgpack:"kind"`
	// Metadata carries additional change attributes.
	Metadata map[string]any `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
	// Priority is an optional caller-assigned ordering hint. Timeline
	// views keep recording order and do not sort by it.
	Priority int `json:"priority,omitempty" msgpack:"priority,omitempty"`
}

// ChangeSet is an ordered sequence of state changes.
// Insertion order is preserved; a ChangeSet is returned in every
// execution result, including failures (possibly empty).
type ChangeSet struct {
	changes []StateChange
}

// NewChangeSet creates a ChangeSet from the given changes, preserving order.
func NewChangeSet(changes ...StateChange) ChangeSet {
	cs := ChangeSet{}
	cs.changes = append(cs.changes, changes...)
	return cs
}

// Add appends a change, preserving insertion order.
func (cs *ChangeSet) Add(change StateChange) {
	cs.changes = append(cs.changes, change)
}

// Merge appends all changes from other, preserving both orders.
func (cs *ChangeSet) Merge(other ChangeSet) {
	cs.changes = append(cs.changes, other.changes...)
}

// Changes returns the ordered changes. The returned slice is a copy;
// mutating it does not affect the set.
func (cs ChangeSet) Changes() []StateChange {
	out := make([]StateChange, len(cs.changes))
	copy(out, cs.changes)
	return out
}

// GetChanges returns all changes recorded at exactly the given path,
// in insertion order.
func (cs ChangeSet) GetChanges(path string) []StateChange {
	var out []StateChange
	for _, c := range cs.changes {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// IsChanged returns true if any change was recorded at the given path.
func (cs ChangeSet) IsChanged(path string) bool {
	for _, c := range cs.changes {
		if c.Path == path {
			return true
		}
	}
	return false
}

// ChangedPaths returns the distinct changed paths in first-seen order.
func (cs ChangeSet) ChangedPaths() []string {
	seen := make(map[string]bool, len(cs.changes))
	var out []string
	for _, c := range cs.changes {
		if !seen[c.Path] {
			seen[c.Path] = true
			out = append(out, c.Path)
		}
	}
	return out
}

// Len returns the number of recorded changes.
func (cs ChangeSet) Len() int {
	return len(cs.changes)
}

// IsEmpty returns true if no changes are recorded.
func (cs ChangeSet) IsEmpty() bool {
	return len(cs.changes) == 0
}

// PathTouches returns true if path is at or under prefix using dotted
// path segments: "flags.X" touches "flags" and "flags.X" but not "flag".
func PathTouches(path, prefix string) bool {
	if prefix == "" || path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+".")
}
