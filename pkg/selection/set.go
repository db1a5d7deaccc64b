package selection

import "sort"

// Set is a set of node ids. The canonical selection set and the expansion
// set are both Sets; only the owning caller mutates them.
type Set map[string]bool

// NewSet builds a set from the given ids, de-duplicating.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Has reports membership. Safe on a nil set.
func (s Set) Has(id string) bool {
	return s[id]
}

// Add inserts id into the set.
func (s Set) Add(id string) {
	s[id] = true
}

// Remove deletes id from the set.
func (s Set) Remove(id string) {
	delete(s, id)
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for id := range s {
		out[id] = true
	}
	return out
}

// IDs returns the member ids in sorted order, for deterministic reporting.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Equal reports whether two sets have the same members.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other[id] {
			return false
		}
	}
	return true
}
