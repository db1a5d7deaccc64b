package selection

import "github.com/vanderheijden86/canopy/pkg/model"

// Normalize computes the canonical selection set for a raw id list under the
// given mode. The result is a pure function of (tree, rawIDs, mode): the
// order of rawIDs never affects membership, only de-duplication matters.
//
// Ids that are not present in the tree are preserved verbatim by both modes:
// an unknown id behaves as a standalone, childless, ancestor-less selection.
func Normalize(roots []*model.Node, rawIDs []string, mode model.Mode) Set {
	raw := NewSet(rawIDs...)
	if len(raw) == 0 {
		return raw
	}

	idx := BuildIndex(roots)

	switch mode {
	case model.ModeTopLevel:
		// Antichain: drop any candidate whose strict ancestor is also a
		// candidate; it is subsumed by that ancestor.
		out := make(Set, len(raw))
		for id := range raw {
			subsumed := false
			for ancestor := range AncestorsOf(Set{id: true}, roots) {
				if raw[ancestor] {
					subsumed = true
					break
				}
			}
			if !subsumed {
				out[id] = true
			}
		}
		return out

	default:
		// Cascade: close the set under descent for every id that resolves
		// to a node in this tree.
		out := make(Set, len(raw))
		for id := range raw {
			out[id] = true
			if node := idx.Lookup(id); node != nil {
				for _, desc := range Descendants(node) {
					out[desc] = true
				}
			}
		}
		return out
	}
}
