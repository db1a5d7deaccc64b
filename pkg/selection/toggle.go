package selection

import "github.com/vanderheijden86/canopy/pkg/model"

// Toggle applies a single user-driven check/uncheck of one node to the
// current canonical set and returns the next canonical set. The input set is
// never mutated. The operation consults only node identity and tree shape,
// never labels or sibling order.
func Toggle(node *model.Node, checked bool, current Set, mode model.Mode, roots []*model.Node) Set {
	next := current.Clone()
	if node == nil {
		return next
	}

	if mode == model.ModeTopLevel {
		if checked {
			// A selected ancestor already covers this node; adding it would
			// break the antichain, so the existing selection wins.
			for ancestor := range AncestorsOf(Set{node.ID: true}, roots) {
				if next[ancestor] {
					return next
				}
			}
			// Previously independent descendant selections are subsumed.
			for _, desc := range Descendants(node) {
				delete(next, desc)
			}
			next[node.ID] = true
		} else {
			// Uncheck releases only this branch root; independently selected
			// descendants stay untouched.
			delete(next, node.ID)
		}
		return next
	}

	// Cascade: the whole subtree moves together.
	if checked {
		next[node.ID] = true
		for _, desc := range Descendants(node) {
			next[desc] = true
		}
	} else {
		delete(next, node.ID)
		for _, desc := range Descendants(node) {
			delete(next, desc)
		}
		// A selected ancestor no longer covers its whole subtree, so it
		// leaves the set and renders indeterminate from here on.
		for ancestor := range AncestorsOf(Set{node.ID: true}, roots) {
			delete(next, ancestor)
		}
	}
	return next
}
