package selection

import "github.com/vanderheijden86/canopy/pkg/model"

// AncestorsOf returns the union of ancestor ids for every target id, found
// by depth-first path search from the roots. Ids are unique by contract, so
// the search for a target stops at the first root subtree containing it.
// Targets that are not present in the tree contribute no ancestors and are
// silently skipped.
func AncestorsOf(targets Set, roots []*model.Node) Set {
	out := make(Set)
	if len(targets) == 0 {
		return out
	}
	for id := range targets {
		for _, root := range roots {
			path, found := pathAbove(root, id, nil)
			if found {
				for _, ancestor := range path {
					out[ancestor] = true
				}
				break
			}
		}
	}
	return out
}

// pathAbove searches the subtree at n for target and returns the ids
// strictly above the match. The trail accumulates the current path from the
// root down to (and including) n.
func pathAbove(n *model.Node, target string, trail []string) ([]string, bool) {
	if n == nil {
		return nil, false
	}
	if n.ID == target {
		// Copy: the trail slice is reused across sibling branches.
		path := make([]string, len(trail))
		copy(path, trail)
		return path, true
	}
	trail = append(trail, n.ID)
	for _, c := range n.Children {
		if path, found := pathAbove(c, target, trail); found {
			return path, true
		}
	}
	return nil, false
}
