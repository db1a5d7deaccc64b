package selection

import "github.com/vanderheijden86/canopy/pkg/model"

// Descendants returns every id in the subtree below node, excluding the node
// itself, in pre-order. Not memoized: callers invoke it once per toggle or
// normalization step, so a plain walk is cheaper than cache bookkeeping.
func Descendants(node *model.Node) []string {
	if node == nil || len(node.Children) == 0 {
		return nil
	}
	var ids []string
	var walk func(n *model.Node)
	walk = func(n *model.Node) {
		ids = append(ids, n.ID)
		for _, c := range n.Children {
			if c != nil {
				walk(c)
			}
		}
	}
	for _, c := range node.Children {
		if c != nil {
			walk(c)
		}
	}
	return ids
}
