package selection

import "github.com/vanderheijden86/canopy/pkg/model"

// NodeState is the display state of one node for one render pass.
//
// Disabled is only ever true for a non-member node below a selected
// ancestor. That situation exists only in top-level mode (cascade closure
// makes every covered descendant a member, hence Checked and enabled), so
// the renderer may grey such nodes out without consulting the mode.
type NodeState struct {
	Value    model.TriState
	Disabled bool
}

// StateOf computes the tri-state value for rendering. ancestorSelected is
// threaded top-down by the caller's traversal: true once any strict ancestor
// of node is a member of the canonical set.
func StateOf(node *model.Node, sel Set, ancestorSelected bool) NodeState {
	if node == nil {
		return NodeState{Value: model.Unchecked}
	}
	if sel.Has(node.ID) {
		return NodeState{Value: model.Checked}
	}
	if ancestorSelected {
		return NodeState{Value: model.Indeterminate, Disabled: true}
	}
	if hasUnshadowedSelection(node, sel) {
		return NodeState{Value: model.Indeterminate}
	}
	return NodeState{Value: model.Unchecked}
}

// hasUnshadowedSelection reports whether the subtree below n contains a
// selected node reachable without crossing another selected node. The first
// selected node on a path claims its subtree, so a selected grandchild under
// a selected child does not report separately.
func hasUnshadowedSelection(n *model.Node, sel Set) bool {
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if sel.Has(c.ID) {
			return true
		}
		if hasUnshadowedSelection(c, sel) {
			return true
		}
	}
	return false
}
