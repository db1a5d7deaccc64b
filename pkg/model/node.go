// Package model defines the tree node shape and the selection enums shared
// by the engine, loaders, and UI.
package model

import "fmt"

// Node is a single labeled tree node. Trees are pure ownership structures:
// children are owned, there are no parent back-references, and the engine
// derives ancestor relations by traversal.
type Node struct {
	ID       string  `json:"id" yaml:"id"`
	Label    string  `json:"label" yaml:"label"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Validate checks the minimal per-node contract. Tree-level invariants
// (unique ids) are checked by selection.BuildIndex, not here.
func (n *Node) Validate() error {
	if n == nil {
		return fmt.Errorf("nil node")
	}
	if n.ID == "" {
		return fmt.Errorf("node is missing an id")
	}
	return nil
}

// Leaf reports whether the node has no children.
func (n *Node) Leaf() bool {
	return n == nil || len(n.Children) == 0
}

// Count returns the number of nodes in the subtree rooted at n, including n.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// CountNodes returns the total number of nodes reachable from the roots.
func CountNodes(roots []*Node) int {
	total := 0
	for _, r := range roots {
		total += r.Count()
	}
	return total
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (%q, %d children)", n.ID, n.Label, len(n.Children))
}
