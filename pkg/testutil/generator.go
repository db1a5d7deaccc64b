// Package testutil provides tree builders, assertion helpers, and golden
// file support shared by tests across the repository.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/vanderheijden86/canopy/pkg/model"
)

// NT builds a node with the given id and children. The label defaults to the
// id, which keeps fixtures compact; use NTL when the label matters.
func NT(id string, children ...*model.Node) *model.Node {
	return &model.Node{ID: id, Label: id, Children: children}
}

// NTL builds a node with an explicit label.
func NTL(id, label string, children ...*model.Node) *model.Node {
	return &model.Node{ID: id, Label: label, Children: children}
}

// FruitTree is the standard small fixture used throughout the engine tests:
//
//	fruits
//	├── apple
//	├── banana
//	└── citrus
//	    ├── orange
//	    └── lemon
func FruitTree() []*model.Node {
	return []*model.Node{
		NT("fruits",
			NT("apple"),
			NT("banana"),
			NT("citrus",
				NT("orange"),
				NT("lemon"),
			),
		),
	}
}

// Chain builds a single root with a linear chain of descendants:
// prefix-0 → prefix-1 → ... → prefix-(depth-1).
func Chain(prefix string, depth int) *model.Node {
	if depth <= 0 {
		return nil
	}
	node := NT(fmt.Sprintf("%s-%d", prefix, depth-1))
	for i := depth - 2; i >= 0; i-- {
		node = NT(fmt.Sprintf("%s-%d", prefix, i), node)
	}
	return node
}

// RandomTree builds a deterministic pseudo-random tree with size nodes, for
// benchmarks and stress tests. The same seed always yields the same shape.
func RandomTree(seed int64, size int) []*model.Node {
	rng := rand.New(rand.NewSource(seed))

	var nodes []*model.Node
	for i := 0; i < size; i++ {
		n := NT(fmt.Sprintf("n-%d", i))
		if len(nodes) == 0 {
			nodes = append(nodes, n)
			continue
		}
		parent := nodes[rng.Intn(len(nodes))]
		parent.Children = append(parent.Children, n)
		nodes = append(nodes, n)
	}
	if len(nodes) == 0 {
		return nil
	}
	return []*model.Node{nodes[0]}
}

// AllIDs returns every id reachable from the roots, in pre-order.
func AllIDs(roots []*model.Node) []string {
	var ids []string
	var walk func(n *model.Node)
	walk = func(n *model.Node) {
		if n == nil {
			return
		}
		ids = append(ids, n.ID)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return ids
}
