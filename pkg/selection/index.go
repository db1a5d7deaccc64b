package selection

import (
	"sort"

	"github.com/vanderheijden86/canopy/pkg/model"
)

// Duplicate records a structural defect: an id that appears on more than one
// node. Count is the total number of occurrences, including the first.
type Duplicate struct {
	ID    string
	Count int
}

// Index maps node ids to nodes for a single tree snapshot. Duplicate ids are
// reported as diagnostics rather than logged, so the host decides how (and
// whether) to surface them; they never alter engine output.
type Index struct {
	Nodes      map[string]*model.Node
	Duplicates []Duplicate
}

// BuildIndex walks the tree iteratively and builds the id lookup map.
// When an id occurs more than once, the first-seen node wins and later
// occurrences are shadowed, not overwritten. An empty tree yields an empty
// index; there is no failure condition.
func BuildIndex(roots []*model.Node) *Index {
	idx := &Index{Nodes: make(map[string]*model.Node)}

	seen := make(map[string]int)
	stack := make([]*model.Node, 0, len(roots))
	// Push in reverse so ids are first seen in document order.
	for i := len(roots) - 1; i >= 0; i-- {
		if roots[i] != nil {
			stack = append(stack, roots[i])
		}
	}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		seen[n.ID]++
		if seen[n.ID] == 1 {
			idx.Nodes[n.ID] = n
		}

		for i := len(n.Children) - 1; i >= 0; i-- {
			if n.Children[i] != nil {
				stack = append(stack, n.Children[i])
			}
		}
	}

	for id, count := range seen {
		if count > 1 {
			idx.Duplicates = append(idx.Duplicates, Duplicate{ID: id, Count: count})
		}
	}
	sort.Slice(idx.Duplicates, func(i, j int) bool {
		return idx.Duplicates[i].ID < idx.Duplicates[j].ID
	})

	return idx
}

// Lookup returns the node for id, or nil when the id is not in the tree.
func (idx *Index) Lookup(id string) *model.Node {
	if idx == nil {
		return nil
	}
	return idx.Nodes[id]
}
