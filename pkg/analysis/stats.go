// Package analysis computes tree-shape and selection-coverage statistics
// for the --stats report.
package analysis

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/canopy/pkg/model"
	"github.com/vanderheijden86/canopy/pkg/selection"
)

// TreeStats summarizes the shape of a node forest and how much of it a
// selection covers.
type TreeStats struct {
	NodeCount int
	LeafCount int
	RootCount int
	MaxDepth  int // 1-based: a lone root has depth 1

	// Branching factor over internal (non-leaf) nodes.
	BranchingMean   float64
	BranchingStdDev float64

	// Selection coverage.
	SelectedCount int     // members of the canonical set that resolve in the tree
	UnknownCount  int     // members that do not resolve to any node
	Coverage      float64 // resolved members / node count, 0 when the tree is empty
}

// Compute walks the forest once and derives all statistics. Duplicate ids
// count once, matching the selection index's first-occurrence rule.
func Compute(roots []*model.Node, sel selection.Set) TreeStats {
	s := TreeStats{RootCount: len(roots)}

	seen := make(map[string]bool)
	var branching []float64

	var walk func(n *model.Node, depth int)
	walk = func(n *model.Node, depth int) {
		if n == nil || seen[n.ID] {
			return
		}
		seen[n.ID] = true
		s.NodeCount++
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		if len(n.Children) == 0 {
			s.LeafCount++
		} else {
			branching = append(branching, float64(len(n.Children)))
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 1)
	}

	if len(branching) > 0 {
		s.BranchingMean = stat.Mean(branching, nil)
		if len(branching) > 1 {
			s.BranchingStdDev = stat.StdDev(branching, nil)
		}
	}

	for id := range sel {
		if seen[id] {
			s.SelectedCount++
		} else {
			s.UnknownCount++
		}
	}
	if s.NodeCount > 0 {
		s.Coverage = float64(s.SelectedCount) / float64(s.NodeCount)
	}

	return s
}

// Summary renders the stats as an aligned plain-text block.
func (s TreeStats) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Nodes:      %d (%d roots, %d leaves)\n", s.NodeCount, s.RootCount, s.LeafCount)
	fmt.Fprintf(&sb, "Max depth:  %d\n", s.MaxDepth)
	fmt.Fprintf(&sb, "Branching:  %.2f ± %.2f\n", s.BranchingMean, s.BranchingStdDev)
	fmt.Fprintf(&sb, "Selected:   %d (%.1f%% coverage)\n", s.SelectedCount, s.Coverage*100)
	if s.UnknownCount > 0 {
		fmt.Fprintf(&sb, "Unknown:    %d selected id(s) not in tree\n", s.UnknownCount)
	}
	return sb.String()
}
