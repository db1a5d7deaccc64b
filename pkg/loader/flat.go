package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/canopy/pkg/model"
)

// DefaultMaxBufferSize is the default maximum JSONL line size (1MB).
const DefaultMaxBufferSize = 1024 * 1024

// flatRow is one JSONL line: a node plus its parent reference. Position
// orders siblings; rows with equal positions keep input order.
type flatRow struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Parent   string `json:"parent,omitempty"`
	Position int    `json:"position,omitempty"`
}

// ParseFlat assembles a tree from flat JSONL rows. Malformed lines and rows
// without an id are skipped with a warning; rows referencing a missing
// parent are promoted to roots. Parent cycles are broken at the revisited
// row, which is also promoted to a root.
func ParseFlat(r io.Reader, opts ParseOptions) ([]*model.Node, error) {
	warn := opts.warn()

	maxCapacity := opts.BufferSize
	if maxCapacity <= 0 {
		maxCapacity = DefaultMaxBufferSize
	}
	reader := bufio.NewReaderSize(r, maxCapacity)

	var rows []flatRow
	lineNum := 0
	for {
		lineNum++
		line, isPrefix, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading nodes stream at line %d: %w", lineNum, err)
		}

		if isPrefix {
			warn(fmt.Sprintf("skipping line %d: line too long (exceeds %d bytes)", lineNum, maxCapacity))
			for isPrefix {
				_, isPrefix, err = reader.ReadLine()
				if err == io.EOF {
					break
				}
				if err != nil {
					return nil, fmt.Errorf("error skipping long line at line %d: %w", lineNum, err)
				}
			}
			continue
		}

		if len(line) == 0 {
			continue
		}
		if lineNum == 1 {
			line = stripBOM(line)
		}

		var row flatRow
		if err := json.Unmarshal(line, &row); err != nil {
			warn(fmt.Sprintf("skipping malformed JSON on line %d: %v", lineNum, err))
			continue
		}
		if row.ID == "" {
			warn(fmt.Sprintf("skipping row on line %d: missing id", lineNum))
			continue
		}
		rows = append(rows, row)
	}

	return buildTree(rows), nil
}

// buildTree turns flat rows into an ownership tree.
func buildTree(rows []flatRow) []*model.Node {
	if len(rows) == 0 {
		return nil
	}

	byID := make(map[string]*flatRow, len(rows))
	childrenOf := make(map[string][]*flatRow)
	for i := range rows {
		row := &rows[i]
		if _, exists := byID[row.ID]; !exists {
			byID[row.ID] = row
		}
		if row.Parent != "" {
			childrenOf[row.Parent] = append(childrenOf[row.Parent], row)
		}
	}

	// Stable sibling order: position first, then input order.
	for parent := range childrenOf {
		siblings := childrenOf[parent]
		sort.SliceStable(siblings, func(i, j int) bool {
			return siblings[i].Position < siblings[j].Position
		})
	}

	// Roots: rows with no parent, or whose parent row does not exist.
	var roots []*model.Node
	visited := make(map[string]bool)
	var build func(row *flatRow) *model.Node
	build = func(row *flatRow) *model.Node {
		if visited[row.ID] {
			// Revisited on the current path: break the cycle here.
			return nil
		}
		visited[row.ID] = true
		defer func() { visited[row.ID] = false }()

		node := &model.Node{ID: row.ID, Label: row.Label}
		if node.Label == "" {
			node.Label = row.ID
		}
		for _, child := range childrenOf[row.ID] {
			if cn := build(child); cn != nil {
				node.Children = append(node.Children, cn)
			}
		}
		return node
	}

	for i := range rows {
		row := &rows[i]
		if row.Parent != "" {
			if _, parentExists := byID[row.Parent]; parentExists {
				continue
			}
		}
		if n := build(row); n != nil {
			roots = append(roots, n)
		}
	}

	// Rows only reachable through a cycle have a parent that exists but
	// were never attached; promote one representative per cycle.
	attached := make(map[string]bool)
	var mark func(n *model.Node)
	mark = func(n *model.Node) {
		attached[n.ID] = true
		for _, c := range n.Children {
			mark(c)
		}
	}
	for _, r := range roots {
		mark(r)
	}
	for i := range rows {
		row := &rows[i]
		if attached[row.ID] {
			continue
		}
		if n := build(row); n != nil {
			roots = append(roots, n)
			mark(n)
		}
	}

	return roots
}

// stripBOM removes the UTF-8 Byte Order Mark if present.
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
