// tree.go - Hierarchical checkbox tree view over a node forest.
package ui

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/canopy/pkg/model"
	"github.com/vanderheijden86/canopy/pkg/selection"
)

// TreeState is the persistent expand/collapse state of the tree view, saved
// to <state-dir>/tree-state.json so it survives across sessions.
//
// File format (JSON):
//
//	{
//	  "version": 1,
//	  "expanded": {
//	    "fruits": true,   // explicitly expanded
//	    "citrus": false   // explicitly collapsed
//	  }
//	}
//
// Only explicit user changes are stored; nodes not in the map use the default
// (expanded for depth < 1, plus ancestors of the initial selection). A
// corrupted or missing file falls back to defaults silently.
type TreeState struct {
	Version  int             `json:"version"`
	Expanded map[string]bool `json:"expanded"`
}

// TreeStateVersion is the current schema version for tree persistence.
const TreeStateVersion = 1

const treeStateFileName = "tree-state.json"

// TreeStatePath returns the path to the tree state file under stateDir.
func TreeStatePath(stateDir string) string {
	return filepath.Join(stateDir, treeStateFileName)
}

// TreeNode wraps a data node with view state.
type TreeNode struct {
	Node     *model.Node
	Children []*TreeNode
	Parent   *TreeNode
	Depth    int
	Expanded bool
}

// TreeModel manages the checkbox tree view state: cursor, expansion,
// selection, and search. The canonical selection set is kept normalized for
// the active mode at all times.
type TreeModel struct {
	roots      []*TreeNode
	dataRoots  []*model.Node
	flatList   []*TreeNode
	cursor     int
	theme      Theme
	mode       model.Mode
	selected   selection.Set
	nodeMap    map[string]*TreeNode
	duplicates []selection.Duplicate

	width          int
	height         int
	viewportOffset int

	built    bool
	stateDir string

	// Search state
	searchQuery      string
	searchMatches    []*TreeNode
	searchMatchIndex int
	searchMatchIDs   map[string]bool
	contextAncestors map[string]bool
}

// NewTreeModel creates an empty tree model.
func NewTreeModel(theme Theme) TreeModel {
	return TreeModel{
		theme:    theme,
		mode:     model.ModeCascade,
		selected: selection.Set{},
		nodeMap:  make(map[string]*TreeNode),
	}
}

// SetStateDir sets the directory used for expand/collapse persistence. If
// never called, persistence is skipped entirely.
func (t *TreeModel) SetStateDir(dir string) {
	t.stateDir = dir
}

// SetSize updates the available dimensions for the tree view.
func (t *TreeModel) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// Build constructs the view tree from data roots, normalizes the raw
// selection for the given mode, seeds expansion so every selected node is
// visible, then applies persisted expand/collapse state on top.
func (t *TreeModel) Build(roots []*model.Node, rawSelection []string, mode model.Mode) {
	t.roots = nil
	t.flatList = nil
	t.nodeMap = make(map[string]*TreeNode)
	t.cursor = 0
	t.viewportOffset = 0
	t.dataRoots = roots
	t.mode = mode

	idx := selection.BuildIndex(roots)
	t.duplicates = idx.Duplicates
	t.selected = selection.Normalize(roots, rawSelection, mode)

	seed := selection.SeedExpanded(t.selected, roots)
	for _, root := range roots {
		if node := t.buildNode(root, 0, nil, seed); node != nil {
			t.roots = append(t.roots, node)
		}
	}

	t.loadState()
	t.rebuildFlatList()
	t.built = true
}

// buildNode wraps a data node and its subtree. First occurrence wins for
// duplicate ids in the lookup map, matching the selection index.
func (t *TreeModel) buildNode(n *model.Node, depth int, parent *TreeNode, seed selection.Set) *TreeNode {
	if n == nil {
		return nil
	}

	node := &TreeNode{
		Node:     n,
		Depth:    depth,
		Parent:   parent,
		Expanded: depth < 1 || seed.Has(n.ID),
	}

	if _, taken := t.nodeMap[n.ID]; !taken {
		t.nodeMap[n.ID] = node
	}

	for _, child := range n.Children {
		if childNode := t.buildNode(child, depth+1, node, seed); childNode != nil {
			node.Children = append(node.Children, childNode)
		}
	}

	return node
}

// Mode returns the active selection mode.
func (t *TreeModel) Mode() model.Mode {
	return t.mode
}

// SetMode switches the selection mode and renormalizes the current selection
// under the new semantics.
func (t *TreeModel) SetMode(mode model.Mode) {
	if mode == t.mode {
		return
	}
	t.mode = mode
	t.selected = selection.Normalize(t.dataRoots, t.selected.IDs(), mode)
}

// Selection returns the canonical selection set. Callers must not mutate it.
func (t *TreeModel) Selection() selection.Set {
	return t.selected
}

// SelectedIDs returns the canonical selection as a sorted id list.
func (t *TreeModel) SelectedIDs() []string {
	return t.selected.IDs()
}

// Duplicates returns the duplicate-id diagnostics from the last Build.
func (t *TreeModel) Duplicates() []selection.Duplicate {
	return t.duplicates
}

// NodeCount returns the number of distinct node ids in the tree.
func (t *TreeModel) NodeCount() int {
	return len(t.nodeMap)
}

// StateAt computes the display state for a view node, resolving
// ancestor-selected by walking the parent chain.
func (t *TreeModel) StateAt(node *TreeNode) selection.NodeState {
	if node == nil {
		return selection.NodeState{Value: model.Unchecked}
	}
	ancestorSelected := false
	for p := node.Parent; p != nil; p = p.Parent {
		if t.selected.Has(p.Node.ID) {
			ancestorSelected = true
			break
		}
	}
	return selection.StateOf(node.Node, t.selected, ancestorSelected)
}

// ToggleSelect checks or unchecks the node under the cursor. A checked node
// becomes unchecked and vice versa; a disabled node (covered by a selected
// ancestor in top-level mode) is left alone.
func (t *TreeModel) ToggleSelect() {
	node := t.SelectedNode()
	if node == nil {
		return
	}
	st := t.StateAt(node)
	if st.Disabled {
		return
	}
	checked := st.Value != model.Checked
	t.selected = selection.Toggle(node.Node, checked, t.selected, t.mode, t.dataRoots)
}

// SelectedNode returns the tree node under the cursor, or nil.
func (t *TreeModel) SelectedNode() *TreeNode {
	if t.cursor >= 0 && t.cursor < len(t.flatList) {
		return t.flatList[t.cursor]
	}
	return nil
}

// SelectByID moves the cursor to the node with the given id if it is
// currently visible. Returns true on success.
func (t *TreeModel) SelectByID(id string) bool {
	for i, n := range t.flatList {
		if n.Node.ID == id {
			t.cursor = i
			t.ensureCursorVisible()
			return true
		}
	}
	return false
}

// MoveDown moves the cursor down in the flat list.
func (t *TreeModel) MoveDown() {
	if t.cursor < len(t.flatList)-1 {
		t.cursor++
		t.ensureCursorVisible()
	}
}

// MoveUp moves the cursor up in the flat list.
func (t *TreeModel) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		t.ensureCursorVisible()
	}
}

// JumpToTop moves the cursor to the first node.
func (t *TreeModel) JumpToTop() {
	t.cursor = 0
	t.ensureCursorVisible()
}

// JumpToBottom moves the cursor to the last node.
func (t *TreeModel) JumpToBottom() {
	if len(t.flatList) > 0 {
		t.cursor = len(t.flatList) - 1
		t.ensureCursorVisible()
	}
}

// JumpToParent moves the cursor to the parent of the current node.
func (t *TreeModel) JumpToParent() {
	node := t.SelectedNode()
	if node == nil || node.Parent == nil {
		return
	}
	for i, n := range t.flatList {
		if n == node.Parent {
			t.cursor = i
			t.ensureCursorVisible()
			return
		}
	}
}

// ToggleExpand expands or collapses the node under the cursor.
func (t *TreeModel) ToggleExpand() {
	node := t.SelectedNode()
	if node != nil && len(node.Children) > 0 {
		node.Expanded = !node.Expanded
		t.rebuildFlatList()
		t.saveState()
		t.ensureCursorVisible()
	}
}

// ExpandOrMoveToChild handles the right-arrow key: expand a collapsed node,
// or move to the first child of an expanded one.
func (t *TreeModel) ExpandOrMoveToChild() {
	node := t.SelectedNode()
	if node == nil || len(node.Children) == 0 {
		return
	}
	if !node.Expanded {
		node.Expanded = true
		t.rebuildFlatList()
		t.saveState()
		t.ensureCursorVisible()
		return
	}
	for i, n := range t.flatList {
		if n == node.Children[0] {
			t.cursor = i
			t.ensureCursorVisible()
			return
		}
	}
}

// CollapseOrMoveToParent handles the left-arrow key: collapse an expanded
// node, or move to the parent of a collapsed or leaf node.
func (t *TreeModel) CollapseOrMoveToParent() {
	node := t.SelectedNode()
	if node == nil {
		return
	}
	if len(node.Children) > 0 && node.Expanded {
		node.Expanded = false
		t.rebuildFlatList()
		t.saveState()
		t.ensureCursorVisible()
		return
	}
	t.JumpToParent()
}

// ExpandAll expands every node in the tree.
func (t *TreeModel) ExpandAll() {
	for _, root := range t.roots {
		setExpandedRecursive(root, true)
	}
	t.rebuildFlatList()
	t.saveState()
	t.ensureCursorVisible()
}

// CollapseAll collapses every node in the tree.
func (t *TreeModel) CollapseAll() {
	for _, root := range t.roots {
		setExpandedRecursive(root, false)
	}
	t.rebuildFlatList()
	t.saveState()
	t.ensureCursorVisible()
}

// ToggleExpandCollapseAll expands all if any expandable node is collapsed,
// otherwise collapses all.
func (t *TreeModel) ToggleExpandCollapseAll() {
	if t.hasAnyCollapsed() {
		t.ExpandAll()
	} else {
		t.CollapseAll()
	}
}

func (t *TreeModel) hasAnyCollapsed() bool {
	var check func(n *TreeNode) bool
	check = func(n *TreeNode) bool {
		if len(n.Children) > 0 && !n.Expanded {
			return true
		}
		for _, c := range n.Children {
			if check(c) {
				return true
			}
		}
		return false
	}
	for _, root := range t.roots {
		if check(root) {
			return true
		}
	}
	return false
}

func setExpandedRecursive(n *TreeNode, expanded bool) {
	if len(n.Children) > 0 {
		n.Expanded = expanded
	}
	for _, c := range n.Children {
		setExpandedRecursive(c, expanded)
	}
}

// ── Search ──

// SetSearch sets the search query, marks matching nodes (case-insensitive
// substring on id or label), expands their ancestors so every match is
// visible, and positions the cursor on the first match.
func (t *TreeModel) SetSearch(query string) {
	t.searchQuery = query
	t.searchMatches = nil
	t.searchMatchIndex = 0
	t.searchMatchIDs = nil
	t.contextAncestors = nil

	if query == "" {
		t.rebuildFlatList()
		return
	}

	q := strings.ToLower(query)
	t.searchMatchIDs = make(map[string]bool)
	t.contextAncestors = make(map[string]bool)

	var walk func(n *TreeNode)
	walk = func(n *TreeNode) {
		if strings.Contains(strings.ToLower(n.Node.ID), q) ||
			strings.Contains(strings.ToLower(n.Node.Label), q) {
			t.searchMatches = append(t.searchMatches, n)
			t.searchMatchIDs[n.Node.ID] = true
			for p := n.Parent; p != nil; p = p.Parent {
				t.contextAncestors[p.Node.ID] = true
				p.Expanded = true
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, root := range t.roots {
		walk(root)
	}

	t.rebuildFlatList()
	if len(t.searchMatches) > 0 {
		t.jumpToMatch(0)
	}
}

// ClearSearch drops the search state.
func (t *TreeModel) ClearSearch() {
	t.SetSearch("")
}

// SearchQuery returns the active search query.
func (t *TreeModel) SearchQuery() string {
	return t.searchQuery
}

// MatchCount returns the number of search matches.
func (t *TreeModel) MatchCount() int {
	return len(t.searchMatches)
}

// NextMatch moves the cursor to the next search match, wrapping around.
func (t *TreeModel) NextMatch() {
	if len(t.searchMatches) == 0 {
		return
	}
	t.jumpToMatch((t.searchMatchIndex + 1) % len(t.searchMatches))
}

// PrevMatch moves the cursor to the previous search match, wrapping around.
func (t *TreeModel) PrevMatch() {
	if len(t.searchMatches) == 0 {
		return
	}
	t.jumpToMatch((t.searchMatchIndex - 1 + len(t.searchMatches)) % len(t.searchMatches))
}

func (t *TreeModel) jumpToMatch(i int) {
	t.searchMatchIndex = i
	match := t.searchMatches[i]
	for j, n := range t.flatList {
		if n == match {
			t.cursor = j
			t.ensureCursorVisible()
			return
		}
	}
}

// IsContextDimmed reports whether a node is shown only as an ancestor of a
// search match, not a match itself.
func (t *TreeModel) IsContextDimmed(node *TreeNode) bool {
	if node == nil || t.searchMatchIDs == nil {
		return false
	}
	id := node.Node.ID
	return t.contextAncestors[id] && !t.searchMatchIDs[id]
}

// ── Flat list and viewport ──

// rebuildFlatList regenerates the visible node list from expansion state.
func (t *TreeModel) rebuildFlatList() {
	t.flatList = t.flatList[:0]
	var walk func(n *TreeNode)
	walk = func(n *TreeNode) {
		t.flatList = append(t.flatList, n)
		if !n.Expanded {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, root := range t.roots {
		walk(root)
	}
	if t.cursor >= len(t.flatList) {
		t.cursor = len(t.flatList) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// effectiveVisibleCount returns the number of tree rows that fit, accounting
// for the header row.
func (t *TreeModel) effectiveVisibleCount() int {
	count := t.height - 1
	if count < 1 {
		count = 1
	}
	return count
}

// visibleRange returns the [start, end) window of flatList to render.
func (t *TreeModel) visibleRange() (int, int) {
	count := t.effectiveVisibleCount()
	start := t.viewportOffset
	if start < 0 {
		start = 0
	}
	end := start + count
	if end > len(t.flatList) {
		end = len(t.flatList)
	}
	return start, end
}

func (t *TreeModel) ensureCursorVisible() {
	count := t.effectiveVisibleCount()
	if t.cursor < t.viewportOffset {
		t.viewportOffset = t.cursor
	} else if t.cursor >= t.viewportOffset+count {
		t.viewportOffset = t.cursor - count + 1
	}
	if t.viewportOffset < 0 {
		t.viewportOffset = 0
	}
}

// ── Rendering ──

// View renders the tree with a header row and windowed node rendering: only
// nodes inside the viewport are drawn, so rendering is O(viewport) instead
// of O(n).
func (t *TreeModel) View() string {
	if !t.built || len(t.flatList) == 0 {
		return t.renderEmptyState()
	}

	var sb strings.Builder
	sb.WriteString(t.renderHeader())
	sb.WriteString("\n")

	start, end := t.visibleRange()
	for i := start; i < end; i++ {
		node := t.flatList[i]
		isSelected := i == t.cursor
		line := t.renderNode(node, isSelected)

		if isSelected {
			line = t.theme.Selected.Render(line)
		} else if t.IsContextDimmed(node) {
			line = t.theme.DisabledText.Render(line)
		}

		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if len(t.flatList) > t.effectiveVisibleCount() {
		sb.WriteString(t.renderPositionIndicator(start, end))
	}

	return sb.String()
}

func (t *TreeModel) renderHeader() string {
	width := t.width
	if width <= 0 {
		width = 80
	}
	label := fmt.Sprintf("  %s mode · %d selected", t.mode, len(t.selected))
	headerStyle := t.theme.Renderer.NewStyle().
		Background(t.theme.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Width(width)
	return headerStyle.Render(label)
}

func (t *TreeModel) renderEmptyState() string {
	r := t.theme.Renderer
	titleStyle := r.NewStyle().Foreground(t.theme.Primary).Bold(true)
	mutedStyle := r.NewStyle().Foreground(t.theme.Muted)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Selection Tree"))
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("No nodes to display."))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render("Load a tree file with: cnp <file>"))
	return sb.String()
}

// checkboxGlyph returns the rendered checkbox for a node state.
func (t *TreeModel) checkboxGlyph(st selection.NodeState) string {
	switch st.Value {
	case model.Checked:
		return t.theme.CheckedText.Render("[x]")
	case model.Indeterminate:
		if st.Disabled {
			return t.theme.DisabledText.Render("[~]")
		}
		return t.theme.PartialText.Render("[~]")
	default:
		return t.theme.SecondaryText.Render("[ ]")
	}
}

// renderNode renders one row:
// [tree-prefix] [expand] [checkbox] [label] ... [id]
func (t *TreeModel) renderNode(node *TreeNode, isSelected bool) string {
	r := t.theme.Renderer
	width := t.width
	if width <= 0 {
		width = 80
	}
	// Reduce width by 1 to prevent terminal wrapping on the exact edge.
	width--

	st := t.StateAt(node)

	var left strings.Builder

	prefix := t.buildTreePrefix(node)
	left.WriteString(prefix)
	prefixWidth := lipgloss.Width(prefix)

	indicator := expandIndicator(node)
	left.WriteString(r.NewStyle().Foreground(t.theme.Secondary).Render(indicator))
	left.WriteString(" ")

	left.WriteString(t.checkboxGlyph(st))
	left.WriteString(" ")

	// Right side: node id, shown when there is room.
	rightWidth := 0
	rightSide := ""
	if width > 50 {
		idStr := truncateWidth(node.Node.ID, 24, "…")
		rightSide = t.theme.MutedText.Render(idStr)
		rightWidth = lipgloss.Width(idStr)
	}

	fixedWidth := prefixWidth + 1 + 1 + 3 + 1
	labelWidth := width - fixedWidth - rightWidth - 2
	if labelWidth < 5 {
		labelWidth = 5
	}

	label := node.Node.Label
	if label == "" {
		label = node.Node.ID
	}
	label = padRight(truncateWidth(label, labelWidth, "…"), labelWidth)

	isMatch := t.searchMatchIDs != nil && t.searchMatchIDs[node.Node.ID]
	isCurrentMatch := isMatch && len(t.searchMatches) > 0 &&
		t.searchMatchIndex < len(t.searchMatches) &&
		t.searchMatches[t.searchMatchIndex] == node

	labelStyle := r.NewStyle()
	switch {
	case isSelected:
		labelStyle = labelStyle.Foreground(t.theme.Primary).Bold(true)
	case st.Disabled:
		labelStyle = labelStyle.Foreground(t.theme.Muted).Faint(true)
	case isCurrentMatch:
		labelStyle = labelStyle.Foreground(t.theme.MatchCurrent).Bold(true)
	case isMatch:
		labelStyle = labelStyle.Foreground(t.theme.MatchOther)
	case st.Value == model.Checked:
		labelStyle = labelStyle.Foreground(t.theme.Checked)
	default:
		labelStyle = labelStyle.Foreground(t.theme.Unchecked)
	}
	left.WriteString(labelStyle.Render(label))

	leftLen := lipgloss.Width(left.String())
	padding := width - leftLen - rightWidth
	if padding < 0 {
		padding = 0
	}

	row := left.String() + strings.Repeat(" ", padding) + rightSide
	return r.NewStyle().Width(width).MaxWidth(width).Render(row)
}

// buildTreePrefix builds the indentation and branch characters for a node.
func (t *TreeModel) buildTreePrefix(node *TreeNode) string {
	if node.Depth == 0 {
		return ""
	}

	treeStyle := t.theme.Renderer.NewStyle().Foreground(t.theme.Muted)

	var parts []string
	ancestors := t.ancestorsOf(node)
	for i := 0; i < len(ancestors)-1; i++ {
		if t.hasSiblingsBelow(ancestors[i]) {
			parts = append(parts, "│   ")
		} else {
			parts = append(parts, "    ")
		}
	}
	if t.isLastChild(node) {
		parts = append(parts, "└── ")
	} else {
		parts = append(parts, "├── ")
	}

	return treeStyle.Render(strings.Join(parts, ""))
}

// ancestorsOf returns the chain from root to the node itself.
func (t *TreeModel) ancestorsOf(node *TreeNode) []*TreeNode {
	var chain []*TreeNode
	for cur := node.Parent; cur != nil; cur = cur.Parent {
		chain = append([]*TreeNode{cur}, chain...)
	}
	return append(chain, node)
}

func (t *TreeModel) hasSiblingsBelow(node *TreeNode) bool {
	siblings := t.siblingsOf(node)
	for i, s := range siblings {
		if s == node {
			return i < len(siblings)-1
		}
	}
	return false
}

func (t *TreeModel) isLastChild(node *TreeNode) bool {
	siblings := t.siblingsOf(node)
	return len(siblings) > 0 && siblings[len(siblings)-1] == node
}

func (t *TreeModel) siblingsOf(node *TreeNode) []*TreeNode {
	if node.Parent == nil {
		return t.roots
	}
	return node.Parent.Children
}

func expandIndicator(node *TreeNode) string {
	if len(node.Children) == 0 {
		return "•"
	}
	if node.Expanded {
		return "▾"
	}
	return "▸"
}

// renderPositionIndicator shows "Page X/Y (start-end of total)" when the
// tree overflows the viewport.
func (t *TreeModel) renderPositionIndicator(start, end int) string {
	total := len(t.flatList)
	pageSize := t.effectiveVisibleCount()
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	currentPage := (t.viewportOffset / pageSize) + 1
	if currentPage > totalPages {
		currentPage = totalPages
	}

	indicator := fmt.Sprintf(" Page %d/%d (%d-%d of %d)", currentPage, totalPages, start+1, end, total)
	return t.theme.MutedText.Render(indicator)
}

// ── Persistence ──

// saveState persists explicit expand/collapse deltas to disk. Errors are
// logged but never interrupt the user.
func (t *TreeModel) saveState() {
	if t.stateDir == "" {
		return
	}
	state := &TreeState{
		Version:  TreeStateVersion,
		Expanded: make(map[string]bool),
	}

	var walk func(n *TreeNode)
	walk = func(n *TreeNode) {
		defaultExpanded := n.Depth < 1
		if n.Expanded != defaultExpanded {
			state.Expanded[n.Node.ID] = n.Expanded
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, root := range t.roots {
		walk(root)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Printf("warning: failed to marshal tree state: %v", err)
		return
	}

	path := TreeStatePath(t.stateDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Printf("warning: failed to create state directory: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("warning: failed to write tree state to %s: %v", path, err)
	}
}

// loadState restores expand/collapse deltas. A missing or corrupted file
// leaves the defaults in place. Stale ids are ignored.
func (t *TreeModel) loadState() {
	if t.stateDir == "" {
		return
	}
	data, err := os.ReadFile(TreeStatePath(t.stateDir))
	if err != nil {
		return
	}

	var state TreeState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("warning: invalid tree state file, using defaults: %v", err)
		return
	}

	for id, expanded := range state.Expanded {
		if node, ok := t.nodeMap[id]; ok {
			node.Expanded = expanded
		}
	}
}
