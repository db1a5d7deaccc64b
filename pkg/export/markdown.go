// Package export renders selection reports: Markdown task lists with a
// terminal preview, and static SVG/PNG tree snapshots.
package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/canopy/pkg/analysis"
	"github.com/vanderheijden86/canopy/pkg/model"
	"github.com/vanderheijden86/canopy/pkg/selection"
)

// MarkdownOptions controls the Markdown report.
type MarkdownOptions struct {
	Title string
	Mode  model.Mode

	// IncludeUnchecked keeps fully unchecked branches in the task list.
	// When false, only branches containing a selected node are emitted.
	IncludeUnchecked bool
}

// GenerateMarkdown renders the forest as a Markdown task list. Each node
// becomes a list item whose checkbox reflects its tri-state: [x] checked,
// [~] partially selected, [ ] unchecked. Unknown selected ids are listed in
// a trailing section so nothing silently disappears from the report.
func GenerateMarkdown(roots []*model.Node, sel selection.Set, opts MarkdownOptions) string {
	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = "Selection Report"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "*Generated: %s · mode: %s*\n\n", time.Now().Format(time.RFC1123), opts.Mode)

	stats := analysis.Compute(roots, sel)
	sb.WriteString("| Metric | Count |\n|--------|-------|\n")
	fmt.Fprintf(&sb, "| Nodes | %d |\n", stats.NodeCount)
	fmt.Fprintf(&sb, "| Selected | %d |\n", stats.SelectedCount)
	fmt.Fprintf(&sb, "| Coverage | %.1f%% |\n\n", stats.Coverage*100)

	sb.WriteString("## Tree\n\n")
	for _, root := range roots {
		writeNodeMarkdown(&sb, root, sel, false, 0, opts.IncludeUnchecked)
	}

	idx := selection.BuildIndex(roots)
	var unknown []string
	for id := range sel {
		if idx.Lookup(id) == nil {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		sb.WriteString("\n## Unknown selected ids\n\n")
		for _, id := range unknown {
			fmt.Fprintf(&sb, "- `%s`\n", id)
		}
	}

	return sb.String()
}

func writeNodeMarkdown(sb *strings.Builder, n *model.Node, sel selection.Set, ancestorSelected bool, depth int, includeUnchecked bool) {
	if n == nil {
		return
	}

	st := selection.StateOf(n, sel, ancestorSelected)
	if !includeUnchecked && st.Value == model.Unchecked {
		return
	}

	glyph := "[ ]"
	switch st.Value {
	case model.Checked:
		glyph = "[x]"
	case model.Indeterminate:
		glyph = "[~]"
	}

	label := n.Label
	if label == "" {
		label = n.ID
	}
	fmt.Fprintf(sb, "%s- %s %s (`%s`)\n", strings.Repeat("  ", depth), glyph, label, n.ID)

	childAncestor := ancestorSelected || sel.Has(n.ID)
	for _, c := range n.Children {
		writeNodeMarkdown(sb, c, sel, childAncestor, depth+1, includeUnchecked)
	}
}

// RenderPreview renders Markdown for terminal display with glamour's auto
// style (respects light/dark background detection).
func RenderPreview(markdown string, width int) (string, error) {
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
