package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/canopy/pkg/model"
	"github.com/vanderheijden86/canopy/pkg/selection"
)

// SnapshotOptions controls tree snapshot export.
type SnapshotOptions struct {
	Path      string // output path; format inferred from extension when Format empty
	Format    string // "svg" or "png" (case-insensitive)
	Title     string
	Mode      model.Mode
	Roots     []*model.Node
	Selection selection.Set
}

// SaveSnapshot renders a static tree snapshot (SVG or PNG). Each node is a
// rounded box indented by depth and colored by its tri-state, with a small
// summary header so the image is self-describing.
func SaveSnapshot(opts SnapshotOptions) error {
	if len(opts.Roots) == 0 {
		return fmt.Errorf("no nodes to export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		case ".svg":
			format = "svg"
		default:
			format = "svg"
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path += ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildSnapshotLayout(opts)

	switch format {
	case "png":
		return renderPNG(opts.Path, layout)
	default:
		file, err := os.Create(opts.Path)
		if err != nil {
			return err
		}
		defer file.Close()
		return renderSVG(file, layout)
	}
}

// --- layout ---

const (
	snapPadding  = 24.0
	snapHeader   = 64.0
	snapRowH     = 26.0
	snapRowGap   = 6.0
	snapIndent   = 28.0
	snapBoxW     = 260.0
	snapMinWidth = 480
)

type snapshotRow struct {
	Label string
	ID    string
	Depth int
	State selection.NodeState
	X, Y  float64
}

type snapshotLayout struct {
	Rows    []snapshotRow
	Width   int
	Height  int
	Title   string
	Legend  string
	maxDeep int
}

func buildSnapshotLayout(opts SnapshotOptions) snapshotLayout {
	var rows []snapshotRow
	maxDepth := 0

	var walk func(n *model.Node, depth int, ancestorSelected bool)
	walk = func(n *model.Node, depth int, ancestorSelected bool) {
		if n == nil {
			return
		}
		label := n.Label
		if label == "" {
			label = n.ID
		}
		if len(label) > 34 {
			label = label[:31] + "..."
		}
		st := selection.StateOf(n, opts.Selection, ancestorSelected)
		rows = append(rows, snapshotRow{
			Label: label,
			ID:    n.ID,
			Depth: depth,
			State: st,
		})
		if depth > maxDepth {
			maxDepth = depth
		}
		next := ancestorSelected || opts.Selection.Has(n.ID)
		for _, c := range n.Children {
			walk(c, depth+1, next)
		}
	}
	for _, root := range opts.Roots {
		walk(root, 0, false)
	}

	for i := range rows {
		rows[i].X = snapPadding + float64(rows[i].Depth)*snapIndent
		rows[i].Y = snapPadding + snapHeader + float64(i)*(snapRowH+snapRowGap)
	}

	width := int(snapPadding*2 + float64(maxDepth)*snapIndent + snapBoxW)
	if width < snapMinWidth {
		width = snapMinWidth
	}
	height := int(snapPadding*2 + snapHeader + float64(len(rows))*(snapRowH+snapRowGap))

	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = "Selection Snapshot"
	}
	legend := fmt.Sprintf("%d nodes · %d selected · %s mode", len(rows), len(opts.Selection), opts.Mode)

	return snapshotLayout{
		Rows:    rows,
		Width:   width,
		Height:  height,
		Title:   title,
		Legend:  legend,
		maxDeep: maxDepth,
	}
}

// --- colors ---

var (
	snapChecked  = color.RGBA{0xc8, 0xe6, 0xc9, 0xff} // green
	snapPartial  = color.RGBA{0xff, 0xf3, 0xe0, 0xff} // orange
	snapBlank    = color.RGBA{0xf3, 0xf4, 0xf6, 0xff} // gray
	snapDisabled = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	snapStroke   = color.RGBA{0x22, 0x22, 0x22, 0xff}
	snapText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	snapSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	snapBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
)

func stateColor(st selection.NodeState) color.RGBA {
	switch {
	case st.Disabled:
		return snapDisabled
	case st.Value == model.Checked:
		return snapChecked
	case st.Value == model.Indeterminate:
		return snapPartial
	default:
		return snapBlank
	}
}

func stateGlyph(st selection.NodeState) string {
	switch st.Value {
	case model.Checked:
		return "[x]"
	case model.Indeterminate:
		return "[~]"
	default:
		return "[ ]"
	}
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// --- rendering ---

func renderPNG(path string, layout snapshotLayout) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(snapBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(snapText)
	dc.DrawString(layout.Title, snapPadding, snapPadding+14)
	dc.SetColor(snapSubtle)
	dc.DrawString(layout.Legend, snapPadding, snapPadding+32)

	for _, row := range layout.Rows {
		dc.SetColor(stateColor(row.State))
		dc.DrawRoundedRectangle(row.X, row.Y, snapBoxW, snapRowH, 5)
		dc.Fill()
		dc.SetColor(snapStroke)
		dc.DrawRoundedRectangle(row.X, row.Y, snapBoxW, snapRowH, 5)
		dc.Stroke()

		textColor := snapText
		if row.State.Disabled {
			textColor = snapSubtle
		}
		dc.SetColor(textColor)
		dc.DrawString(fmt.Sprintf("%s %s", stateGlyph(row.State), row.Label), row.X+8, row.Y+17)
	}

	return dc.SavePNG(path)
}

func renderSVG(w io.Writer, layout snapshotLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, "fill:"+css(snapBackdrop))

	canvas.Text(int(snapPadding), int(snapPadding)+14, layout.Title,
		"font-family:monospace;font-size:14px;font-weight:bold;fill:"+css(snapText))
	canvas.Text(int(snapPadding), int(snapPadding)+32, layout.Legend,
		"font-family:monospace;font-size:11px;fill:"+css(snapSubtle))

	for _, row := range layout.Rows {
		canvas.Roundrect(int(row.X), int(row.Y), int(snapBoxW), int(snapRowH), 5, 5,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(stateColor(row.State)), css(snapStroke)))

		textColor := snapText
		if row.State.Disabled {
			textColor = snapSubtle
		}
		canvas.Text(int(row.X)+8, int(row.Y)+17,
			fmt.Sprintf("%s %s", stateGlyph(row.State), row.Label),
			"font-family:monospace;font-size:12px;fill:"+css(textColor))
	}

	canvas.End()
	return nil
}
