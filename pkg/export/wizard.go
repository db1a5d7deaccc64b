package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/canopy/pkg/model"
	"github.com/vanderheijden86/canopy/pkg/selection"
)

// WizardConfig holds the choices collected by the export wizard.
type WizardConfig struct {
	Format           string // "markdown", "svg", "png"
	OutputPath       string
	Title            string
	IncludeUnchecked bool
}

// Wizard guides the user through exporting a selection report.
type Wizard struct {
	config WizardConfig
	roots  []*model.Node
	sel    selection.Set
	mode   model.Mode
}

// NewWizard creates an export wizard for an already-loaded forest.
func NewWizard(roots []*model.Node, sel selection.Set, mode model.Mode) *Wizard {
	return &Wizard{
		config: WizardConfig{
			Format:           "markdown",
			IncludeUnchecked: true,
		},
		roots: roots,
		sel:   sel,
		mode:  mode,
	}
}

// isTerminal checks if stdin is connected to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with accessible mode enabled off-TTY, so the
// wizard still works when stdin is a pipe.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run collects options interactively and writes the export. Returns the
// output path on success.
func (w *Wizard) Run() (string, error) {
	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Export format").
				Options(
					huh.NewOption("Markdown task list", "markdown"),
					huh.NewOption("SVG snapshot", "svg"),
					huh.NewOption("PNG snapshot", "png"),
				).
				Value(&w.config.Format),
			huh.NewInput().
				Title("Output path").
				Placeholder("selection.md").
				Value(&w.config.OutputPath),
			huh.NewInput().
				Title("Report title").
				Placeholder("Selection Report").
				Value(&w.config.Title),
			huh.NewConfirm().
				Title("Include unchecked branches?").
				Value(&w.config.IncludeUnchecked),
		),
	)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("wizard aborted: %w", err)
	}

	if err := w.config.normalize(); err != nil {
		return "", err
	}
	if err := w.export(); err != nil {
		return "", err
	}
	return w.config.OutputPath, nil
}

// normalize fills defaults and aligns the output extension with the format.
func (c *WizardConfig) normalize() error {
	switch c.Format {
	case "markdown", "svg", "png":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}

	if strings.TrimSpace(c.OutputPath) == "" {
		switch c.Format {
		case "markdown":
			c.OutputPath = "selection.md"
		default:
			c.OutputPath = "selection." + c.Format
		}
	}
	if filepath.Ext(c.OutputPath) == "" {
		if c.Format == "markdown" {
			c.OutputPath += ".md"
		} else {
			c.OutputPath += "." + c.Format
		}
	}
	return nil
}

func (w *Wizard) export() error {
	switch w.config.Format {
	case "markdown":
		md := GenerateMarkdown(w.roots, w.sel, MarkdownOptions{
			Title:            w.config.Title,
			Mode:             w.mode,
			IncludeUnchecked: w.config.IncludeUnchecked,
		})
		if err := os.WriteFile(w.config.OutputPath, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
		return nil
	default:
		return SaveSnapshot(SnapshotOptions{
			Path:      w.config.OutputPath,
			Format:    w.config.Format,
			Title:     w.config.Title,
			Mode:      w.mode,
			Roots:     w.roots,
			Selection: w.sel,
		})
	}
}
