// cnp is a terminal checkbox tree for hierarchical multi-selection.
//
// With no flags it opens the TUI on the discovered or given tree file.
// Non-interactive surfaces: --print emits the canonical selection, --stats
// a shape report, and --export-* static snapshots.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/canopy/internal/datasource"
	"github.com/vanderheijden86/canopy/pkg/analysis"
	"github.com/vanderheijden86/canopy/pkg/config"
	"github.com/vanderheijden86/canopy/pkg/debug"
	"github.com/vanderheijden86/canopy/pkg/export"
	"github.com/vanderheijden86/canopy/pkg/loader"
	"github.com/vanderheijden86/canopy/pkg/model"
	"github.com/vanderheijden86/canopy/pkg/selection"
	"github.com/vanderheijden86/canopy/pkg/ui"
	"github.com/vanderheijden86/canopy/pkg/version"
	"github.com/vanderheijden86/canopy/pkg/watcher"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	modeFlag := flag.String("mode", "", "Selection mode: cascade or top-level (default from config)")
	selectFlag := flag.String("select", "", "Comma-separated ids to pre-select")
	printFlag := flag.Bool("print", false, "Print the canonical selection and exit")
	statsFlag := flag.Bool("stats", false, "Print tree statistics and exit")
	exportFlag := flag.Bool("export", false, "Run the interactive export wizard and exit")
	exportMD := flag.String("export-md", "", "Write a Markdown report to the given path and exit")
	exportSVG := flag.String("export-svg", "", "Write an SVG snapshot to the given path and exit")
	exportPNG := flag.String("export-png", "", "Write a PNG snapshot to the given path and exit")
	previewFlag := flag.Bool("preview", false, "Render the Markdown report to the terminal and exit")
	noWatch := flag.Bool("no-watch", false, "Disable live reload of the tree file")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("cnp - hierarchical multi-selection for the terminal")
		fmt.Println("\nUsage: cnp [flags] [tree-file-or-dir]")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("cnp %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		cfg = config.DefaultConfig()
	}

	mode := cfg.Mode()
	if *modeFlag != "" {
		m, err := model.ParseMode(*modeFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		mode = m
	}

	roots, dataPath, err := loadForest(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rawSel := splitIDs(*selectFlag)
	sel := selection.Normalize(roots, rawSel, mode)

	switch {
	case *printFlag:
		for _, id := range sel.IDs() {
			fmt.Println(id)
		}
		return

	case *statsFlag:
		fmt.Print(analysis.Compute(roots, sel).Summary())
		return

	case *exportMD != "":
		md := export.GenerateMarkdown(roots, sel, export.MarkdownOptions{
			Mode:             mode,
			IncludeUnchecked: true,
		})
		if err := os.WriteFile(*exportMD, []byte(md), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *exportMD)
		return

	case *previewFlag:
		md := export.GenerateMarkdown(roots, sel, export.MarkdownOptions{
			Mode:             mode,
			IncludeUnchecked: true,
		})
		out, err := export.RenderPreview(md, 100)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
		return

	case *exportSVG != "" || *exportPNG != "":
		path, format := *exportSVG, "svg"
		if *exportPNG != "" {
			path, format = *exportPNG, "png"
		}
		err := export.SaveSnapshot(export.SnapshotOptions{
			Path:      path,
			Format:    format,
			Mode:      mode,
			Roots:     roots,
			Selection: sel,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
		return

	case *exportFlag:
		out, err := export.NewWizard(roots, sel, mode).Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", out)
		return
	}

	runTUI(cfg, roots, rawSel, mode, dataPath, *noWatch)
}

// loadForest resolves the positional argument into a node forest. A file
// loads directly; a directory (or no argument, meaning cwd) goes through
// datasource discovery.
func loadForest(arg string) ([]*model.Node, string, error) {
	if arg == "" {
		arg = "."
	}
	info, err := os.Stat(arg)
	if err != nil {
		return nil, "", fmt.Errorf("stat %s: %w", arg, err)
	}

	if info.IsDir() {
		roots, src, err := datasource.LoadTree(arg)
		if err != nil {
			return nil, "", err
		}
		debug.Log("loaded %s", src)
		return roots, src.Path, nil
	}

	roots, err := loader.LoadTree(arg)
	if err != nil {
		return nil, "", err
	}
	return roots, arg, nil
}

func splitIDs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

func runTUI(cfg config.Config, roots []*model.Node, rawSel []string, mode model.Mode, dataPath string, noWatch bool) {
	theme := ui.DefaultTheme(lipgloss.DefaultRenderer())

	opts := []ui.AppOption{
		ui.WithStateDir(cfg.ResolvedStateDir()),
		ui.WithDuplicateWarnings(cfg.UI.WarnDuplicates),
		ui.WithDisabledHint(cfg.UI.ShowDisabledHint),
	}

	var w *watcher.Watcher
	if !noWatch && dataPath != "" && filepath.Ext(dataPath) != ".db" {
		var err error
		w, err = watcher.New(dataPath)
		if err == nil {
			if err := w.Start(); err == nil {
				defer w.Stop()
				opts = append(opts, ui.WithWatcher(w), ui.WithDataPath(dataPath))
				debug.Log("watching %s (polling=%v)", dataPath, w.IsPolling())
			}
		}
	}

	app := ui.NewApp(roots, rawSel, mode, theme, opts...)
	p := tea.NewProgram(app, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Echo the final canonical selection so the TUI composes with shell
	// pipelines.
	if a, ok := final.(ui.App); ok {
		for _, id := range a.Tree().SelectedIDs() {
			fmt.Println(id)
		}
	}
}
