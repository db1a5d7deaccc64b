package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/canopy/pkg/debug"
	"github.com/vanderheijden86/canopy/pkg/loader"
	"github.com/vanderheijden86/canopy/pkg/model"
	"github.com/vanderheijden86/canopy/pkg/watcher"
)

// fileChangedMsg signals that the watched tree file changed on disk.
type fileChangedMsg struct{}

// reloadedMsg carries the result of reloading the tree file.
type reloadedMsg struct {
	roots []*model.Node
	err   error
}

// AppOption configures the App.
type AppOption func(*App)

// WithWatcher attaches a file watcher whose change signal triggers a reload.
func WithWatcher(w *watcher.Watcher) AppOption {
	return func(a *App) {
		a.watcher = w
	}
}

// WithDataPath sets the file to reload from when the watcher fires.
func WithDataPath(path string) AppOption {
	return func(a *App) {
		a.dataPath = path
	}
}

// WithStateDir enables expand/collapse persistence under dir.
func WithStateDir(dir string) AppOption {
	return func(a *App) {
		a.tree.SetStateDir(dir)
	}
}

// WithDuplicateWarnings controls whether duplicate-id diagnostics surface in
// the status bar. Enabled by default.
func WithDuplicateWarnings(on bool) AppOption {
	return func(a *App) {
		a.warnDuplicates = on
	}
}

// WithDisabledHint controls the footer hint explaining greyed-out rows in
// top-level mode. Enabled by default.
func WithDisabledHint(on bool) AppOption {
	return func(a *App) {
		a.showDisabledHint = on
	}
}

// App is the top-level bubbletea model: a checkbox tree plus search input,
// status line, and live reload.
type App struct {
	tree        TreeModel
	theme       Theme
	searchInput textinput.Model
	searching   bool
	showHelp    bool
	status      string
	width       int
	height      int
	quitting    bool

	watcher  *watcher.Watcher
	dataPath string

	warnDuplicates   bool
	showDisabledHint bool
}

// NewApp builds the app around an already-loaded forest.
func NewApp(roots []*model.Node, rawSelection []string, mode model.Mode, theme Theme, opts ...AppOption) App {
	ti := textinput.New()
	ti.Placeholder = "search"
	ti.Prompt = "/"
	ti.CharLimit = 128

	a := App{
		tree:             NewTreeModel(theme),
		theme:            theme,
		searchInput:      ti,
		warnDuplicates:   true,
		showDisabledHint: true,
	}
	for _, opt := range opts {
		opt(&a)
	}
	a.tree.Build(roots, rawSelection, mode)

	if dups := a.tree.Duplicates(); a.warnDuplicates && len(dups) > 0 {
		a.status = fmt.Sprintf("warning: %d duplicate id(s), first occurrence wins", len(dups))
		for _, d := range dups {
			debug.Log("duplicate id %q seen %d times", d.ID, d.Count)
		}
	}
	return a
}

// Tree exposes the underlying tree model, mainly for tests.
func (a *App) Tree() *TreeModel {
	return &a.tree
}

// Init starts the watcher listener if one is attached.
func (a App) Init() tea.Cmd {
	if a.watcher != nil {
		return a.waitForChange()
	}
	return nil
}

func (a App) waitForChange() tea.Cmd {
	ch := a.watcher.Changed()
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

func (a App) reload() tea.Cmd {
	path := a.dataPath
	return func() tea.Msg {
		roots, err := loader.LoadTree(path)
		return reloadedMsg{roots: roots, err: err}
	}
}

// Update handles key events, window resizes, and reload messages.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Reserve rows for the status line and search bar.
		a.tree.SetSize(msg.Width, msg.Height-2)
		return a, nil

	case fileChangedMsg:
		return a, tea.Batch(a.reload(), a.waitForChange())

	case reloadedMsg:
		if msg.err != nil {
			a.status = fmt.Sprintf("reload failed: %v", msg.err)
			return a, nil
		}
		prevID := ""
		if node := a.tree.SelectedNode(); node != nil {
			prevID = node.Node.ID
		}
		a.tree.Build(msg.roots, a.tree.SelectedIDs(), a.tree.Mode())
		if prevID != "" {
			a.tree.SelectByID(prevID)
		}
		a.status = "reloaded"
		return a, nil

	case tea.KeyMsg:
		if a.searching {
			return a.updateSearch(msg)
		}
		return a.updateKeys(msg)
	}

	return a, nil
}

// updateSearch routes keys to the search input while search mode is active.
func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.searching = false
		a.searchInput.Blur()
		a.searchInput.SetValue("")
		a.tree.ClearSearch()
		return a, nil
	case "enter":
		a.searching = false
		a.searchInput.Blur()
		a.status = fmt.Sprintf("%d match(es)", a.tree.MatchCount())
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	a.tree.SetSearch(a.searchInput.Value())
	return a, cmd
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		a.quitting = true
		return a, tea.Quit

	case "up", "k":
		a.tree.MoveUp()
	case "down", "j":
		a.tree.MoveDown()
	case "g", "home":
		a.tree.JumpToTop()
	case "G", "end":
		a.tree.JumpToBottom()
	case "left", "h":
		a.tree.CollapseOrMoveToParent()
	case "right", "l":
		a.tree.ExpandOrMoveToChild()
	case "p":
		a.tree.JumpToParent()

	case " ", "space":
		a.tree.ToggleSelect()
		a.status = fmt.Sprintf("%d selected", len(a.tree.Selection()))
	case "enter", "e":
		a.tree.ToggleExpand()
	case "E":
		a.tree.ToggleExpandCollapseAll()

	case "m":
		next := model.ModeTopLevel
		if a.tree.Mode() == model.ModeTopLevel {
			next = model.ModeCascade
		}
		a.tree.SetMode(next)
		a.status = fmt.Sprintf("mode: %s", next)

	case "y":
		ids := a.tree.SelectedIDs()
		if len(ids) == 0 {
			a.status = "nothing selected"
			break
		}
		if err := clipboard.WriteAll(strings.Join(ids, "\n")); err != nil {
			a.status = fmt.Sprintf("clipboard unavailable: %v", err)
		} else {
			a.status = fmt.Sprintf("yanked %d id(s)", len(ids))
		}

	case "/":
		a.searching = true
		a.searchInput.Focus()
		return a, textinput.Blink

	case "n":
		a.tree.NextMatch()
	case "N":
		a.tree.PrevMatch()
	case "esc":
		if a.showHelp {
			a.showHelp = false
		} else if a.tree.SearchQuery() != "" {
			a.searchInput.SetValue("")
			a.tree.ClearSearch()
		}

	case "?":
		a.showHelp = !a.showHelp
	}

	return a, nil
}

// View renders the tree, then the search bar or status line.
func (a App) View() string {
	if a.quitting {
		return ""
	}
	if a.showHelp {
		return a.renderHelp()
	}

	var sb strings.Builder
	sb.WriteString(a.tree.View())
	sb.WriteString("\n")

	switch {
	case a.searching:
		sb.WriteString(a.searchInput.View())
	case a.status != "":
		sb.WriteString(a.theme.MutedText.Render(a.status))
	case a.showDisabledHint && a.tree.Mode() == model.ModeTopLevel && len(a.tree.Selection()) > 0:
		sb.WriteString(a.theme.MutedText.Render("greyed rows are covered by a selected ancestor · ? help"))
	default:
		sb.WriteString(a.theme.MutedText.Render("space toggle · m mode · / search · y yank · ? help · q quit"))
	}
	return sb.String()
}

func (a App) renderHelp() string {
	rows := []struct{ key, desc string }{
		{"↑/k ↓/j", "move cursor"},
		{"←/h →/l", "collapse / expand or descend"},
		{"g / G", "jump to top / bottom"},
		{"p", "jump to parent"},
		{"space", "check / uncheck node"},
		{"enter, e", "expand / collapse node"},
		{"E", "expand / collapse everything"},
		{"m", "switch cascade / top-level mode"},
		{"y", "copy selected ids to clipboard"},
		{"/", "search, n/N cycle matches"},
		{"esc", "clear search"},
		{"q", "quit"},
	}

	var sb strings.Builder
	sb.WriteString(a.theme.PrimaryBold.Render("Keys"))
	sb.WriteString("\n\n")
	for _, row := range rows {
		sb.WriteString("  ")
		sb.WriteString(a.theme.SecondaryText.Render(padRight(row.key, 12)))
		sb.WriteString(row.desc)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(a.theme.MutedText.Render("press ? or esc to close"))
	return sb.String()
}
