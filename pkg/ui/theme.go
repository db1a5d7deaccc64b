package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the color palette and pre-computed styles for the tree view.
// Styles are created once at startup instead of per-frame.
type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor

	// Check state colors
	Checked       lipgloss.AdaptiveColor
	Indeterminate lipgloss.AdaptiveColor
	Unchecked     lipgloss.AdaptiveColor

	// Search highlight colors
	MatchCurrent lipgloss.AdaptiveColor
	MatchOther   lipgloss.AdaptiveColor

	// Styles
	Base          lipgloss.Style
	Selected      lipgloss.Style
	Header        lipgloss.Style
	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style
	PrimaryBold   lipgloss.Style
	CheckedText   lipgloss.Style
	PartialText   lipgloss.Style
	DisabledText  lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive).
// Light mode colors chosen for WCAG AA contrast.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},

		Checked:       lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}, // Green
		Indeterminate: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}, // Orange
		Unchecked:     lipgloss.AdaptiveColor{Light: "#333333", Dark: "#E8E8E8"},

		MatchCurrent: lipgloss.AdaptiveColor{Light: "#7A5600", Dark: "#F1FA8C"}, // Yellow
		MatchOther:   lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}, // Orange
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.CheckedText = r.NewStyle().Foreground(t.Checked)
	t.PartialText = r.NewStyle().Foreground(t.Indeterminate)
	t.DisabledText = r.NewStyle().Foreground(t.Muted).Faint(true)

	return t
}
