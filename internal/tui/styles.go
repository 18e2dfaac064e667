package tui

import (
	"github.com/charmbracelet/lipgloss"

	"scribe/pkg/types"
)

// Theme defines the core UI styles
var Theme = struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Pane       lipgloss.Style
	FocusPane  lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Help       lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Modal      lipgloss.Style
}{
	App: lipgloss.NewStyle().
		Padding(1, 2),
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7B61FF")).
		MarginBottom(1),
	Pane: lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#666666")),
	FocusPane: lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7B61FF")),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#73F59F")).
		Bold(true),
	Unselected: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#CCCCCC")),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5A9")),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF5F87")).
		Bold(true),
	Success: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#73F59F")),
	Modal: lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("#7B61FF")),
}

var badgeStyles = map[types.Status]lipgloss.Style{
	types.StatusProcessing: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD75F")).Bold(true),
	types.StatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#73F59F")).Bold(true),
	types.StatusError:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true),
	types.StatusUploaded:   lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")),
}

func renderBadge(s types.Status) string {
	if style, ok := badgeStyles[s]; ok {
		return style.Render(s.Badge())
	}
	return Theme.Unselected.Render(s.Badge())
}
