package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#907aa9", Dark: "#c4a7e7"})
	itemStyle     = lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle = lipgloss.NewStyle().PaddingLeft(1).Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	modeStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"})
	statusStyle = lipgloss.NewStyle().Italic(true).Faint(true)
)

// truncate shortens s to width cells, appending "…" if truncated.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}

	w := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > width-1 {
			return s[:i] + "…"
		}
		w += rw
	}
	return s
}
