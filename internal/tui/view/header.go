package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// HeaderViewState holds the tab bar and the selector line above the grid.
type HeaderViewState struct {
	InnerW int
	Tabs   []string
	Active int

	// Selector line: "‹ Title ›  Position   Hint"
	Title    string
	Position string
	Hint     string

	TabStyle       lipgloss.Style
	TabActiveStyle lipgloss.Style
	TitleStyle     lipgloss.Style
	MutedStyle     lipgloss.Style
	Bg             lipgloss.Color
}

// HeaderHeight is the number of lines RenderHeader produces.
const HeaderHeight = 2

// RenderHeader renders the view tabs and the current selection.
func RenderHeader(state HeaderViewState) string {
	tabs := make([]string, 0, len(state.Tabs))
	for i, label := range state.Tabs {
		style := state.TabStyle
		if i == state.Active {
			style = state.TabActiveStyle
		}
		tabs = append(tabs, style.Render(label))
	}
	sep := state.MutedStyle.Render(" | ")
	tabLine := strings.Join(tabs, sep)

	selector := ""
	if state.Title != "" {
		selector = state.TitleStyle.Render("‹ "+state.Title+" ›") +
			state.MutedStyle.Render("  "+state.Position)
	}
	if state.Hint != "" {
		if selector != "" {
			selector += state.MutedStyle.Render("   ")
		}
		selector += state.MutedStyle.Render(state.Hint)
	}

	if state.InnerW > 0 {
		tabLine = ansi.Truncate(tabLine, state.InnerW, "")
		selector = ansi.Truncate(selector, state.InnerW, "…")
	}

	return PlaceBox(state.InnerW, HeaderHeight, lipgloss.Top, tabLine+"\n"+selector, state.Bg)
}
