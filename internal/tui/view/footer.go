package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FooterHeight is the number of lines RenderFooter produces.
const FooterHeight = 3

// FooterViewState holds the strings needed to render the footer section.
type FooterViewState struct {
	InnerW      int
	PromptLine  string
	ShowPrompt  bool
	StatusText  string
	HelpText    string
	PromptStyle lipgloss.Style
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	Bg          lipgloss.Color
}

// RenderFooter renders the jump prompt, the status line, and key help.
func RenderFooter(state FooterViewState) string {
	prompt := ""
	if state.ShowPrompt {
		prompt = footerLine(state.InnerW, state.PromptStyle, state.PromptLine)
	}
	lines := []string{
		prompt,
		footerLine(state.InnerW, state.StatusStyle, state.StatusText),
		footerLine(state.InnerW, state.HelpStyle, state.HelpText),
	}
	return PlaceBox(state.InnerW, FooterHeight, lipgloss.Bottom, strings.Join(lines, "\n"), state.Bg)
}

func footerLine(width int, style lipgloss.Style, content string) string {
	frameW, _ := style.GetFrameSize()
	contentWidth := width - frameW
	if contentWidth < 0 {
		contentWidth = 0
	}
	style = style.Width(contentWidth)
	if contentWidth > 0 {
		content = ansi.Truncate(content, contentWidth, "")
	}
	return style.Render(content)
}
