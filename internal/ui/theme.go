package ui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	colorAccent     = lipgloss.Color("#7f5af0") // violet
	colorAccentDim  = lipgloss.Color("#5a43b5")
	colorBackground = lipgloss.Color("#16161e")
	colorForeground = lipgloss.Color("#fffffe")
	colorMuted      = lipgloss.Color("#94a1b2")

	colorSuccess = lipgloss.Color("#2cb67d")
	colorWarning = lipgloss.Color("#ff8906")
	colorError   = lipgloss.Color("#e45858")
)

// Styles for the views
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorForeground).
			Background(colorAccent).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Background(colorBackground).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginTop(1).
			MarginBottom(1)

	contentStyle = lipgloss.NewStyle().
			Foreground(colorForeground)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorBackground).
			Background(colorAccent).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	statStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)
)

// formatKeybinding formats one key hint for the footer.
func formatKeybinding(key, description string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	return keyStyle.Render(key) + " " + mutedStyle.Render(description)
}

// formatHeader renders the view header bar.
func formatHeader(title string) string {
	return headerStyle.Render(title)
}

// formatFooter joins key hints into the footer bar.
func formatFooter(keybindings ...string) string {
	footer := ""
	for i, kb := range keybindings {
		if i > 0 {
			footer += "  "
		}
		footer += kb
	}
	return footerStyle.Render(footer)
}
