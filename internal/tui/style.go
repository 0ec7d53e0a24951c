package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor   = lipgloss.Color("#8B5CF6")
	secondaryColor = lipgloss.Color("#06B6D4")
	errorColor     = lipgloss.Color("#EF4444")
	textMuted      = lipgloss.Color("#94A3B8")
	bgDark         = lipgloss.Color("#0F172A")
	bgMedium       = lipgloss.Color("#1E293B")
)

var (
	titleStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 2)

	badgeStyle = lipgloss.NewStyle().
			Background(secondaryColor).
			Foreground(bgDark).
			Bold(true).
			Padding(0, 1).
			MarginLeft(1)

	statusBarStyle = lipgloss.NewStyle().
			Background(bgMedium).
			Foreground(textMuted).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(textMuted)
)

// maxColumnWidth caps the width of a table column in cells
const maxColumnWidth = 32
