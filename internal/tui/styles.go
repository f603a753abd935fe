package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("39")  // blue
	ColorSuccess = lipgloss.Color("34")  // green
	ColorWarning = lipgloss.Color("214") // orange
	ColorError   = lipgloss.Color("196") // red
	ColorMuted   = lipgloss.Color("240") // dark gray
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	SpinnerStyle = lipgloss.NewStyle().Foreground(ColorPrimary)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)
)

const (
	SymbolCheck = "✓"
	SymbolCross = "✗"
	SymbolWarn  = "!"
)
