package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SummaryRow is one label/value line of a Summary.
type SummaryRow struct {
	Label string
	Value string
}

// Summary renders rows under title in a rounded box, labels aligned.
func Summary(title string, rows []SummaryRow) string {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r.Label))
	}

	lines := []string{TitleStyle.Render(title)}
	for _, r := range rows {
		pad := strings.Repeat(" ", width-lipgloss.Width(r.Label))
		lines = append(lines, MutedStyle.Render(r.Label+pad)+"  "+r.Value)
	}
	return BoxStyle.Render(strings.Join(lines, "\n"))
}
