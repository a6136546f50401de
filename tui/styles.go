package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	selectedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	markStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	activeFlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

// Highlight marks matched tokens for the terminal.
func Highlight(s string) string {
	return markStyle.Render(s)
}
