package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles for the shell.
type Styles struct {
	Title     lipgloss.Style
	NavItem   lipgloss.Style
	NavActive lipgloss.Style
	PageTitle lipgloss.Style
	Error     lipgloss.Style
	Status    lipgloss.Style
	Alert     lipgloss.Style
	Prompt    lipgloss.Style
	Help      lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1),
		NavItem:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		NavActive: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		PageTitle: lipgloss.NewStyle().Bold(true).Underline(true),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Status:    lipgloss.NewStyle().Faint(true),
		Alert:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Prompt:    lipgloss.NewStyle().Bold(true),
		Help:      lipgloss.NewStyle().Faint(true),
	}
}
