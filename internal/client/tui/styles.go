// Package tui holds the bubbletea screens for editing slides and document
// sections. The screens only render and route keys; drafts, autosave and
// refine live in package editor.
package tui

import "github.com/charmbracelet/lipgloss"

// Styles used by all screens.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Status  lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
	Muted   lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Focused: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575")),
		Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Muted:   lipgloss.NewStyle().Faint(true),
	}
}
