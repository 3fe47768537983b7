package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// run starts a full-screen program and returns its final model
func run(model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model, tea.WithAltScreen())
	return p.Run()
}
