package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap defines key bindings.
type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// NewProgram wraps the dashboard model in a Bubble Tea program.
// The caller feeds refreshed results in via Program.Send(DataMsg{...}).
func NewProgram(m Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen())
}

// RenderStatic renders the dashboard once without a running program,
// for non-TTY fallback and tests.
func RenderStatic(m Model) string {
	m.width = 80
	m.height = 24
	return m.View()
}
