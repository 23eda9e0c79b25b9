package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"tagcheck/internal/driver"
)

// Run drives the progress view on out until events is closed.
func Run(out io.Writer, title string, files []string, events <-chan driver.Event) error {
	p := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out), tea.WithInput(nil))
	_, err := p.Run()
	return err
}
