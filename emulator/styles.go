package emulator

import "github.com/charmbracelet/lipgloss"

// styles used for terminal output in step mode. ANSI colors only, so the
// output degrades sensibly on basic terminals.
type styles struct {
	instruction lipgloss.Style
	machine     lipgloss.Style
	err         lipgloss.Style
	debugger    lipgloss.Style
}

func newStyles() styles {
	return styles{
		instruction: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		machine:     lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(4)),
		err:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
		debugger:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(2)),
	}
}
