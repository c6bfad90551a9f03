package tui

import "github.com/charmbracelet/lipgloss"

var (
	Accent  = lipgloss.Color("#8BC34A")
	Muted   = lipgloss.Color("#6b7280")
	Warning = lipgloss.Color("#FFC107")
	Info    = lipgloss.Color("#2196F3")
	Border  = lipgloss.Color("#2a3850")
)

// Styles groups the lipgloss styles used by the model.
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Status   lipgloss.Style
	Pane     lipgloss.Style
	Tab      lipgloss.Style
	TabOn    lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Header:   lipgloss.NewStyle().Bold(true).Foreground(Info),
		Cursor:   lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Selected: lipgloss.NewStyle().Foreground(Accent),
		Muted:    lipgloss.NewStyle().Foreground(Muted),
		Status:   lipgloss.NewStyle().Foreground(Warning),
		Pane:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(0, 1),
		Tab:      lipgloss.NewStyle().Foreground(Muted).Padding(0, 1),
		TabOn:    lipgloss.NewStyle().Bold(true).Foreground(Accent).Underline(true).Padding(0, 1),
	}
}
