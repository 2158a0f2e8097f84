package ui

import "github.com/charmbracelet/lipgloss"

type Style struct {
	SelectedMessage   lipgloss.Style
	UnselectedMessage lipgloss.Style
	EditingMessage    lipgloss.Style
	CollapsedSummary  lipgloss.Style
	UserBadge         lipgloss.Style
	AIBadge           lipgloss.Style
	ThreadTitle       lipgloss.Style
	PinnedThread      lipgloss.Style
	StatusError       lipgloss.Style
	StatusInfo        lipgloss.Style
}

func DefaultStyles() *Style {
	return &Style{
		SelectedMessage: lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("57")).
			Bold(true),
		UnselectedMessage: lipgloss.NewStyle(),
		EditingMessage: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1),
		CollapsedSummary: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true),
		UserBadge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
		AIBadge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("141")),
		ThreadTitle: lipgloss.NewStyle().
			Bold(true),
		PinnedThread: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		StatusInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
	}
}
