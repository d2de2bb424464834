package tui

import "github.com/charmbracelet/lipgloss"

// narrowBreakpoint is the terminal width below which the sidebar and
// the conversation collapse into a single pane.
const narrowBreakpoint = 80

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.
				BorderForeground(lipgloss.Color("33"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Background(lipgloss.Color("236")).
			Bold(true)

	ownMessageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	peerMessageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	timestampStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	onlineDot  = lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Render("●")
	offlineDot = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("○")

	typingStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("33"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().Bold(true)
)

func presenceDot(online bool) string {
	if online {
		return onlineDot
	}
	return offlineDot
}
