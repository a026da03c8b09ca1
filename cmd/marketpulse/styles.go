package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/market-pulse/internal/types"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error panels.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1)

	// PanelStyle frames the daily summary.
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	voteColors = map[types.Vote]lipgloss.Color{
		types.VoteBull:         lipgloss.Color("42"),
		types.VoteBear:         lipgloss.Color("196"),
		types.VoteNeutral:      lipgloss.Color("220"),
		types.VoteNotAvailable: lipgloss.Color("244"),
	}
)

// FormatVote renders a vote in its color.
func FormatVote(vote types.Vote) string {
	color, ok := voteColors[vote]
	if !ok {
		return string(vote)
	}

	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(string(vote))
}
