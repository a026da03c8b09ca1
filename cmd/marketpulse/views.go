package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/market-pulse/internal/types"
)

// NewSignalTable creates the table listing every signal.
func NewSignalTable() table.Model {
	columns := []table.Column{
		{Title: "Signal", Width: 20},
		{Title: "Vote", Width: 8},
		{Title: "Detail", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(9),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.UnsetForeground().UnsetBackground().Bold(false)

	t.SetStyles(s)

	return t
}

// UpdateSignalRows replaces the table rows with the snapshot's signals, in order.
func UpdateSignalRows(t table.Model, snapshot types.Snapshot) table.Model {
	signals := snapshot.Signals()
	rows := make([]table.Row, 0, len(signals))

	for _, signal := range signals {
		rows = append(rows, table.Row{signal.Name, string(signal.Vote), signal.Detail})
	}

	t.SetRows(rows)

	return t
}

// HeaderLine renders label, score, VIX, RSP/SPY and the as-of date on one line.
func HeaderLine(snapshot types.Snapshot) string {
	return fmt.Sprintf("%s %d/100 | VIX %s | RSP/SPY %s | %s",
		FormatVote(snapshot.Label()),
		snapshot.Score(),
		extraOrMissing(snapshot, "vix"),
		extraOrMissing(snapshot, "rsp_spy"),
		snapshot.AsOf(),
	)
}

func extraOrMissing(snapshot types.Snapshot, key string) string {
	if value, ok := snapshot.Extra(key); ok {
		return value
	}

	return "N/A"
}
