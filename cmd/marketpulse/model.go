package main

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/market-pulse/internal/summary"
	"github.com/rxtech-lab/market-pulse/internal/types"
)

// SnapshotFunc computes one snapshot.
type SnapshotFunc func(ctx context.Context) (types.Snapshot, error)

// Model is the Bubble Tea model of the dashboard.
type Model struct {
	fetch       SnapshotFunc
	interval    time.Duration
	ctx         context.Context
	snapshot    optional.Option[types.Snapshot]
	err         error
	loading     bool
	refreshes   int
	signalTable table.Model
	spinner     spinner.Model
	width       int
	height      int
}

// NewModel creates a dashboard that refreshes through fetch every interval.
// The first refresh starts immediately.
func NewModel(ctx context.Context, fetch SnapshotFunc, interval time.Duration) Model {
	return Model{
		fetch:       fetch,
		interval:    interval,
		ctx:         ctx,
		snapshot:    optional.None[types.Snapshot](),
		err:         nil,
		loading:     true,
		refreshes:   0,
		signalTable: NewSignalTable(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:       0,
		height:      0,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.tick(), m.spinner.Tick)
}

func (m Model) refresh() tea.Cmd {
	fetch, ctx := m.fetch, m.ctx

	return func() tea.Msg {
		snapshot, err := fetch(ctx)
		if err != nil {
			return SnapshotErrorMsg{Err: err}
		}

		return SnapshotMsg{Snapshot: snapshot}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// startRefresh begins a refresh unless one is already in flight.
func (m Model) startRefresh() (Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	m.loading = true

	return m, tea.Batch(m.refresh(), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m.startRefresh()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.signalTable.SetWidth(msg.Width)

		return m, nil

	case TickMsg:
		next, cmd := m.startRefresh()

		return next, tea.Batch(cmd, m.tick())

	case SnapshotMsg:
		m.loading = false
		m.refreshes++
		m.err = nil
		m.snapshot = optional.Some(msg.Snapshot)
		m.signalTable = UpdateSignalRows(m.signalTable, msg.Snapshot)

		return m, nil

	case SnapshotErrorMsg:
		m.loading = false
		m.refreshes++
		m.err = msg.Err

		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("marketPulse"))

	if m.loading {
		b.WriteString(" " + m.spinner.View() + " refreshing")
	}

	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(ErrorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}

	if snapshot, err := m.snapshot.Take(); err == nil {
		b.WriteString(TitleStyle.Render(HeaderLine(snapshot)) + "\n\n")
		b.WriteString(m.signalTable.View() + "\n\n")
		b.WriteString(PanelStyle.Render("Daily Summary\n\n"+summary.Text(snapshot)) + "\n\n")
	} else if !m.loading && m.err == nil {
		b.WriteString("No snapshot yet\n\n")
	}

	b.WriteString(HelpStyle.Render("r: refresh • q: quit"))

	return b.String()
}
