package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/market-pulse/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() types.Snapshot {
	signals := []types.Signal{
		{Name: "Weekly MACD", Vote: types.VoteBull, Value: optional.Some(2.5), Detail: "MACD 2.50 vs signal 1.75"},
		{Name: "NYSI Slope", Vote: types.VoteNotAvailable, Value: optional.None[float64](), Detail: "Breadth unavailable"},
		{Name: "VIX Regime", Vote: types.VoteBull, Value: optional.Some(14.0), Detail: "VIX 14.00"},
	}

	return types.NewSnapshot("2024-05-03", 83, types.VoteBull, signals, nil,
		map[string]string{"vix": "14.00", "rsp_spy": "0.3712"})
}

func staticFetch(snapshot types.Snapshot, err error) SnapshotFunc {
	return func(context.Context) (types.Snapshot, error) {
		return snapshot, err
	}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewModel(t *testing.T) {
	m := NewModel(context.Background(), staticFetch(sampleSnapshot(), nil), time.Minute)

	assert.True(t, m.loading)
	assert.True(t, m.snapshot.IsNone())
	assert.NoError(t, m.err)
	assert.Equal(t, time.Minute, m.interval)
}

func TestDashboardRendersSnapshot(t *testing.T) {
	m := NewModel(context.Background(), staticFetch(sampleSnapshot(), nil), time.Hour)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("83/100")) &&
			bytes.Contains(bts, []byte("Weekly MACD")) &&
			bytes.Contains(bts, []byte("Daily Summary"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(keyRune('q'))
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}

func TestDashboardShowsError(t *testing.T) {
	m := NewModel(context.Background(), staticFetch(types.Snapshot{}, errors.New("Market data failed: local: missing")), time.Hour)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Error: Market data failed"))
	}, teatest.WithDuration(3*time.Second))

	require.NoError(t, tm.Quit())
}

func TestRefreshSuppressedWhileInFlight(t *testing.T) {
	m := NewModel(context.Background(), staticFetch(sampleSnapshot(), nil), time.Hour)

	next, cmd := m.Update(keyRune('r'))
	assert.Nil(t, cmd)
	assert.True(t, next.(Model).loading)

	next, _ = next.Update(SnapshotMsg{Snapshot: sampleSnapshot()})
	idle := next.(Model)
	assert.False(t, idle.loading)
	assert.Equal(t, 1, idle.refreshes)
	assert.True(t, idle.snapshot.IsSome())

	next, cmd = idle.Update(keyRune('r'))
	assert.NotNil(t, cmd)
	assert.True(t, next.(Model).loading)
}

func TestTickRefreshesWhenIdle(t *testing.T) {
	m := NewModel(context.Background(), staticFetch(sampleSnapshot(), nil), time.Hour)

	next, _ := m.Update(SnapshotMsg{Snapshot: sampleSnapshot()})
	next, cmd := next.Update(TickMsg(time.Now()))

	assert.NotNil(t, cmd)
	assert.True(t, next.(Model).loading)
}

func TestErrorKeepsLastSnapshot(t *testing.T) {
	m := NewModel(context.Background(), staticFetch(sampleSnapshot(), nil), time.Hour)

	next, _ := m.Update(SnapshotMsg{Snapshot: sampleSnapshot()})
	next, _ = next.Update(SnapshotErrorMsg{Err: errors.New("VIX data failed")})

	failed := next.(Model)
	assert.False(t, failed.loading)
	assert.True(t, failed.snapshot.IsSome())
	assert.Contains(t, failed.View(), "VIX data failed")
	assert.Contains(t, failed.View(), "83/100")
}

func TestQuitKeys(t *testing.T) {
	m := NewModel(context.Background(), staticFetch(sampleSnapshot(), nil), time.Hour)

	for _, key := range []tea.KeyMsg{keyRune('q'), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(key)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}
