// Package summary renders snapshots as shareable text and as JSON.
package summary

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rxtech-lab/market-pulse/internal/types"
)

const missing = "N/A"

// Text renders the multi-line plain-text summary of a snapshot.
func Text(snapshot types.Snapshot) string {
	lines := []string{
		fmt.Sprintf("Market Pulse %s (%d/100) as of %s", snapshot.Label(), snapshot.Score(), snapshot.AsOf()),
		fmt.Sprintf("VIX: %s | RSP/SPY: %s", extra(snapshot, "vix"), extra(snapshot, "rsp_spy")),
		"",
		"Signals:",
	}

	for _, signal := range snapshot.Signals() {
		lines = append(lines, fmt.Sprintf("- %s: %s (%s)", signal.Name, signal.Vote, signal.Detail))
	}

	if conflicts := snapshot.Conflicts(); len(conflicts) > 0 {
		lines = append(lines, "", "Conflicts:")
		for _, conflict := range conflicts {
			lines = append(lines, "- "+conflict)
		}
	}

	return strings.Join(lines, "\n")
}

func extra(snapshot types.Snapshot, key string) string {
	if value, ok := snapshot.Extra(key); ok {
		return value
	}

	return missing
}

// Signal is the JSON form of a signal. Value is null for unavailable signals.
type Signal struct {
	Name   string   `json:"name"`
	Vote   string   `json:"vote"`
	Value  *float64 `json:"value"`
	Detail string   `json:"detail"`
}

// Document is the JSON form of a snapshot.
type Document struct {
	AsOf      string            `json:"as_of"`
	Score     int               `json:"score"`
	Label     string            `json:"label"`
	Signals   []Signal          `json:"signals"`
	Conflicts []string          `json:"conflicts"`
	Extras    map[string]string `json:"extras"`
}

// NewDocument converts a snapshot into its JSON form.
func NewDocument(snapshot types.Snapshot) Document {
	signals := make([]Signal, 0, len(snapshot.Signals()))

	for _, s := range snapshot.Signals() {
		var value *float64
		if v, err := s.Value.Take(); err == nil {
			value = &v
		}

		signals = append(signals, Signal{
			Name:   s.Name,
			Vote:   string(s.Vote),
			Value:  value,
			Detail: s.Detail,
		})
	}

	conflicts := snapshot.Conflicts()
	if conflicts == nil {
		conflicts = []string{}
	}

	return Document{
		AsOf:      snapshot.AsOf(),
		Score:     snapshot.Score(),
		Label:     string(snapshot.Label()),
		Signals:   signals,
		Conflicts: conflicts,
		Extras:    snapshot.Extras(),
	}
}

// JSON renders the snapshot as indented JSON.
func JSON(snapshot types.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(NewDocument(snapshot), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return data, nil
}
