package types

import "maps"

// Snapshot is the immutable result of one computation pass.
// The slices and map are copied on construction and on every read.
type Snapshot struct {
	asOf      string
	score     int
	label     Vote
	signals   []Signal
	conflicts []string
	extras    map[string]string
}

// NewSnapshot creates a snapshot, copying the given collections.
func NewSnapshot(asOf string, score int, label Vote, signals []Signal, conflicts []string, extras map[string]string) Snapshot {
	return Snapshot{
		asOf:      asOf,
		score:     score,
		label:     label,
		signals:   append([]Signal(nil), signals...),
		conflicts: append([]string(nil), conflicts...),
		extras:    maps.Clone(extras),
	}
}

// AsOf returns the as-of date formatted as YYYY-MM-DD.
func (s Snapshot) AsOf() string { return s.asOf }

// Score returns the normalized 0-100 score.
func (s Snapshot) Score() int { return s.score }

// Label returns the overall BULL/NEUTRAL/BEAR label.
func (s Snapshot) Label() Vote { return s.label }

// Signals returns the ordered signals.
func (s Snapshot) Signals() []Signal {
	return append([]Signal(nil), s.signals...)
}

// Conflicts returns the conflict descriptions.
func (s Snapshot) Conflicts() []string {
	return append([]string(nil), s.conflicts...)
}

// Extras returns the auxiliary display values.
func (s Snapshot) Extras() map[string]string {
	if s.extras == nil {
		return map[string]string{}
	}

	return maps.Clone(s.extras)
}

// Extra returns a single auxiliary display value.
func (s Snapshot) Extra(key string) (string, bool) {
	value, ok := s.extras[key]

	return value, ok
}
