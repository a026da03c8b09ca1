package types

import "github.com/moznion/go-optional"

// Vote is the directional classification of one signal.
type Vote string

const (
	// VoteBull is a bullish vote
	VoteBull Vote = "BULL"
	// VoteBear is a bearish vote
	VoteBear Vote = "BEAR"
	// VoteNeutral is a neutral vote
	VoteNeutral Vote = "NEUTRAL"
	// VoteNotAvailable marks a signal whose input data was absent
	VoteNotAvailable Vote = "N/A"
)

// Points returns the contribution of the vote to the raw score.
func (v Vote) Points() int {
	switch v {
	case VoteBull:
		return 1
	case VoteBear:
		return -1
	default:
		return 0
	}
}

// Signal is one named, directional reading produced by the signal engine.
type Signal struct {
	// Name is the stable identifier of the signal
	Name string
	// Vote is the direction of the signal
	Vote Vote
	// Value is the numeric reading behind the vote, absent for unavailable signals
	Value optional.Option[float64]
	// Detail is a human-readable rendering of the compared values
	Detail string
}

// VoteFromBool returns BULL for true and BEAR for false.
func VoteFromBool(condition bool) Vote {
	if condition {
		return VoteBull
	}

	return VoteBear
}
