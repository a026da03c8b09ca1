package engine

import (
	"slices"

	"github.com/rxtech-lab/market-pulse/internal/config"
	"github.com/rxtech-lab/market-pulse/internal/types"
	"github.com/shopspring/decimal"
)

const (
	// ConflictTrendBullish is emitted when the whole trend group is bullish but breadth is not
	ConflictTrendBullish = "Trend bullish but breadth weakening"
	// ConflictTrendBearish is emitted when the whole trend group is bearish but breadth is not
	ConflictTrendBearish = "Trend bearish but breadth improving"
)

// ScoreSignals maps the votes to a 0-100 score, rounding half to even, and labels it.
func ScoreSignals(signals []types.Signal, cfg config.Config) (int, types.Vote) {
	raw := 0
	for _, signal := range signals {
		raw += signal.Vote.Points()
	}

	n := int64(max(len(signals), 1))

	score := decimal.NewFromInt(int64(raw)+n).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(2 * n)).
		RoundBank(0).
		IntPart()

	return int(score), Label(int(score), cfg)
}

// Label classifies a score against the configured thresholds.
func Label(score int, cfg config.Config) types.Vote {
	switch {
	case score >= cfg.ScoreBull:
		return types.VoteBull
	case score >= cfg.ScoreNeutral:
		return types.VoteNeutral
	default:
		return types.VoteBear
	}
}

// DetectConflicts reports disagreement between the trend and breadth groups.
// Unavailable breadth votes neither trigger nor block a conflict.
func DetectConflicts(signals []types.Signal) []string {
	var trend, breadth []types.Vote

	for _, signal := range signals {
		switch GroupOf(signal.Name) {
		case GroupTrend:
			trend = append(trend, signal.Vote)
		case GroupBreadth:
			breadth = append(breadth, signal.Vote)
		case GroupContext:
		}
	}

	conflicts := []string{}

	if len(trend) == 0 || len(breadth) == 0 {
		return conflicts
	}

	if allVotes(trend, types.VoteBull) && slices.Contains(breadth, types.VoteBear) {
		conflicts = append(conflicts, ConflictTrendBullish)
	}

	if allVotes(trend, types.VoteBear) && slices.Contains(breadth, types.VoteBull) {
		conflicts = append(conflicts, ConflictTrendBearish)
	}

	return conflicts
}

func allVotes(votes []types.Vote, want types.Vote) bool {
	for _, v := range votes {
		if v != want {
			return false
		}
	}

	return true
}
