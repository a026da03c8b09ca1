package summary

import (
	"encoding/json"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/market-pulse/internal/types"
	"github.com/stretchr/testify/suite"
)

type SummaryTestSuite struct {
	suite.Suite
}

func TestSummarySuite(t *testing.T) {
	suite.Run(t, new(SummaryTestSuite))
}

func sampleSignals() []types.Signal {
	return []types.Signal{
		{Name: "Weekly MACD", Vote: types.VoteBull, Value: optional.Some(1.5), Detail: "MACD 1.50 vs signal 1.20"},
		{Name: "NYSI Slope", Vote: types.VoteNotAvailable, Value: optional.None[float64](), Detail: "Breadth unavailable"},
		{Name: "VIX Regime", Vote: types.VoteNeutral, Value: optional.Some(22.0), Detail: "VIX 22.00"},
	}
}

func (suite *SummaryTestSuite) TestTextWithoutConflicts() {
	snapshot := types.NewSnapshot("2024-03-01", 67, types.VoteBull, sampleSignals(), nil,
		map[string]string{"vix": "22.00", "rsp_spy": "0.3750"})

	expected := "Market Pulse BULL (67/100) as of 2024-03-01\n" +
		"VIX: 22.00 | RSP/SPY: 0.3750\n" +
		"\n" +
		"Signals:\n" +
		"- Weekly MACD: BULL (MACD 1.50 vs signal 1.20)\n" +
		"- NYSI Slope: N/A (Breadth unavailable)\n" +
		"- VIX Regime: NEUTRAL (VIX 22.00)"

	suite.Equal(expected, Text(snapshot))
}

func (suite *SummaryTestSuite) TestTextWithConflictsAndMissingExtras() {
	snapshot := types.NewSnapshot("2024-03-01", 50, types.VoteNeutral, sampleSignals()[:1],
		[]string{"Trend bullish but breadth weakening"}, nil)

	expected := "Market Pulse NEUTRAL (50/100) as of 2024-03-01\n" +
		"VIX: N/A | RSP/SPY: N/A\n" +
		"\n" +
		"Signals:\n" +
		"- Weekly MACD: BULL (MACD 1.50 vs signal 1.20)\n" +
		"\n" +
		"Conflicts:\n" +
		"- Trend bullish but breadth weakening"

	suite.Equal(expected, Text(snapshot))
}

func (suite *SummaryTestSuite) TestJSON() {
	snapshot := types.NewSnapshot("2024-03-01", 67, types.VoteBull, sampleSignals(), nil,
		map[string]string{"vix": "22.00"})

	data, err := JSON(snapshot)
	suite.Require().NoError(err)

	var decoded map[string]any
	suite.Require().NoError(json.Unmarshal(data, &decoded))

	suite.Equal("2024-03-01", decoded["as_of"])
	suite.InDelta(67.0, decoded["score"], 1e-9)
	suite.Equal("BULL", decoded["label"])
	suite.Equal([]any{}, decoded["conflicts"])
	suite.Equal(map[string]any{"vix": "22.00"}, decoded["extras"])

	signals, ok := decoded["signals"].([]any)
	suite.Require().True(ok)
	suite.Len(signals, 3)

	unavailable, ok := signals[1].(map[string]any)
	suite.Require().True(ok)
	suite.Equal("N/A", unavailable["vote"])
	suite.Contains(unavailable, "value")
	suite.Nil(unavailable["value"])

	suite.Contains(string(data), "\n  \"as_of\"")
}
