package types

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type SignalTestSuite struct {
	suite.Suite
}

func TestSignalSuite(t *testing.T) {
	suite.Run(t, new(SignalTestSuite))
}

func (suite *SignalTestSuite) TestVoteConstants() {
	suite.Equal(Vote("BULL"), VoteBull)
	suite.Equal(Vote("BEAR"), VoteBear)
	suite.Equal(Vote("NEUTRAL"), VoteNeutral)
	suite.Equal(Vote("N/A"), VoteNotAvailable)
}

func (suite *SignalTestSuite) TestVotePoints() {
	suite.Equal(1, VoteBull.Points())
	suite.Equal(-1, VoteBear.Points())
	suite.Equal(0, VoteNeutral.Points())
	suite.Equal(0, VoteNotAvailable.Points())
}

func (suite *SignalTestSuite) TestVoteFromBool() {
	suite.Equal(VoteBull, VoteFromBool(true))
	suite.Equal(VoteBear, VoteFromBool(false))
}

func (suite *SignalTestSuite) TestSignalValue() {
	signal := Signal{Name: "VIX Regime", Vote: VoteNeutral, Value: optional.Some(22.5), Detail: "VIX 22.50"}
	suite.True(signal.Value.IsSome())
	suite.Equal(22.5, signal.Value.Unwrap())

	na := Signal{Name: "NYSI Slope", Vote: VoteNotAvailable, Value: optional.None[float64](), Detail: "Breadth unavailable"}
	suite.True(na.Value.IsNone())
}
