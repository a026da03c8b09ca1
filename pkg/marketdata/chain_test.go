package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rxtech-lab/market-pulse/internal/logger"
	"github.com/rxtech-lab/market-pulse/internal/metrics"
	"github.com/rxtech-lab/market-pulse/internal/series"
	"github.com/rxtech-lab/market-pulse/mocks"
	"github.com/rxtech-lab/market-pulse/pkg/errors"
	"github.com/rxtech-lab/market-pulse/pkg/marketdata/provider"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ChainTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller
	ctx  context.Context
}

func TestChainSuite(t *testing.T) {
	suite.Run(t, new(ChainTestSuite))
}

func (suite *ChainTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.ctx = context.Background()
}

func (suite *ChainTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func vixSeries(values ...float64) series.Numeric {
	return mocks.DailySeries(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), values)
}

func (suite *ChainTestSuite) mockProvider(name string) *mocks.MockProvider[float64] {
	p := mocks.NewMockProvider[float64](suite.ctrl)
	p.EXPECT().Name().Return(name).AnyTimes()

	return p
}

func (suite *ChainTestSuite) TestNewChainRequiresProviders() {
	chain, err := NewChain[float64](LabelVIXData, nil, logger.NewNopLogger())
	suite.Nil(chain)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ChainTestSuite) TestFirstSuccessShortCircuits() {
	first := suite.mockProvider("local")
	second := suite.mockProvider("fred")

	first.EXPECT().FetchDaily(gomock.Any(), "^VIX").Return(vixSeries(13, 14), nil)
	second.EXPECT().FetchDaily(gomock.Any(), gomock.Any()).Times(0)

	chain, err := NewChain(LabelVIXData, []provider.Provider[float64]{first, second}, logger.NewNopLogger())
	suite.Require().NoError(err)

	result, err := chain.Fetch(suite.ctx, "^VIX")
	suite.Require().NoError(err)
	suite.Equal("local", result.Provider)
	suite.Empty(result.Errors)
	suite.Equal([]float64{13, 14}, result.Series.Values())
}

func (suite *ChainTestSuite) TestFallsBackAfterFailure() {
	first := suite.mockProvider("local")
	second := suite.mockProvider("fred")

	first.EXPECT().FetchDaily(gomock.Any(), "^VIX").Return(series.Numeric{}, errors.New(errors.ErrCodeNotFound, "missing local file: VIX.csv"))
	second.EXPECT().FetchDaily(gomock.Any(), "^VIX").Return(vixSeries(15), nil)

	chain, err := NewChain(LabelVIXData, []provider.Provider[float64]{first, second}, logger.NewNopLogger())
	suite.Require().NoError(err)

	result, err := chain.Fetch(suite.ctx, "^VIX")
	suite.Require().NoError(err)
	suite.Equal("fred", result.Provider)
	suite.Equal([]float64{15}, result.Series.Values())
	suite.Require().Len(result.Errors, 1)
	suite.Contains(result.Errors[0], "local: ")
	suite.Contains(result.Errors[0], "missing local file")
}

func (suite *ChainTestSuite) TestEmptyResultFallsThrough() {
	first := suite.mockProvider("stooq")
	second := suite.mockProvider("yahoo")

	first.EXPECT().FetchDaily(gomock.Any(), gomock.Any()).Return(series.Numeric{}, nil)
	second.EXPECT().FetchDaily(gomock.Any(), gomock.Any()).Return(vixSeries(16), nil)

	chain, err := NewChain(LabelVIXData, []provider.Provider[float64]{first, second}, logger.NewNopLogger())
	suite.Require().NoError(err)

	result, err := chain.Fetch(suite.ctx, "^VIX")
	suite.Require().NoError(err)
	suite.Equal("yahoo", result.Provider)
	suite.Equal([]string{"stooq: [204] no data returned"}, result.Errors)
}

func (suite *ChainTestSuite) TestExhaustionListsEveryProviderInOrder() {
	names := []string{"local", "fred", "yahoo"}
	providers := make([]provider.Provider[float64], 0, len(names))

	for _, name := range names {
		p := suite.mockProvider(name)
		p.EXPECT().FetchDaily(gomock.Any(), gomock.Any()).Return(series.Numeric{}, errors.Newf(errors.ErrCodeNetwork, "%s down", name))
		providers = append(providers, p)
	}

	chain, err := NewChain(LabelVIXData, providers, logger.NewNopLogger())
	suite.Require().NoError(err)

	_, err = chain.FetchDaily(suite.ctx, "^VIX")
	suite.Require().Error(err)
	suite.True(errors.IsChainExhausted(err))

	var exhausted *errors.ChainExhaustedError
	suite.Require().True(errors.As(err, &exhausted))
	suite.Equal(LabelVIXData, exhausted.Label)
	suite.Require().Len(exhausted.Errors, 3)

	for i, name := range names {
		suite.Contains(exhausted.Errors[i], name+": ")
		suite.Contains(exhausted.Errors[i], name+" down")
	}

	suite.Contains(err.Error(), "VIX data failed: local: ")
	suite.True(errors.IsNetworkError(exhausted.Causes[0]))
}

func (suite *ChainTestSuite) TestChainIsReusable() {
	first := suite.mockProvider("local")
	second := suite.mockProvider("fred")

	first.EXPECT().FetchDaily(gomock.Any(), gomock.Any()).Return(series.Numeric{}, errors.New(errors.ErrCodeNotFound, "missing")).Times(2)
	second.EXPECT().FetchDaily(gomock.Any(), gomock.Any()).Return(vixSeries(12), nil).Times(2)

	chain, err := NewChain(LabelVIXData, []provider.Provider[float64]{first, second}, logger.NewNopLogger())
	suite.Require().NoError(err)

	for range 2 {
		result, err := chain.Fetch(suite.ctx, "^VIX")
		suite.Require().NoError(err)
		suite.Len(result.Errors, 1)
	}
}

func (suite *ChainTestSuite) TestCancelledContextStops() {
	first := suite.mockProvider("local")
	first.EXPECT().FetchDaily(gomock.Any(), gomock.Any()).Times(0)

	chain, err := NewChain(LabelVIXData, []provider.Provider[float64]{first}, logger.NewNopLogger())
	suite.Require().NoError(err)

	ctx, cancel := context.WithCancel(suite.ctx)
	cancel()

	_, err = chain.Fetch(ctx, "^VIX")
	suite.ErrorIs(err, context.Canceled)
}

func (suite *ChainTestSuite) TestRecordsMetrics() {
	m := metrics.New(prometheus.NewRegistry())

	first := suite.mockProvider("local")
	second := suite.mockProvider("fred")
	first.EXPECT().FetchDaily(gomock.Any(), gomock.Any()).Return(series.Numeric{}, errors.New(errors.ErrCodeNotFound, "missing"))
	second.EXPECT().FetchDaily(gomock.Any(), gomock.Any()).Return(vixSeries(12), nil)

	chain, err := NewChain(LabelVIXData, []provider.Provider[float64]{first, second}, nil, WithMetrics(m))
	suite.Require().NoError(err)

	_, err = chain.Fetch(suite.ctx, "^VIX")
	suite.Require().NoError(err)

	suite.Equal(1.0, testutil.ToFloat64(m.ProviderFetches.WithLabelValues(LabelVIXData, "local", metrics.OutcomeFailure)))
	suite.Equal(1.0, testutil.ToFloat64(m.ProviderFetches.WithLabelValues(LabelVIXData, "fred", metrics.OutcomeSuccess)))
}

func (suite *ChainTestSuite) TestNameAndProviders() {
	chain, err := NewChain(LabelVIXData, []provider.Provider[float64]{suite.mockProvider("local"), suite.mockProvider("fred")}, nil)
	suite.Require().NoError(err)

	suite.Equal(LabelVIXData, chain.Name())
	suite.Equal([]string{"local", "fred"}, chain.Providers())
}

func (suite *ChainTestSuite) TestDefaultChains() {
	chains, err := DefaultChains(provider.Options{DataDir: suite.T().TempDir()}, logger.NewNopLogger())
	suite.Require().NoError(err)

	suite.Equal([]string{"local", "stooq", "yahoo"}, chains.Price.Providers())
	suite.Equal([]string{"local", "fred", "yahoo"}, chains.Volatility.Providers())
	suite.Require().NotNil(chains.Breadth)
	suite.Equal([]string{"local"}, chains.Breadth.Providers())
}

func (suite *ChainTestSuite) TestDefaultChainsWithPolygon() {
	chains, err := DefaultChains(provider.Options{PolygonAPIKey: "key"}, logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.Equal([]string{"local", "stooq", "yahoo", "polygon"}, chains.Price.Providers())
}

func (suite *ChainTestSuite) TestRemoteChains() {
	chains, err := RemoteChains(provider.Options{}, logger.NewNopLogger())
	suite.Require().NoError(err)

	suite.Equal([]string{"stooq", "yahoo"}, chains.Price.Providers())
	suite.Equal([]string{"fred", "yahoo"}, chains.Volatility.Providers())
	suite.Nil(chains.Breadth)
}
