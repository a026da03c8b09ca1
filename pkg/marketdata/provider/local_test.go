package provider

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/market-pulse/internal/types"
	"github.com/rxtech-lab/market-pulse/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type LocalFileTestSuite struct {
	suite.Suite
	dataDir string
}

func TestLocalFileSuite(t *testing.T) {
	suite.Run(t, new(LocalFileTestSuite))
}

func (suite *LocalFileTestSuite) SetupTest() {
	suite.dataDir = suite.T().TempDir()
}

func (suite *LocalFileTestSuite) writeFile(name, content string) {
	err := os.WriteFile(filepath.Join(suite.dataDir, name), []byte(content), 0o644)
	suite.Require().NoError(err)
}

func (suite *LocalFileTestSuite) TestCacheFileName() {
	suite.Equal("SPY", CacheFileName(types.DataKindPrice, "spy"))
	suite.Equal("VIX", CacheFileName(types.DataKindVolatility, "^VIX"))
	suite.Equal("breadth", CacheFileName(types.DataKindBreadth, "anything"))
}

func (suite *LocalFileTestSuite) TestPriceRoundTrip() {
	suite.writeFile("SPY.csv", "date,open,high,low,close,volume\n2024-01-02,470,473,468,472.65,100\n2024-01-03,471,472,466,468.79,200\n")

	prices, err := NewLocalPriceProvider(suite.dataDir).FetchDaily(context.Background(), "SPY")
	suite.Require().NoError(err)
	suite.Equal(2, prices.Len())

	last, ok := prices.Last()
	suite.True(ok)
	suite.Equal(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), last.Date)
	suite.Equal(types.PriceBar{Open: 471, High: 472, Low: 466, Close: 468.79, Volume: 200}, last.Value)

	first, _ := prices.First()
	suite.Equal(472.65, first.Value.Close)
}

func (suite *LocalFileTestSuite) TestVolatilityStripsCaret() {
	suite.writeFile("VIX.csv", "date,close\n2024-01-02,13.2\n")

	vix, err := NewLocalVolatilityProvider(suite.dataDir).FetchDaily(context.Background(), "^VIX")
	suite.Require().NoError(err)
	suite.Equal([]float64{13.2}, vix.Values())
}

func (suite *LocalFileTestSuite) TestBreadth() {
	suite.writeFile("breadth.csv", "date,advances,declines,new_highs,new_lows\n2024-01-02,1500,900,120,40\n")

	breadth, err := NewLocalBreadthProvider(suite.dataDir).FetchDaily(context.Background(), "breadth")
	suite.Require().NoError(err)
	suite.Equal(600.0, breadth.At(0).Value.NetAdvances())
}

func (suite *LocalFileTestSuite) TestMissingFile() {
	provider := NewLocalPriceProvider(suite.dataDir)

	_, err := provider.FetchDaily(context.Background(), "RSP")
	suite.Require().Error(err)
	suite.True(errors.IsNotFound(err))
	suite.Contains(err.Error(), "RSP.csv")
	suite.Equal("local", provider.Name())
}

func (suite *LocalFileTestSuite) TestSchemaError() {
	suite.writeFile("SPY.csv", "date,close\n2024-01-02,1\n")

	_, err := NewLocalPriceProvider(suite.dataDir).FetchDaily(context.Background(), "SPY")
	suite.True(errors.IsSchemaError(err))
}

func (suite *LocalFileTestSuite) TestHeaderOnlyFileIsEmpty() {
	suite.writeFile("VIX.csv", "date,vix\n")

	_, err := NewLocalVolatilityProvider(suite.dataDir).FetchDaily(context.Background(), "^VIX")
	suite.True(errors.IsEmptyResult(err))
}

func (suite *LocalFileTestSuite) TestParquetFallback() {
	path := filepath.Join(suite.dataDir, "VIX.parquet")

	db, err := sql.Open("duckdb", "")
	suite.Require().NoError(err)
	defer db.Close()

	_, err = db.Exec(fmt.Sprintf(`COPY (
		SELECT * FROM (VALUES (DATE '2024-01-03', 14.5::DOUBLE), (DATE '2024-01-02', 13.0::DOUBLE)) AS t("date", vix)
	) TO '%s' (FORMAT PARQUET)`, path))
	suite.Require().NoError(err)

	vix, err := NewLocalVolatilityProvider(suite.dataDir).FetchDaily(context.Background(), "^VIX")
	suite.Require().NoError(err)
	suite.Equal([]float64{13.0, 14.5}, vix.Values())
}

func (suite *LocalFileTestSuite) TestCSVPreferredOverParquet() {
	suite.writeFile("VIX.csv", "date,vix\n2024-01-02,20\n")
	suite.writeFile("VIX.parquet", "not a parquet file")

	vix, err := NewLocalVolatilityProvider(suite.dataDir).FetchDaily(context.Background(), "^VIX")
	suite.Require().NoError(err)
	suite.Equal([]float64{20}, vix.Values())
}
