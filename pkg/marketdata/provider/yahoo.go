package provider

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rxtech-lab/market-pulse/internal/normalize"
	"github.com/rxtech-lab/market-pulse/internal/series"
	"github.com/rxtech-lab/market-pulse/internal/types"
	"github.com/rxtech-lab/market-pulse/pkg/errors"
)

// YahooBaseURL is the production Yahoo Finance chart endpoint root.
const YahooBaseURL = "https://query1.finance.yahoo.com"

type yahooChartResponse struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooChartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// Yahoo downloads the full daily chart of a symbol from Yahoo Finance.
type Yahoo[T any] struct {
	client    *resty.Client
	baseURL   string
	normalize func(normalize.Table) (series.Series[T], error)
}

// NewYahooPriceProvider creates a Yahoo price provider.
func NewYahooPriceProvider(opts Options) *Yahoo[types.PriceBar] {
	return &Yahoo[types.PriceBar]{
		client:    newHTTPClient(opts.timeout()),
		baseURL:   opts.baseURL(YahooBaseURL),
		normalize: normalize.Price,
	}
}

// NewYahooVolatilityProvider creates a Yahoo volatility provider. The index close is the value.
func NewYahooVolatilityProvider(opts Options) *Yahoo[float64] {
	return &Yahoo[float64]{
		client:    newHTTPClient(opts.timeout()),
		baseURL:   opts.baseURL(YahooBaseURL),
		normalize: normalize.Volatility,
	}
}

// Name returns the provider name.
func (y *Yahoo[T]) Name() string {
	return string(ProviderYahoo)
}

// FetchDaily downloads the maximum daily range for symbol.
func (y *Yahoo[T]) FetchDaily(ctx context.Context, symbol string) (series.Series[T], error) {
	endpoint := y.baseURL + "/v8/finance/chart/" + url.PathEscape(strings.ToUpper(symbol))

	body, err := get(ctx, y.client, endpoint, map[string]string{"range": "max", "interval": "1d"})
	if err != nil {
		return series.Series[T]{}, err
	}

	var response yahooChartResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return series.Series[T]{}, errors.Wrap(errors.ErrCodeSchema, "failed to decode yahoo chart", err)
	}

	if response.Chart.Error != nil {
		return series.Series[T]{}, errors.Newf(errors.ErrCodeNetwork, "yahoo chart error %s: %s",
			response.Chart.Error.Code, response.Chart.Error.Description)
	}

	if len(response.Chart.Result) == 0 {
		return series.Series[T]{}, errors.Newf(errors.ErrCodeEmptyResult, "yahoo returned no chart for %s", symbol)
	}

	result, err := y.normalize(chartTable(response.Chart.Result[0]))
	if err != nil {
		return series.Series[T]{}, err
	}

	if result.IsEmpty() {
		return series.Series[T]{}, errors.Newf(errors.ErrCodeEmptyResult, "yahoo returned no rows for %s", symbol)
	}

	return result, nil
}

// chartTable flattens the columnar chart payload into a table. Null quotes become blank cells.
func chartTable(result yahooChartResult) normalize.Table {
	table := normalize.Table{
		Columns: []string{"date", "open", "high", "low", "close", "volume"},
		Rows:    make([][]string, 0, len(result.Timestamp)),
	}

	if len(result.Indicators.Quote) == 0 {
		return table
	}

	quote := result.Indicators.Quote[0]

	for i, timestamp := range result.Timestamp {
		table.Rows = append(table.Rows, []string{
			time.Unix(timestamp, 0).UTC().Format(series.DateLayout),
			quoteCell(quote.Open, i),
			quoteCell(quote.High, i),
			quoteCell(quote.Low, i),
			quoteCell(quote.Close, i),
			quoteCell(quote.Volume, i),
		})
	}

	return table
}

func quoteCell(values []*float64, i int) string {
	if i >= len(values) || values[i] == nil {
		return ""
	}

	return strconv.FormatFloat(*values[i], 'f', -1, 64)
}
