package provider

import (
	"bytes"
	"context"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rxtech-lab/market-pulse/internal/normalize"
	"github.com/rxtech-lab/market-pulse/internal/series"
	"github.com/rxtech-lab/market-pulse/internal/types"
	"github.com/rxtech-lab/market-pulse/pkg/errors"
)

// StooqBaseURL is the production Stooq endpoint root.
const StooqBaseURL = "https://stooq.com"

// Stooq downloads daily OHLCV history as CSV from stooq.com.
type Stooq struct {
	client  *resty.Client
	baseURL string
}

// NewStooqProvider creates a Stooq price provider.
func NewStooqProvider(opts Options) *Stooq {
	return &Stooq{
		client:  newHTTPClient(opts.timeout()),
		baseURL: opts.baseURL(StooqBaseURL),
	}
}

// Name returns the provider name.
func (s *Stooq) Name() string {
	return string(ProviderStooq)
}

// FetchDaily downloads the US listing of symbol, e.g. spy.us.
func (s *Stooq) FetchDaily(ctx context.Context, symbol string) (series.Series[types.PriceBar], error) {
	body, err := get(ctx, s.client, s.baseURL+"/q/d/l/", map[string]string{
		"s": strings.ToLower(symbol) + ".us",
		"i": "d",
	})
	if err != nil {
		return series.Series[types.PriceBar]{}, err
	}

	// Stooq answers unknown symbols with a plain "No data" body.
	if len(bytes.TrimSpace(body)) == 0 || bytes.EqualFold(bytes.TrimSpace(body), []byte("no data")) {
		return series.Series[types.PriceBar]{}, errors.Newf(errors.ErrCodeEmptyResult, "stooq returned no data for %s", symbol)
	}

	table, err := normalize.ReadCSV(bytes.NewReader(body))
	if err != nil {
		return series.Series[types.PriceBar]{}, err
	}

	prices, err := normalize.Price(table)
	if err != nil {
		return series.Series[types.PriceBar]{}, err
	}

	if prices.IsEmpty() {
		return series.Series[types.PriceBar]{}, errors.Newf(errors.ErrCodeEmptyResult, "stooq returned no rows for %s", symbol)
	}

	return prices, nil
}
