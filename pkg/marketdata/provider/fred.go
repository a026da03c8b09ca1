package provider

import (
	"bytes"
	"context"

	"github.com/go-resty/resty/v2"
	"github.com/rxtech-lab/market-pulse/internal/normalize"
	"github.com/rxtech-lab/market-pulse/internal/series"
	"github.com/rxtech-lab/market-pulse/pkg/errors"
)

const (
	// FredBaseURL is the production FRED endpoint root.
	FredBaseURL = "https://fred.stlouisfed.org"
	// FredVIXSeries is the FRED series id of the CBOE volatility index close.
	FredVIXSeries = "VIXCLS"
)

// Fred downloads the VIXCLS series as CSV from the St. Louis Fed.
// The symbol passed to FetchDaily is ignored; FRED publishes a single VIX series.
type Fred struct {
	client   *resty.Client
	baseURL  string
	seriesID string
}

// NewFredProvider creates a FRED volatility provider.
func NewFredProvider(opts Options) *Fred {
	return &Fred{
		client:   newHTTPClient(opts.timeout()),
		baseURL:  opts.baseURL(FredBaseURL),
		seriesID: FredVIXSeries,
	}
}

// Name returns the provider name.
func (f *Fred) Name() string {
	return string(ProviderFred)
}

// FetchDaily downloads the full VIXCLS history. Missing observations (".") are dropped.
func (f *Fred) FetchDaily(ctx context.Context, _ string) (series.Numeric, error) {
	body, err := get(ctx, f.client, f.baseURL+"/graph/fredgraph.csv", map[string]string{"id": f.seriesID})
	if err != nil {
		return series.Numeric{}, err
	}

	table, err := normalize.ReadCSV(bytes.NewReader(body))
	if err != nil {
		return series.Numeric{}, err
	}

	vix, err := normalize.Volatility(table)
	if err != nil {
		return series.Numeric{}, err
	}

	if vix.IsEmpty() {
		return series.Numeric{}, errors.Newf(errors.ErrCodeEmptyResult, "fred returned no rows for %s", f.seriesID)
	}

	return vix, nil
}
