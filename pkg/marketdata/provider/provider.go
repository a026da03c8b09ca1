package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/rxtech-lab/market-pulse/internal/series"
	"github.com/rxtech-lab/market-pulse/internal/types"
)

// ProviderType identifies a source implementation.
type ProviderType string

const (
	ProviderLocal   ProviderType = "local"
	ProviderStooq   ProviderType = "stooq"
	ProviderYahoo   ProviderType = "yahoo"
	ProviderPolygon ProviderType = "polygon"
	ProviderFred    ProviderType = "fred"
)

// DefaultRequestTimeout bounds every remote request.
const DefaultRequestTimeout = 15 * time.Second

// Provider fetches one day-indexed series from a single source.
// Implementations never retry and either return a fully normalized series or an error.
type Provider[T any] interface {
	// Name identifies the provider in chain error messages and logs.
	Name() string
	// FetchDaily returns the complete daily history for symbol.
	FetchDaily(ctx context.Context, symbol string) (series.Series[T], error)
}

// PriceProvider fetches daily OHLCV bars.
type PriceProvider = Provider[types.PriceBar]

// VolatilityProvider fetches a daily volatility index.
type VolatilityProvider = Provider[float64]

// BreadthProvider fetches daily market internals.
type BreadthProvider = Provider[types.BreadthBar]

// Options carries the settings shared by every provider constructor.
type Options struct {
	// DataDir holds the local cache files.
	DataDir string
	// Timeout bounds each remote request. Zero means DefaultRequestTimeout.
	Timeout time.Duration
	// PolygonAPIKey enables the Polygon provider.
	PolygonAPIKey string
	// BaseURL overrides the remote endpoint root. Empty means the production endpoint.
	BaseURL string
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultRequestTimeout
	}

	return o.Timeout
}

func (o Options) baseURL(fallback string) string {
	if o.BaseURL == "" {
		return fallback
	}

	return o.BaseURL
}

// NewPriceProvider creates a price provider based on the provider type.
func NewPriceProvider(providerType ProviderType, opts Options) (PriceProvider, error) {
	switch providerType {
	case ProviderLocal:
		return NewLocalPriceProvider(opts.DataDir), nil
	case ProviderStooq:
		return NewStooqProvider(opts), nil
	case ProviderYahoo:
		return NewYahooPriceProvider(opts), nil
	case ProviderPolygon:
		client, err := NewPolygonClient(opts.PolygonAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create Polygon client: %w", err)
		}

		return client, nil
	default:
		return nil, fmt.Errorf("unsupported price provider: %s", providerType)
	}
}

// NewVolatilityProvider creates a volatility provider based on the provider type.
func NewVolatilityProvider(providerType ProviderType, opts Options) (VolatilityProvider, error) {
	switch providerType {
	case ProviderLocal:
		return NewLocalVolatilityProvider(opts.DataDir), nil
	case ProviderFred:
		return NewFredProvider(opts), nil
	case ProviderYahoo:
		return NewYahooVolatilityProvider(opts), nil
	default:
		return nil, fmt.Errorf("unsupported volatility provider: %s", providerType)
	}
}

// NewBreadthProvider creates a breadth provider based on the provider type.
func NewBreadthProvider(providerType ProviderType, opts Options) (BreadthProvider, error) {
	switch providerType {
	case ProviderLocal:
		return NewLocalBreadthProvider(opts.DataDir), nil
	default:
		return nil, fmt.Errorf("unsupported breadth provider: %s", providerType)
	}
}
