package marketdata

import (
	"fmt"
	"slices"

	"github.com/rxtech-lab/market-pulse/internal/logger"
	"github.com/rxtech-lab/market-pulse/internal/types"
	"github.com/rxtech-lab/market-pulse/pkg/marketdata/provider"
)

// Chains holds one chain per data kind.
type Chains struct {
	Price      *Chain[types.PriceBar]
	Volatility *Chain[float64]
	// Breadth is nil when no breadth source is available, e.g. for remote-only chains.
	Breadth *Chain[types.BreadthBar]
}

// ProviderOrder returns the production trial order for a data kind.
// Polygon is only included when an API key is configured.
func ProviderOrder(kind types.DataKind, polygonEnabled bool) []provider.ProviderType {
	switch kind {
	case types.DataKindPrice:
		order := []provider.ProviderType{provider.ProviderLocal, provider.ProviderStooq, provider.ProviderYahoo}
		if polygonEnabled {
			order = append(order, provider.ProviderPolygon)
		}

		return order
	case types.DataKindVolatility:
		return []provider.ProviderType{provider.ProviderLocal, provider.ProviderFred, provider.ProviderYahoo}
	case types.DataKindBreadth:
		return []provider.ProviderType{provider.ProviderLocal}
	default:
		return nil
	}
}

// DefaultChains builds the production chains, local cache first.
func DefaultChains(opts provider.Options, log *logger.Logger, chainOpts ...ChainOption) (*Chains, error) {
	return buildChains(opts, log, true, chainOpts...)
}

// RemoteChains builds chains without the local cache provider. Breadth has no remote
// source, so the returned Breadth chain is nil.
func RemoteChains(opts provider.Options, log *logger.Logger, chainOpts ...ChainOption) (*Chains, error) {
	return buildChains(opts, log, false, chainOpts...)
}

func buildChains(opts provider.Options, log *logger.Logger, includeLocal bool, chainOpts ...ChainOption) (*Chains, error) {
	polygonEnabled := opts.PolygonAPIKey != ""

	priceProviders, err := buildProviders(types.DataKindPrice, polygonEnabled, includeLocal, func(t provider.ProviderType) (provider.PriceProvider, error) {
		return provider.NewPriceProvider(t, opts)
	})
	if err != nil {
		return nil, err
	}

	volatilityProviders, err := buildProviders(types.DataKindVolatility, polygonEnabled, includeLocal, func(t provider.ProviderType) (provider.VolatilityProvider, error) {
		return provider.NewVolatilityProvider(t, opts)
	})
	if err != nil {
		return nil, err
	}

	breadthProviders, err := buildProviders(types.DataKindBreadth, polygonEnabled, includeLocal, func(t provider.ProviderType) (provider.BreadthProvider, error) {
		return provider.NewBreadthProvider(t, opts)
	})
	if err != nil {
		return nil, err
	}

	chains := &Chains{}

	chains.Price, err = NewChain(LabelMarketData, priceProviders, log, chainOpts...)
	if err != nil {
		return nil, err
	}

	chains.Volatility, err = NewChain(LabelVIXData, volatilityProviders, log, chainOpts...)
	if err != nil {
		return nil, err
	}

	if len(breadthProviders) > 0 {
		chains.Breadth, err = NewChain(LabelBreadth, breadthProviders, log, chainOpts...)
		if err != nil {
			return nil, err
		}
	}

	return chains, nil
}

func buildProviders[T any](kind types.DataKind, polygonEnabled, includeLocal bool, build func(provider.ProviderType) (provider.Provider[T], error)) ([]provider.Provider[T], error) {
	order := ProviderOrder(kind, polygonEnabled)
	if !includeLocal {
		order = slices.DeleteFunc(order, func(t provider.ProviderType) bool { return t == provider.ProviderLocal })
	}

	providers := make([]provider.Provider[T], 0, len(order))

	for _, providerType := range order {
		p, err := build(providerType)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s provider: %w", providerType, err)
		}

		providers = append(providers, p)
	}

	return providers, nil
}
