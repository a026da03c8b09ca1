package marketdata

import (
	"fmt"
	"slices"

	"github.com/rxtech-lab/market-pulse/internal/types"
	"github.com/rxtech-lab/market-pulse/pkg/marketdata/provider"
)

// ProviderInfo contains metadata about a data provider.
type ProviderInfo struct {
	Name         string           `json:"name"         yaml:"name"`
	DisplayName  string           `json:"displayName"  yaml:"display_name"`
	Description  string           `json:"description"  yaml:"description"`
	Kinds        []types.DataKind `json:"kinds"        yaml:"kinds"`
	Remote       bool             `json:"remote"       yaml:"remote"`
	RequiresAuth bool             `json:"requiresAuth" yaml:"requires_auth"`
}

// providerRegistry holds metadata about all supported providers.
var providerRegistry = map[provider.ProviderType]ProviderInfo{
	provider.ProviderLocal: {
		Name:         string(provider.ProviderLocal),
		DisplayName:  "Local cache",
		Description:  "CSV or parquet files in the data directory (<SYMBOL>, VIX, breadth)",
		Kinds:        []types.DataKind{types.DataKindPrice, types.DataKindVolatility, types.DataKindBreadth},
		Remote:       false,
		RequiresAuth: false,
	},
	provider.ProviderStooq: {
		Name:         string(provider.ProviderStooq),
		DisplayName:  "Stooq",
		Description:  "Free daily OHLCV history for US listings as CSV",
		Kinds:        []types.DataKind{types.DataKindPrice},
		Remote:       true,
		RequiresAuth: false,
	},
	provider.ProviderYahoo: {
		Name:         string(provider.ProviderYahoo),
		DisplayName:  "Yahoo Finance",
		Description:  "Daily chart history for equities and indices such as ^VIX",
		Kinds:        []types.DataKind{types.DataKindPrice, types.DataKindVolatility},
		Remote:       true,
		RequiresAuth: false,
	},
	provider.ProviderPolygon: {
		Name:         string(provider.ProviderPolygon),
		DisplayName:  "Polygon.io",
		Description:  "US stock market daily aggregates, enabled when an API key is configured",
		Kinds:        []types.DataKind{types.DataKindPrice},
		Remote:       true,
		RequiresAuth: true,
	},
	provider.ProviderFred: {
		Name:         string(provider.ProviderFred),
		DisplayName:  "FRED",
		Description:  "St. Louis Fed VIXCLS daily close",
		Kinds:        []types.DataKind{types.DataKindVolatility},
		Remote:       true,
		RequiresAuth: false,
	},
}

// GetSupportedProviders returns the names of all supported providers, sorted.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, string(providerType))
	}

	slices.Sort(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[provider.ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, fmt.Errorf("unsupported provider: %s", providerName)
	}

	return info, nil
}

// GetProvidersForKind returns the metadata of the providers that serve kind, in chain order.
func GetProvidersForKind(kind types.DataKind, polygonEnabled bool) []ProviderInfo {
	order := ProviderOrder(kind, polygonEnabled)
	infos := make([]ProviderInfo, 0, len(order))

	for _, providerType := range order {
		infos = append(infos, providerRegistry[providerType])
	}

	return infos
}
