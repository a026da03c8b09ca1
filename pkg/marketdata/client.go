package marketdata

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/market-pulse/internal/logger"
	"github.com/rxtech-lab/market-pulse/internal/types"
	"github.com/rxtech-lab/market-pulse/pkg/marketdata/provider"
	"github.com/rxtech-lab/market-pulse/pkg/marketdata/writer"
	"go.uber.org/zap"
)

// WriterType defines the type of cache file writer.
type WriterType string

const (
	WriterDuckDB WriterType = "duckdb"
)

// OnProgress is called after each cache target completes, successfully or not.
type OnProgress func(current, total int, message string)

// ClientConfig holds the configuration for the cache client.
type ClientConfig struct {
	WriterType       WriterType `validate:"required,oneof=duckdb"`
	DataPath         string     `validate:"required"`
	PriceSymbols     []string   `validate:"required,min=1,dive,required"`
	VolatilitySymbol string     `validate:"required"`
}

// CacheResult describes one cache file written by Download.
type CacheResult struct {
	Kind     types.DataKind
	Symbol   string
	Provider string
	Path     string
	Rows     int
}

// Client fetches every configured series through the chains and stores it as local cache files.
type Client struct {
	chains     *Chains
	config     ClientConfig
	log        *logger.Logger
	onProgress OnProgress
}

// NewClient creates a cache client. onProgress and log may be nil.
func NewClient(config ClientConfig, chains *Chains, log *logger.Logger, onProgress OnProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}

	if chains == nil || chains.Price == nil || chains.Volatility == nil {
		return nil, fmt.Errorf("invalid client configuration: price and volatility chains are required")
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	if onProgress == nil {
		onProgress = func(int, int, string) {}
	}

	return &Client{
		chains:     chains,
		config:     config,
		log:        log,
		onProgress: onProgress,
	}, nil
}

type cacheTarget struct {
	kind   types.DataKind
	symbol string
	fetch  func(ctx context.Context) (string, []writer.Record, error)
}

// Total returns the number of cache files Download will attempt.
func (c *Client) Total() int {
	return len(c.targets())
}

func (c *Client) targets() []cacheTarget {
	targets := make([]cacheTarget, 0, len(c.config.PriceSymbols)+2)

	for _, symbol := range c.config.PriceSymbols {
		targets = append(targets, cacheTarget{
			kind:   types.DataKindPrice,
			symbol: symbol,
			fetch: func(ctx context.Context) (string, []writer.Record, error) {
				result, err := c.chains.Price.Fetch(ctx, symbol)

				return result.Provider, writer.PriceRecords(result.Series), err
			},
		})
	}

	targets = append(targets, cacheTarget{
		kind:   types.DataKindVolatility,
		symbol: c.config.VolatilitySymbol,
		fetch: func(ctx context.Context) (string, []writer.Record, error) {
			result, err := c.chains.Volatility.Fetch(ctx, c.config.VolatilitySymbol)

			return result.Provider, writer.VolatilityRecords(result.Series), err
		},
	})

	if c.chains.Breadth != nil {
		targets = append(targets, cacheTarget{
			kind:   types.DataKindBreadth,
			symbol: provider.BreadthFileName,
			fetch: func(ctx context.Context) (string, []writer.Record, error) {
				result, err := c.chains.Breadth.Fetch(ctx, provider.BreadthFileName)

				return result.Provider, writer.BreadthRecords(result.Series), err
			},
		})
	}

	return targets
}

// Download fetches each target in order and writes it to <DataPath>/<name>.parquet.
// Every target is attempted; the first error is returned along with the files that were written.
func (c *Client) Download(ctx context.Context) ([]CacheResult, error) {
	targets := c.targets()
	results := make([]CacheResult, 0, len(targets))

	var firstErr error

	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := c.download(ctx, target)
		if err != nil {
			c.log.Warn("Cache update failed",
				zap.String("kind", string(target.kind)),
				zap.String("symbol", target.symbol),
				zap.Error(err),
			)

			if firstErr == nil {
				firstErr = err
			}

			c.onProgress(i+1, len(targets), fmt.Sprintf("%s failed", target.symbol))

			continue
		}

		results = append(results, result)
		c.onProgress(i+1, len(targets), fmt.Sprintf("%s: %d rows from %s", target.symbol, result.Rows, result.Provider))
	}

	return results, firstErr
}

func (c *Client) download(ctx context.Context, target cacheTarget) (CacheResult, error) {
	providerName, records, err := target.fetch(ctx)
	if err != nil {
		return CacheResult{}, fmt.Errorf("failed to fetch %s: %w", target.symbol, err)
	}

	w, err := c.setupWriter(target)
	if err != nil {
		return CacheResult{}, fmt.Errorf("failed to setup writer: %w", err)
	}

	path, err := writer.WriteAll(w, records)
	if err != nil {
		return CacheResult{}, fmt.Errorf("failed to write %s: %w", target.symbol, err)
	}

	c.log.Info("Cache updated",
		zap.String("kind", string(target.kind)),
		zap.String("symbol", target.symbol),
		zap.String("provider", providerName),
		zap.String("path", path),
		zap.Int("rows", len(records)),
	)

	return CacheResult{
		Kind:     target.kind,
		Symbol:   target.symbol,
		Provider: providerName,
		Path:     path,
		Rows:     len(records),
	}, nil
}

// setupWriter creates the writer for a target based on configuration.
func (c *Client) setupWriter(target cacheTarget) (writer.MarketDataWriter, error) {
	switch c.config.WriterType {
	case WriterDuckDB:
		name := provider.CacheFileName(target.kind, target.symbol) + provider.ParquetExtension

		return writer.NewDuckDBWriter(filepath.Join(c.config.DataPath, name), target.kind), nil
	default:
		return nil, fmt.Errorf("unsupported writer type: %s", c.config.WriterType)
	}
}
