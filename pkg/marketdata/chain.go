package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/rxtech-lab/market-pulse/internal/logger"
	"github.com/rxtech-lab/market-pulse/internal/metrics"
	"github.com/rxtech-lab/market-pulse/internal/series"
	"github.com/rxtech-lab/market-pulse/pkg/errors"
	"github.com/rxtech-lab/market-pulse/pkg/marketdata/provider"
	"go.uber.org/zap"
)

// Chain labels used in error messages and logs.
const (
	LabelMarketData = "Market data"
	LabelVIXData    = "VIX data"
	LabelBreadth    = "Breadth data"
)

// FetchResult is the outcome of a successful chain fetch.
type FetchResult[T any] struct {
	// Series is the winning provider's data. It is never empty.
	Series series.Series[T]
	// Provider is the name of the provider that produced Series.
	Provider string
	// Errors lists the failures of the providers tried before the winner.
	Errors []string
}

// ChainOption configures a Chain.
type ChainOption func(*chainOptions)

type chainOptions struct {
	metrics *metrics.Metrics
}

// WithMetrics records every provider attempt on m.
func WithMetrics(m *metrics.Metrics) ChainOption {
	return func(o *chainOptions) {
		o.metrics = m
	}
}

// Chain tries an ordered list of providers for one data kind and returns the first
// non-empty result. It holds no per-call state and is safe to reuse.
type Chain[T any] struct {
	label     string
	providers []provider.Provider[T]
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

// NewChain creates a chain. The provider list must not be empty.
func NewChain[T any](label string, providers []provider.Provider[T], log *logger.Logger, opts ...ChainOption) (*Chain[T], error) {
	if len(providers) == 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "%s chain requires at least one provider", label)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	var options chainOptions
	for _, opt := range opts {
		opt(&options)
	}

	return &Chain[T]{
		label:     label,
		providers: append([]provider.Provider[T](nil), providers...),
		logger:    log,
		metrics:   options.metrics,
	}, nil
}

// Name returns the chain label, so a chain can stand in for a single provider.
func (c *Chain[T]) Name() string {
	return c.label
}

// Label returns the chain label.
func (c *Chain[T]) Label() string {
	return c.label
}

// Providers returns the provider names in trial order.
func (c *Chain[T]) Providers() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}

	return names
}

// Fetch tries each provider in order. Failures and empty results are recorded as
// "<provider>: <message>" and the next provider is tried. When every provider fails
// the returned error is a *errors.ChainExhaustedError with one message per provider.
func (c *Chain[T]) Fetch(ctx context.Context, symbol string) (FetchResult[T], error) {
	var (
		messages []string
		causes   []error
	)

	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return FetchResult[T]{}, err
		}

		started := time.Now()
		result, err := p.FetchDaily(ctx, symbol)

		if err == nil && result.IsEmpty() {
			err = errors.New(errors.ErrCodeEmptyResult, "no data returned")
		}

		c.metrics.ObserveFetch(c.label, p.Name(), time.Since(started), err)

		if err != nil {
			message := fmt.Sprintf("%s: %s", p.Name(), err.Error())
			messages = append(messages, message)
			causes = append(causes, err)

			c.logger.Warn("Provider failed",
				zap.String("chain", c.label),
				zap.String("provider", p.Name()),
				zap.String("symbol", symbol),
				zap.Error(err),
			)

			continue
		}

		c.logger.Debug("Provider succeeded",
			zap.String("chain", c.label),
			zap.String("provider", p.Name()),
			zap.String("symbol", symbol),
			zap.Int("rows", result.Len()),
		)

		return FetchResult[T]{Series: result, Provider: p.Name(), Errors: messages}, nil
	}

	return FetchResult[T]{}, errors.NewChainExhaustedError(c.label, messages, causes)
}

// FetchDaily returns only the series of Fetch.
func (c *Chain[T]) FetchDaily(ctx context.Context, symbol string) (series.Series[T], error) {
	result, err := c.Fetch(ctx, symbol)
	if err != nil {
		return series.Series[T]{}, err
	}

	return result.Series, nil
}
