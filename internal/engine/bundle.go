// Package engine turns a bundle of daily series into signals, a score and a snapshot.
package engine

import (
	"context"
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/market-pulse/internal/config"
	"github.com/rxtech-lab/market-pulse/internal/logger"
	"github.com/rxtech-lab/market-pulse/internal/series"
	"github.com/rxtech-lab/market-pulse/internal/types"
	"github.com/rxtech-lab/market-pulse/pkg/errors"
	"github.com/rxtech-lab/market-pulse/pkg/marketdata"
	"go.uber.org/zap"
)

// Bundle holds the series for one computation pass. Breadth absence is a valid state.
type Bundle struct {
	Broad       series.Series[types.PriceBar]
	EqualWeight series.Series[types.PriceBar]
	Volatility  series.Numeric
	Breadth     optional.Option[series.Series[types.BreadthBar]]
}

// Validate reports an InsufficientDataError when a required series is empty, or when
// breadth is present but empty.
func (b Bundle) Validate() error {
	required := []struct {
		name string
		size int
	}{
		{name: "broad market price", size: b.Broad.Len()},
		{name: "equal-weight price", size: b.EqualWeight.Len()},
		{name: "volatility", size: b.Volatility.Len()},
	}

	for _, r := range required {
		if r.size == 0 {
			return errors.NewInsufficientDataErrorf(1, 0, "", "no %s data", r.name)
		}
	}

	if breadth, err := b.Breadth.Take(); err == nil && breadth.IsEmpty() {
		return errors.NewInsufficientDataErrorf(1, 0, "", "breadth data is present but empty")
	}

	return nil
}

// LoadData fetches the broad, equal-weight and volatility series, which are required,
// and the breadth series, which degrades to absent when its chain is exhausted.
func LoadData(ctx context.Context, chains *marketdata.Chains, cfg config.Config, log *logger.Logger) (Bundle, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	broad, err := chains.Price.FetchDaily(ctx, cfg.BroadSymbol)
	if err != nil {
		return Bundle{}, fmt.Errorf("failed to load %s: %w", cfg.BroadSymbol, err)
	}

	equalWeight, err := chains.Price.FetchDaily(ctx, cfg.EqualWeightSymbol)
	if err != nil {
		return Bundle{}, fmt.Errorf("failed to load %s: %w", cfg.EqualWeightSymbol, err)
	}

	volatility, err := chains.Volatility.FetchDaily(ctx, cfg.VolatilitySymbol)
	if err != nil {
		return Bundle{}, fmt.Errorf("failed to load %s: %w", cfg.VolatilitySymbol, err)
	}

	bundle := Bundle{
		Broad:       broad,
		EqualWeight: equalWeight,
		Volatility:  volatility,
		Breadth:     optional.None[series.Series[types.BreadthBar]](),
	}

	if chains.Breadth == nil {
		log.Debug("No breadth chain configured")

		return bundle, nil
	}

	breadth, err := chains.Breadth.FetchDaily(ctx, BreadthSymbol)
	if err != nil {
		if ctx.Err() != nil {
			return Bundle{}, ctx.Err()
		}

		log.Warn("Breadth unavailable, breadth signals degrade to N/A", zap.Error(err))

		return bundle, nil
	}

	bundle.Breadth = optional.Some(breadth)

	return bundle, nil
}
