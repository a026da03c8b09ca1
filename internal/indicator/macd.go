package indicator

import (
	"fmt"

	"github.com/rxtech-lab/market-pulse/internal/series"
)

const (
	// DefaultMACDFast is the fast EMA span
	DefaultMACDFast = 12
	// DefaultMACDSlow is the slow EMA span
	DefaultMACDSlow = 26
	// DefaultMACDSignal is the signal line EMA span
	DefaultMACDSignal = 9
)

// MACDResult holds the MACD line and its signal line, both aligned to the input dates.
type MACDResult struct {
	Line   series.Numeric
	Signal series.Numeric
}

// MACD computes the fast-minus-slow EMA line and the EMA of that line.
func MACD(s series.Numeric, fast, slow, signal int) (MACDResult, error) {
	fastEMA, err := EMA(s, fast)
	if err != nil {
		return MACDResult{}, fmt.Errorf("failed to calculate fast EMA: %w", err)
	}

	slowEMA, err := EMA(s, slow)
	if err != nil {
		return MACDResult{}, fmt.Errorf("failed to calculate slow EMA: %w", err)
	}

	line, err := Sub(fastEMA, slowEMA)
	if err != nil {
		return MACDResult{}, err
	}

	signalLine, err := EMA(line, signal)
	if err != nil {
		return MACDResult{}, fmt.Errorf("failed to calculate signal line: %w", err)
	}

	return MACDResult{Line: line, Signal: signalLine}, nil
}

// DefaultMACD computes MACD with the 12/26/9 spans.
func DefaultMACD(s series.Numeric) (MACDResult, error) {
	return MACD(s, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
}
