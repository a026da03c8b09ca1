package writer

import (
	"fmt"
	"time"

	"github.com/rxtech-lab/market-pulse/internal/series"
	"github.com/rxtech-lab/market-pulse/internal/types"
)

// Record is one dated row of a cache file. Values follow Columns(kind).
type Record struct {
	Date   time.Time
	Values []float64
}

// MarketDataWriter defines the interface for writing normalized daily data to a cache file.
type MarketDataWriter interface {
	// Initialize sets up the writer and loads rows already present in the output file.
	Initialize() error
	// Write upserts a single row keyed by date.
	Write(record Record) error
	// Finalize commits the rows and replaces the output file.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}

// Columns returns the value columns stored for a data kind, in record order.
// The names match the canonical fields the normalizer reads back.
func Columns(kind types.DataKind) ([]string, error) {
	switch kind {
	case types.DataKindPrice:
		return []string{"open", "high", "low", "close", "volume"}, nil
	case types.DataKindVolatility:
		return []string{"vix"}, nil
	case types.DataKindBreadth:
		return []string{"advances", "declines", "new_highs", "new_lows"}, nil
	default:
		return nil, fmt.Errorf("unsupported data kind: %s", kind)
	}
}

// PriceRecords converts a price series into records.
func PriceRecords(s series.Series[types.PriceBar]) []Record {
	return records(s, func(bar types.PriceBar) []float64 {
		return []float64{bar.Open, bar.High, bar.Low, bar.Close, bar.Volume}
	})
}

// VolatilityRecords converts a volatility series into records.
func VolatilityRecords(s series.Numeric) []Record {
	return records(s, func(v float64) []float64 { return []float64{v} })
}

// BreadthRecords converts a breadth series into records.
func BreadthRecords(s series.Series[types.BreadthBar]) []Record {
	return records(s, func(bar types.BreadthBar) []float64 {
		return []float64{bar.Advances, bar.Declines, bar.NewHighs, bar.NewLows}
	})
}

func records[T any](s series.Series[T], values func(T) []float64) []Record {
	out := make([]Record, 0, s.Len())
	for _, point := range s.Points() {
		out = append(out, Record{Date: point.Date, Values: values(point.Value)})
	}

	return out
}

// WriteAll initializes w, writes every record and finalizes it. w is closed on return.
func WriteAll(w MarketDataWriter, records []Record) (outputPath string, err error) {
	if err := w.Initialize(); err != nil {
		return "", err
	}

	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for _, record := range records {
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	return w.Finalize()
}
