package mocks

import (
	"time"

	"github.com/rxtech-lab/market-pulse/internal/series"
)

// MustSeries builds a series from literal points and panics on unordered input.
func MustSeries[T any](points []series.Point[T]) series.Series[T] {
	s, err := series.New(points)
	if err != nil {
		panic(err)
	}

	return s
}

// DailySeries builds a numeric series with one value per consecutive calendar day from start.
func DailySeries(start time.Time, values []float64) series.Numeric {
	points := make([]series.Point[float64], len(values))
	for i, v := range values {
		points[i] = series.Point[float64]{Date: series.Day(start).AddDate(0, 0, i), Value: v}
	}

	return MustSeries(points)
}
