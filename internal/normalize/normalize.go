package normalize

import (
	"cmp"
	"math"
	"slices"

	"github.com/rxtech-lab/market-pulse/internal/series"
	"github.com/rxtech-lab/market-pulse/internal/types"
	"github.com/rxtech-lab/market-pulse/pkg/errors"
)

// Price projects a table into a daily OHLCV series.
// open, high, low and close are required; volume defaults to zero when absent.
func Price(table Table) (series.Series[types.PriceBar], error) {
	index := indexColumns(table.Columns)

	fields := append([]field{dateField}, priceFields...)

	positions, missing := index.resolveAll(fields)
	if len(missing) > 0 {
		return series.Series[types.PriceBar]{}, errors.NewSchemaError(string(types.DataKindPrice), missing)
	}

	volume := index.resolve(volumeField)

	return collect(table, positions[0], func(row []string) (types.PriceBar, bool) {
		values, ok := numbers(table, row, positions[1:])
		if !ok {
			return types.PriceBar{}, false
		}

		bar := types.PriceBar{Open: values[0], High: values[1], Low: values[2], Close: values[3], Volume: 0}

		if volume >= 0 {
			if v, ok := parseNumber(table.cell(row, volume)); ok && !math.IsNaN(v) {
				bar.Volume = v
			}
		}

		return bar, true
	})
}

// Volatility projects a table into a daily volatility index series.
// The value column is the first of vix, vixcls, close or value present.
func Volatility(table Table) (series.Numeric, error) {
	index := indexColumns(table.Columns)

	positions, missing := index.resolveAll([]field{dateField, volatilityField})
	if len(missing) > 0 {
		return series.Numeric{}, errors.NewSchemaError(string(types.DataKindVolatility), missing)
	}

	return collect(table, positions[0], func(row []string) (float64, bool) {
		values, ok := numbers(table, row, positions[1:])
		if !ok {
			return 0, false
		}

		return values[0], true
	})
}

// Breadth projects a table into a daily market-internals series.
func Breadth(table Table) (series.Series[types.BreadthBar], error) {
	index := indexColumns(table.Columns)

	fields := append([]field{dateField}, breadthFields...)

	positions, missing := index.resolveAll(fields)
	if len(missing) > 0 {
		return series.Series[types.BreadthBar]{}, errors.NewSchemaError(string(types.DataKindBreadth), missing)
	}

	return collect(table, positions[0], func(row []string) (types.BreadthBar, bool) {
		values, ok := numbers(table, row, positions[1:])
		if !ok {
			return types.BreadthBar{}, false
		}

		return types.BreadthBar{Advances: values[0], Declines: values[1], NewHighs: values[2], NewLows: values[3]}, true
	})
}

// numbers parses the cells at positions. Any blank or non-numeric cell rejects the row.
func numbers(table Table, row []string, positions []int) ([]float64, bool) {
	values := make([]float64, len(positions))

	for i, position := range positions {
		value, ok := parseNumber(table.cell(row, position))
		if !ok || math.IsNaN(value) {
			return nil, false
		}

		values[i] = value
	}

	return values, true
}

// collect parses dates, converts rows, sorts them stably by date and keeps the
// last row of each date.
func collect[T any](table Table, datePosition int, convert func([]string) (T, bool)) (series.Series[T], error) {
	points := make([]series.Point[T], 0, len(table.Rows))

	for _, row := range table.Rows {
		raw := table.cell(row, datePosition)
		if raw == "" {
			continue
		}

		date, err := ParseDate(raw)
		if err != nil {
			return series.Series[T]{}, err
		}

		value, ok := convert(row)
		if !ok {
			continue
		}

		points = append(points, series.Point[T]{Date: date, Value: value})
	}

	slices.SortStableFunc(points, func(a, b series.Point[T]) int {
		return cmp.Compare(a.Date.Unix(), b.Date.Unix())
	})

	return series.New(dedupeLastWins(points))
}

func dedupeLastWins[T any](points []series.Point[T]) []series.Point[T] {
	deduped := make([]series.Point[T], 0, len(points))

	for _, point := range points {
		if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(point.Date) {
			deduped[n-1] = point

			continue
		}

		deduped = append(deduped, point)
	}

	return deduped
}
