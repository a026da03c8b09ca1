package indicator

import (
	"github.com/rxtech-lab/market-pulse/internal/series"
	"github.com/rxtech-lab/market-pulse/pkg/errors"
)

// Ratio divides numerator by denominator on the dates both series share.
func Ratio(numerator, denominator series.Numeric) (series.Numeric, error) {
	return combine(numerator, denominator, func(n, d float64) float64 { return n / d })
}

// Sub subtracts right from left on the dates both series share.
func Sub(left, right series.Numeric) (series.Numeric, error) {
	return combine(left, right, func(l, r float64) float64 { return l - r })
}

// Cumulative returns the running total of s.
func Cumulative(s series.Numeric) (series.Numeric, error) {
	builder := series.NewBuilder[float64](s.Len())
	total := 0.0

	for i := range s.Len() {
		point := s.At(i)
		total += point.Value
		builder.Add(point.Date, total)
	}

	return builder.Build()
}

// Slope returns the lag-N difference s[i] - s[i-periods].
// The first periods observations have no defined difference and are omitted.
func Slope(s series.Numeric, periods int) (series.Numeric, error) {
	if err := validatePeriod("periods", periods); err != nil {
		return series.Numeric{}, err
	}

	builder := series.NewBuilder[float64](max(s.Len()-periods, 0))

	for i := periods; i < s.Len(); i++ {
		point := s.At(i)
		builder.Add(point.Date, point.Value-s.At(i-periods).Value)
	}

	return builder.Build()
}

// LastSlope returns the most recent lag-N difference, or 0 when s is too short to define one.
func LastSlope(s series.Numeric, periods int) (float64, error) {
	slope, err := Slope(s, periods)
	if err != nil {
		return 0, err
	}

	last, ok := slope.Last()
	if !ok {
		return 0, nil
	}

	return last.Value, nil
}

func combine(left, right series.Numeric, op func(float64, float64) float64) (series.Numeric, error) {
	aligned := series.Align(left, right)

	return series.Map(aligned, func(p series.Pair[float64, float64]) float64 {
		return op(p.Left, p.Right)
	}), nil
}

func validatePeriod(name string, period int) error {
	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "%s must be a positive integer, got %d", name, period)
	}

	return nil
}
