package indicator

import (
	"github.com/rxtech-lab/market-pulse/internal/series"
)

// SMA returns the trailing simple moving average of s.
// Before the window is full the mean is taken over the available prefix.
func SMA(s series.Numeric, window int) (series.Numeric, error) {
	if err := validatePeriod("window", window); err != nil {
		return series.Numeric{}, err
	}

	builder := series.NewBuilder[float64](s.Len())
	sum := 0.0

	for i := range s.Len() {
		point := s.At(i)
		sum += point.Value

		if i >= window {
			sum -= s.At(i - window).Value
		}

		count := min(i+1, window)
		builder.Add(point.Date, sum/float64(count))
	}

	return builder.Build()
}
