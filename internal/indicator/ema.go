package indicator

import (
	"github.com/rxtech-lab/market-pulse/internal/series"
)

// EMA returns the exponential moving average of s for the given span.
// The smoothing factor is 2/(span+1) and the first output equals the first input,
// so every input date has a defined output.
func EMA(s series.Numeric, span int) (series.Numeric, error) {
	if err := validatePeriod("span", span); err != nil {
		return series.Numeric{}, err
	}

	alpha := 2.0 / float64(span+1)
	builder := series.NewBuilder[float64](s.Len())

	var previous float64

	for i := range s.Len() {
		point := s.At(i)

		value := point.Value
		if i > 0 {
			value = alpha*point.Value + (1-alpha)*previous
		}

		builder.Add(point.Date, value)
		previous = value
	}

	return builder.Build()
}
