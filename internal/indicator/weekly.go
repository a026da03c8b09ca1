package indicator

import (
	"time"

	"github.com/rxtech-lab/market-pulse/internal/series"
)

// WeekEnding returns the Friday that closes the week containing d.
// Saturdays and Sundays belong to the following Friday.
func WeekEnding(d time.Time) time.Time {
	offset := (int(time.Friday) - int(d.Weekday()) + 7) % 7

	return series.Day(d).AddDate(0, 0, offset)
}

// Weekly resamples a daily series into weeks ending Friday, keeping the last
// observation of each week labelled by the Friday date. Weeks without data are skipped.
func Weekly[T any](s series.Series[T]) (series.Series[T], error) {
	builder := series.NewBuilder[T](s.Len()/5 + 1)

	var (
		current time.Time
		value   T
		open    bool
	)

	for i := range s.Len() {
		point := s.At(i)
		week := WeekEnding(point.Date)

		if open && !week.Equal(current) {
			builder.Add(current, value)
		}

		current = week
		value = point.Value
		open = true
	}

	if open {
		builder.Add(current, value)
	}

	return builder.Build()
}
