package normalize

import (
	"strconv"
	"time"

	"github.com/rxtech-lab/market-pulse/internal/series"
	"github.com/rxtech-lab/market-pulse/pkg/errors"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"20060102",
}

// ParseDate reads a calendar date in any supported layout.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return series.Day(t), nil
		}
	}

	return time.Time{}, errors.Newf(errors.ErrCodeSchema, "unreadable date %q", value)
}

// parseNumber reads a numeric cell. Blank and placeholder cells are not numbers.
func parseNumber(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}

	number, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}

	return number, true
}
