package normalize

import "strings"

// field is one canonical column and the header names accepted for it, in priority order.
type field struct {
	name    string
	aliases []string
}

var dateField = field{name: "date", aliases: []string{"date", "observation_date", "datetime", "timestamp"}}

var (
	priceFields = []field{
		{name: "open", aliases: []string{"open"}},
		{name: "high", aliases: []string{"high"}},
		{name: "low", aliases: []string{"low"}},
		{name: "close", aliases: []string{"close"}},
	}
	volumeField = field{name: "volume", aliases: []string{"volume"}}

	volatilityField = field{name: "vix", aliases: []string{"vix", "vixcls", "close", "value"}}

	breadthFields = []field{
		{name: "advances", aliases: []string{"advances", "advancers"}},
		{name: "declines", aliases: []string{"declines", "decliners"}},
		{name: "new_highs", aliases: []string{"new_highs", "highs"}},
		{name: "new_lows", aliases: []string{"new_lows", "lows"}},
	}
)

// canonicalHeader lower-cases and trims a header and replaces spaces with underscores.
func canonicalHeader(header string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "_")
}

// columnIndex maps canonical header names to their first position.
type columnIndex map[string]int

func indexColumns(columns []string) columnIndex {
	index := make(columnIndex, len(columns))

	for i, column := range columns {
		name := canonicalHeader(column)
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}

	return index
}

// resolve returns the position of the first alias present, or -1.
func (c columnIndex) resolve(f field) int {
	for _, alias := range f.aliases {
		if i, ok := c[alias]; ok {
			return i
		}
	}

	return -1
}

// resolveAll resolves every field and collects the names of the missing ones.
func (c columnIndex) resolveAll(fields []field) ([]int, []string) {
	positions := make([]int, len(fields))

	var missing []string

	for i, f := range fields {
		positions[i] = c.resolve(f)
		if positions[i] < 0 {
			missing = append(missing, f.name)
		}
	}

	return positions, missing
}
